// SPDX-License-Identifier: MPL-2.0

// Package tool enumerates the interchangeable conda-compatible tool
// families the resolver can locate or install.
package tool

// Kind identifies one tool family. Declaration order is resolution
// priority order: mamba is preferred over micromamba, which is preferred
// over conda, which is preferred over conda-standalone.
type Kind int

const (
	// Mamba is the full mamba package manager.
	Mamba Kind = iota
	// Micromamba is the self-contained lightweight mamba variant.
	Micromamba
	// Conda is the standard conda package manager.
	Conda
	// CondaStandalone is the single-file conda.exe build.
	CondaStandalone
)

// Kinds returns all tool kinds in priority order.
func Kinds() []Kind {
	return []Kind{Mamba, Micromamba, Conda, CondaStandalone}
}

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case Mamba:
		return "mamba"
	case Micromamba:
		return "micromamba"
	case Conda:
		return "conda"
	case CondaStandalone:
		return "conda-standalone"
	default:
		return "unknown"
	}
}

// Executable returns the logical executable name probed for on disk,
// without any platform extension.
func (k Kind) Executable() string {
	switch k {
	case Mamba:
		return "mamba"
	case Micromamba:
		return "micromamba"
	case Conda:
		return "conda"
	case CondaStandalone:
		return "conda_standalone"
	default:
		return ""
	}
}

// OverrideEnv returns the environment variable that may point directly at
// an executable of this kind, or "" when the kind defines no override.
// Only conda honors one: activated conda environments export CONDA_EXE.
func (k Kind) OverrideEnv() string {
	if k == Conda {
		return "CONDA_EXE"
	}
	return ""
}
