// SPDX-License-Identifier: MPL-2.0

// Package ensureconda locates a working conda-compatible executable,
// installing one when nothing suitable is already present.
//
// Resolution walks a fixed trust order (mamba, micromamba, conda,
// conda-standalone), checking an environment override, the managed data
// directory, and the process search path for each tool, and gating every
// candidate by a minimum version. When discovery comes up empty and
// installation is permitted, micromamba or conda-standalone is
// downloaded into the data directory and its path returned.
package ensureconda
