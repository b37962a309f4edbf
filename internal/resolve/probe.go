// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/conda-incubator/ensureconda/internal/tool"
	"github.com/conda-incubator/ensureconda/pkg/platform"
)

// shimSegment marks search-path directories injected by pyenv. The
// executables inside exist but fail at run time outside pyenv's own
// execution environment, so they must never be yielded.
var shimSegment = filepath.Join(".pyenv", "shims")

// defaultPathext mirrors the Windows default when PATHEXT is unset.
const defaultPathext = ".COM;.EXE;.BAT;.CMD"

// Probe produces ordered candidate executables for a tool kind.
type Probe struct {
	dataDir string
}

// NewProbe creates a Probe that checks dataDir as the managed cache
// directory.
func NewProbe(dataDir string) *Probe {
	return &Probe{dataDir: dataDir}
}

// Candidates returns a lazy sequence of executable candidates for kind,
// in trust order: the environment override (when the kind defines one),
// the managed cache directory, then the process search path with shim
// directories excluded. Filesystem checks happen only as the sequence is
// advanced, so taking the first element stays cheap.
func (p *Probe) Candidates(kind tool.Kind) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		if env := kind.OverrideEnv(); env != "" {
			if path := os.Getenv(env); path != "" && isExecutable(path) {
				if !yield(Candidate{Path: path, Source: SourceEnvOverride}) {
					return
				}
			}
		}

		names := extCandidates(kind.Executable())

		if p.dataDir != "" {
			for _, name := range names {
				path := filepath.Join(p.dataDir, name)
				if !isExecutable(path) {
					continue
				}
				if !yield(Candidate{Path: path, Source: SourceDataDir}) {
					return
				}
			}
		}

		for _, name := range names {
			path, ok := searchPathNoShims(name)
			if !ok {
				continue
			}
			if !yield(Candidate{Path: path, Source: SourceSearchPath}) {
				return
			}
		}
	}
}

// extCandidates returns the filenames to try for a logical executable
// name: on Windows every PATHEXT extension, elsewhere the bare name and
// a ".exe" variant.
func extCandidates(name string) []string {
	if !platform.IsWindows() {
		return []string{name, name + ".exe"}
	}
	pathext := os.Getenv("PATHEXT")
	if pathext == "" {
		pathext = defaultPathext
	}
	var names []string
	for _, ext := range strings.Split(pathext, string(os.PathListSeparator)) {
		names = append(names, name+ext)
	}
	return names
}

// searchPathNoShims looks name up on the process search path, skipping
// any directory whose path contains a shim-manager segment. Returns the
// first executable regular file found.
func searchPathNoShims(name string) (string, bool) {
	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if dir == "" || strings.Contains(dir, shimSegment) {
			continue
		}
		path := filepath.Join(dir, name)
		if isExecutable(path) {
			return path, true
		}
	}
	return "", false
}

// isExecutable reports whether path is an existing regular file the
// current user can execute. On Windows the extension check performed by
// extCandidates substitutes for a permission bit.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	if platform.IsWindows() {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
