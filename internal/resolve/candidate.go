// SPDX-License-Identifier: MPL-2.0

package resolve

// Source indicates where a candidate executable was found.
type Source int

const (
	// SourceEnvOverride indicates the path came from a per-tool
	// environment variable such as CONDA_EXE.
	SourceEnvOverride Source = iota
	// SourceDataDir indicates the path came from the managed cache
	// directory owned by this tool.
	SourceDataDir
	// SourceSearchPath indicates the path came from the process
	// search path.
	SourceSearchPath
)

// String returns a human-readable source name.
func (s Source) String() string {
	switch s {
	case SourceEnvOverride:
		return "environment override"
	case SourceDataDir:
		return "managed cache directory"
	case SourceSearchPath:
		return "search path"
	default:
		return "unknown"
	}
}

// Candidate is a filesystem path under consideration as a resolution
// result, tagged with its provenance. Candidates live only for the
// duration of a single resolution call.
type Candidate struct {
	// Path is the absolute path to the executable.
	Path string
	// Source indicates where the path was found.
	Source Source
}
