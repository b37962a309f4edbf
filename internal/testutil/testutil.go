// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers for tests that need fake tool
// executables and isolated search paths, reducing boilerplate and
// keeping error handling consistent.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// RequirePOSIXShell skips the test on platforms where fake tool scripts
// cannot be executed via a shebang line.
func RequirePOSIXShell(t testing.TB) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tool scripts require a POSIX shell")
	}
}

// WriteFakeTool creates an executable script at dir/name that prints
// output when invoked (e.g. with --version) and returns its path.
func WriteFakeTool(t testing.TB, dir, name, output string) string {
	t.Helper()
	RequirePOSIXShell(t)
	path := filepath.Join(dir, name)
	// Use the printf builtin rather than an external command such as cat:
	// tests often restrict PATH to the fake tool's directory, so the script
	// cannot rely on finding system binaries.
	escaped := strings.ReplaceAll(output, "'", `'\''`)
	script := "#!/bin/sh\nprintf '%s\\n' '" + escaped + "'\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("failed to write fake tool %s: %v", path, err)
	}
	return path
}

// WriteFailingTool creates an executable script at dir/name that exits
// non-zero, simulating a broken binary on the search path.
func WriteFailingTool(t testing.TB, dir, name string) string {
	t.Helper()
	RequirePOSIXShell(t)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 1\n"), 0o755); err != nil {
		t.Fatalf("failed to write failing tool %s: %v", path, err)
	}
	return path
}

// WriteNonExecutable creates a plain regular file at dir/name without
// execute permission and returns its path.
func WriteNonExecutable(t testing.TB, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("not a binary\n"), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
	return path
}

// MustMkdirAll creates a directory along with any necessary parents.
// The test fails immediately if the operation fails.
func MustMkdirAll(t testing.TB, path string, perm os.FileMode) {
	t.Helper()
	if err := os.MkdirAll(path, perm); err != nil {
		t.Fatalf("failed to create directory %s: %v", path, err)
	}
}

// MustStat returns the os.FileInfo for path, failing the test on error.
func MustStat(t testing.TB, path string) os.FileInfo {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("failed to stat %s: %v", path, err)
	}
	return info
}
