// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"fmt"
	"runtime"
)

// OS name constants for runtime.GOOS comparisons.
// Centralizes the string literals to avoid scattered magic strings.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// ErrUnsupportedPlatform indicates the running OS/architecture pair has no
// conda platform tag. There is no fallback: callers must surface this.
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// Subdir returns the conda platform tag (e.g. "linux-64", "osx-arm64") for
// the running OS and architecture.
func Subdir() (string, error) {
	return subdirFor(runtime.GOOS, runtime.GOARCH)
}

// subdirFor is the pure mapping behind Subdir. Non-x86 architectures keep
// their machine name in the tag; x86 tags carry the pointer width instead.
func subdirFor(goos, goarch string) (string, error) {
	switch goos {
	case Linux:
		switch goarch {
		case "amd64":
			return "linux-64", nil
		case "386":
			return "linux-32", nil
		case "arm64":
			return "linux-aarch64", nil
		case "ppc64":
			return "linux-ppc64", nil
		case "ppc64le":
			return "linux-ppc64le", nil
		}
	case Darwin:
		switch goarch {
		case "amd64":
			return "osx-64", nil
		case "arm64":
			return "osx-arm64", nil
		}
	case Windows:
		switch goarch {
		case "amd64":
			return "win-64", nil
		case "386":
			return "win-32", nil
		}
	}
	return "", fmt.Errorf("%w: %s/%s", ErrUnsupportedPlatform, goos, goarch)
}

// ExeSuffix returns ".exe" on Windows and "" elsewhere.
func ExeSuffix() string {
	if runtime.GOOS == Windows {
		return ".exe"
	}
	return ""
}

// IsWindows reports whether the process is running on Windows.
func IsWindows() bool {
	return runtime.GOOS == Windows
}
