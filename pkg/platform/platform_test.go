// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"runtime"
	"testing"
)

func TestSubdirFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		goos   string
		goarch string
		want   string
	}{
		{"linux", "amd64", "linux-64"},
		{"linux", "386", "linux-32"},
		{"linux", "arm64", "linux-aarch64"},
		{"linux", "ppc64", "linux-ppc64"},
		{"linux", "ppc64le", "linux-ppc64le"},
		{"darwin", "amd64", "osx-64"},
		{"darwin", "arm64", "osx-arm64"},
		{"windows", "amd64", "win-64"},
		{"windows", "386", "win-32"},
	}

	for _, tt := range tests {
		got, err := subdirFor(tt.goos, tt.goarch)
		if err != nil {
			t.Errorf("subdirFor(%s, %s): unexpected error: %v", tt.goos, tt.goarch, err)
			continue
		}
		if got != tt.want {
			t.Errorf("subdirFor(%s, %s) = %q, want %q", tt.goos, tt.goarch, got, tt.want)
		}
	}
}

func TestSubdirForUnsupported(t *testing.T) {
	t.Parallel()

	tests := []struct {
		goos   string
		goarch string
	}{
		{"plan9", "amd64"},
		{"linux", "riscv64"},
		{"windows", "arm64"},
		{"js", "wasm"},
	}

	for _, tt := range tests {
		_, err := subdirFor(tt.goos, tt.goarch)
		if !errors.Is(err, ErrUnsupportedPlatform) {
			t.Errorf("subdirFor(%s, %s): got %v, want ErrUnsupportedPlatform", tt.goos, tt.goarch, err)
		}
	}
}

func TestSubdirMatchesRuntime(t *testing.T) {
	t.Parallel()

	got, err := Subdir()
	if err != nil {
		t.Skipf("running platform not supported: %v", err)
	}
	want, err := subdirFor(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		t.Fatalf("subdirFor(%s, %s): %v", runtime.GOOS, runtime.GOARCH, err)
	}
	if got != want {
		t.Errorf("Subdir() = %q, want %q", got, want)
	}
}

func TestExeSuffix(t *testing.T) {
	t.Parallel()

	suffix := ExeSuffix()
	if runtime.GOOS == Windows {
		if suffix != ".exe" {
			t.Errorf("ExeSuffix() = %q on Windows, want .exe", suffix)
		}
	} else if suffix != "" {
		t.Errorf("ExeSuffix() = %q, want empty", suffix)
	}
}
