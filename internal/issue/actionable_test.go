// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{
			name: "operation only",
			err:  NewActionableError("locate conda executable"),
			want: "failed to locate conda executable",
		},
		{
			name: "operation and resource",
			err: WrapWithContext(errors.New("permission denied"),
				"install micromamba", "/data/ensure-conda/micromamba"),
			want: "failed to install micromamba: /data/ensure-conda/micromamba: permission denied",
		},
		{
			name: "operation and cause",
			err:  WrapWithOperation(errors.New("connection refused"), "fetch package listing"),
			want: "failed to fetch package listing: connection refused",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapNilReturnsNil(t *testing.T) {
	t.Parallel()

	if WrapWithOperation(nil, "anything") != nil {
		t.Error("WrapWithOperation(nil, ...) should return nil")
	}
	if WrapWithContext(nil, "anything", "res") != nil {
		t.Error("WrapWithContext(nil, ...) should return nil")
	}
}

func TestUnwrapPreservesSentinels(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("retries exhausted")
	wrapped := WrapWithOperation(fmt.Errorf("downloading: %w", sentinel), "install micromamba")
	if !errors.Is(wrapped, sentinel) {
		t.Error("errors.Is must see through ActionableError to the sentinel")
	}
}

func TestFormatSuggestions(t *testing.T) {
	t.Parallel()

	err := WrapWithOperation(errors.New("not found"), "locate conda executable").
		WithSuggestion("Pass --no-install to see what is already on PATH").
		WithSuggestion("Check that your PATH includes the conda installation")

	got := err.Format(false)
	if !strings.Contains(got, "• Pass --no-install") {
		t.Errorf("Format missing first suggestion:\n%s", got)
	}
	if !strings.Contains(got, "• Check that your PATH") {
		t.Errorf("Format missing second suggestion:\n%s", got)
	}
	if strings.Contains(got, "Error chain:") {
		t.Errorf("non-verbose Format must not include the error chain:\n%s", got)
	}
}

func TestFormatVerboseChain(t *testing.T) {
	t.Parallel()

	inner := errors.New("connection reset")
	err := WrapWithOperation(fmt.Errorf("downloading archive: %w", inner), "install micromamba")

	got := err.Format(true)
	if !strings.Contains(got, "Error chain:") {
		t.Errorf("verbose Format missing error chain:\n%s", got)
	}
	if !strings.Contains(got, "2. connection reset") {
		t.Errorf("verbose Format missing unwrapped cause:\n%s", got)
	}
}
