// SPDX-License-Identifier: MPL-2.0

package tool

import "testing"

func TestKindNames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind       Kind
		name       string
		executable string
	}{
		{Mamba, "mamba", "mamba"},
		{Micromamba, "micromamba", "micromamba"},
		{Conda, "conda", "conda"},
		{CondaStandalone, "conda-standalone", "conda_standalone"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.name {
			t.Errorf("%d.String() = %q, want %q", tt.kind, got, tt.name)
		}
		if got := tt.kind.Executable(); got != tt.executable {
			t.Errorf("%s.Executable() = %q, want %q", tt.kind, got, tt.executable)
		}
	}
}

func TestKindsPriorityOrder(t *testing.T) {
	t.Parallel()

	want := []Kind{Mamba, Micromamba, Conda, CondaStandalone}
	got := Kinds()
	if len(got) != len(want) {
		t.Fatalf("Kinds() returned %d kinds, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Kinds()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestOverrideEnv(t *testing.T) {
	t.Parallel()

	for _, k := range Kinds() {
		env := k.OverrideEnv()
		if k == Conda {
			if env != "CONDA_EXE" {
				t.Errorf("Conda.OverrideEnv() = %q, want CONDA_EXE", env)
			}
		} else if env != "" {
			t.Errorf("%s.OverrideEnv() = %q, want empty", k, env)
		}
	}
}
