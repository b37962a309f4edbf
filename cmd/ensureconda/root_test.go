// SPDX-License-Identifier: MPL-2.0

package main

import (
	"testing"
)

func TestEvaluateFlagPair(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		enable, disable bool
		def             bool
		want            bool
		wantErr         bool
	}{
		{name: "neither keeps default true", def: true, want: true},
		{name: "neither keeps default false", def: false, want: false},
		{name: "enable wins over default", enable: true, def: false, want: true},
		{name: "disable wins over default", disable: true, def: true, want: false},
		{name: "both is an error", enable: true, disable: true, def: true, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := evaluateFlagPair(tt.enable, tt.disable, "mamba", tt.def)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected conflict error")
				}
				return
			}
			if err != nil {
				t.Fatalf("evaluateFlagPair: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveOptionsDefaults(t *testing.T) {
	opts, err := resolveOptions()
	if err != nil {
		t.Fatalf("resolveOptions: %v", err)
	}
	if !opts.Mamba || !opts.Micromamba || !opts.Conda || !opts.CondaStandalone {
		t.Error("every tool kind must be enabled by default")
	}
	if opts.MinCondaVersion != flagMinCondaVersion || opts.MinMambaVersion != flagMinMambaVersion {
		t.Error("minimum version flags must flow into the options")
	}
}

func TestResolveOptionsConflict(t *testing.T) {
	flagConda = true
	flagNoConda = true
	t.Cleanup(func() {
		flagConda = false
		flagNoConda = false
	})

	if _, err := resolveOptions(); err == nil {
		t.Error("expected error for --conda with --no-conda")
	}
}

func TestResolveOptionsDisable(t *testing.T) {
	flagNoMamba = true
	flagNoCondaExe = true
	t.Cleanup(func() {
		flagNoMamba = false
		flagNoCondaExe = false
	})

	opts, err := resolveOptions()
	if err != nil {
		t.Fatalf("resolveOptions: %v", err)
	}
	if opts.Mamba {
		t.Error("--no-mamba must disable mamba")
	}
	if opts.CondaStandalone {
		t.Error("--no-conda-exe must disable conda-standalone")
	}
	if !opts.Micromamba || !opts.Conda {
		t.Error("unrelated tool kinds must stay enabled")
	}
}
