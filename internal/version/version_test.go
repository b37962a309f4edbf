// SPDX-License-Identifier: MPL-2.0

package version

import (
	"context"
	"testing"

	"github.com/conda-incubator/ensureconda/internal/testutil"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"4.8.2", "4.8.2", false},
		{"0.7.3", "0.7.3", false},
		{"4.8", "4.8.0", false},
		{"23", "23.0.0", false},
		{"2.0.0-rc1", "2.0.0-rc1", false},
		{"", "", false},
		{"not-a-version", "", true},
		{"1.2.3.4", "", true},
	}

	for _, tt := range tests {
		got, err := Parse(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Parse(%q): expected error, got %q", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseEmptyIsNone(t *testing.T) {
	t.Parallel()

	c, err := Parse("")
	if err != nil {
		t.Fatalf("Parse(\"\"): %v", err)
	}
	if !c.IsNone() {
		t.Error("Parse(\"\") should yield the zero Constraint")
	}
}

func TestFromStringUnparsable(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "garbage", "v.v.v", "one.two"} {
		got := FromString(in)
		if got.String() != "0.0.0" {
			t.Errorf("FromString(%q) = %q, want 0.0.0", in, got)
		}
	}
}

func TestCompare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want int
	}{
		{"1.5.0", "2.0.0", -1},
		{"2.0.0", "2.0.0", 0},
		{"23.1.0", "4.8.2", 1},
		{"4.8", "4.8.0", 0},
		{"2.0.0-rc1", "2.0.0", -1},
	}

	for _, tt := range tests {
		if got := FromString(tt.a).Compare(FromString(tt.b)); got != tt.want {
			t.Errorf("Compare(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestMambaV1Output(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	exe := testutil.WriteFakeTool(t, dir, "mamba", "mamba 1.4.7\nconda 23.5.0")

	v, err := Mamba(context.Background(), exe)
	if err != nil {
		t.Fatalf("Mamba: %v", err)
	}
	if v.String() != "1.4.7" {
		t.Errorf("Mamba version = %q, want 1.4.7", v)
	}
}

func TestMambaV2FallsBackToMicromambaFormat(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	exe := testutil.WriteFakeTool(t, dir, "mamba", "2.0.8")

	v, err := Mamba(context.Background(), exe)
	if err != nil {
		t.Fatalf("Mamba: %v", err)
	}
	if v.String() != "2.0.8" {
		t.Errorf("Mamba version = %q, want 2.0.8", v)
	}
}

func TestMicromambaFirstLine(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	exe := testutil.WriteFakeTool(t, dir, "micromamba", "1.5.10\nextra noise")

	v, err := Micromamba(context.Background(), exe)
	if err != nil {
		t.Fatalf("Micromamba: %v", err)
	}
	if v.String() != "1.5.10" {
		t.Errorf("Micromamba version = %q, want 1.5.10", v)
	}
}

func TestCondaOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	exe := testutil.WriteFakeTool(t, dir, "conda", "conda 23.5.0")

	v, err := Conda(context.Background(), exe)
	if err != nil {
		t.Fatalf("Conda: %v", err)
	}
	if v.String() != "23.5.0" {
		t.Errorf("Conda version = %q, want 23.5.0", v)
	}
}

func TestUnparsableOutputIsZero(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	exe := testutil.WriteFakeTool(t, dir, "conda", "something unexpected entirely")

	v, err := Conda(context.Background(), exe)
	if err != nil {
		t.Fatalf("Conda: %v", err)
	}
	if v.String() != "0.0.0" {
		t.Errorf("version = %q, want 0.0.0 for unparsable output", v)
	}
}

func TestVersionOfBrokenExecutableErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	exe := testutil.WriteFailingTool(t, dir, "mamba")

	if _, err := Mamba(context.Background(), exe); err == nil {
		t.Error("expected error from failing executable")
	}
	if _, err := Micromamba(context.Background(), dir+"/does-not-exist"); err == nil {
		t.Error("expected error from missing executable")
	}
}

func TestSatisfiesNoConstraint(t *testing.T) {
	t.Parallel()

	// A zero constraint must not invoke the executable at all.
	failing := func(context.Context, string) (Constraint, error) {
		t.Fatal("version func invoked despite zero constraint")
		return Constraint{}, nil
	}
	ok, err := Satisfies(context.Background(), "/nonexistent", Constraint{}, failing)
	if err != nil {
		t.Fatalf("Satisfies: %v", err)
	}
	if !ok {
		t.Error("zero constraint should always be satisfied")
	}
}

func TestSatisfiesMonotonicity(t *testing.T) {
	t.Parallel()

	fixed := func(context.Context, string) (Constraint, error) {
		return FromString("1.5.0"), nil
	}

	tests := []struct {
		min  string
		want bool
	}{
		{"1.0.0", true},
		{"1.5.0", true},
		{"2.0.0", false},
	}

	for _, tt := range tests {
		min, err := Parse(tt.min)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.min, err)
		}
		ok, err := Satisfies(context.Background(), "ignored", min, fixed)
		if err != nil {
			t.Fatalf("Satisfies(min=%s): %v", tt.min, err)
		}
		if ok != tt.want {
			t.Errorf("Satisfies(min=%s) = %v, want %v", tt.min, ok, tt.want)
		}
	}
}

func TestSatisfiesPropagatesProbeError(t *testing.T) {
	t.Parallel()

	min, err := Parse("1.0.0")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	dir := t.TempDir()
	exe := testutil.WriteFailingTool(t, dir, "mamba")

	if _, err := Satisfies(context.Background(), exe, min, Mamba); err == nil {
		t.Error("expected probe error to propagate")
	}
}
