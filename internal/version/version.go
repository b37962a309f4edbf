// SPDX-License-Identifier: MPL-2.0

// Package version parses and compares the self-reported versions of
// conda-compatible executables, and evaluates minimum-version constraints.
package version

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"golang.org/x/mod/semver"
)

// Constraint is a parsed, comparable version. The zero value means
// "no constraint" and is satisfied by every executable.
type Constraint struct {
	canon string
}

// Parse validates s as a version constraint. Missing minor/patch
// components default to zero ("4.8" parses as 4.8.0). An empty string
// yields the zero Constraint.
func Parse(s string) (Constraint, error) {
	if s == "" {
		return Constraint{}, nil
	}
	norm := normalize(s)
	if !semver.IsValid(norm) {
		return Constraint{}, fmt.Errorf("invalid version %q", s)
	}
	return Constraint{canon: semver.Canonical(norm)}, nil
}

// FromString parses a version reported by a tool. Unparsable input maps
// to 0.0.0 rather than an error: an unknown version is rejected by any
// positive constraint and accepted by the absence of one.
func FromString(s string) Constraint {
	norm := normalize(s)
	if !semver.IsValid(norm) {
		return Constraint{canon: "v0.0.0"}
	}
	return Constraint{canon: semver.Canonical(norm)}
}

// IsNone reports whether c carries no constraint.
func (c Constraint) IsNone() bool {
	return c.canon == ""
}

// String returns the version without the internal "v" prefix, or "" for
// the zero Constraint.
func (c Constraint) String() string {
	return strings.TrimPrefix(c.canon, "v")
}

// Compare orders c against other with standard version precedence.
func (c Constraint) Compare(other Constraint) int {
	return semver.Compare(c.canon, other.canon)
}

// normalize gives s the "v" prefix the semver package requires.
func normalize(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "v") {
		s = "v" + s
	}
	return s
}

// Func reports the version of the executable at exe. Implementations
// invoke the executable; failure to execute it is returned as an error,
// while unparsable output resolves to 0.0.0.
type Func func(ctx context.Context, exe string) (Constraint, error)

// Mamba determines the version of a mamba executable.
//
// mamba v1 reports two lines ("mamba 1.4.7" / "conda 23.5.0"); the line
// with the mamba prefix carries the version. mamba v2 reports a bare
// version on a single line, matching micromamba, so Mamba falls back to
// that format when no prefixed line is present.
func Mamba(ctx context.Context, exe string) (Constraint, error) {
	out, err := versionOutput(ctx, exe)
	if err != nil {
		return Constraint{}, err
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "mamba") {
			return FromString(lastToken(line)), nil
		}
	}
	return firstLineVersion(out), nil
}

// Micromamba determines the version of a micromamba executable: the
// trailing token of the first output line.
func Micromamba(ctx context.Context, exe string) (Constraint, error) {
	out, err := versionOutput(ctx, exe)
	if err != nil {
		return Constraint{}, err
	}
	return firstLineVersion(out), nil
}

// Conda determines the version of a conda or conda-standalone
// executable, reported as "conda <version>".
func Conda(ctx context.Context, exe string) (Constraint, error) {
	out, err := versionOutput(ctx, exe)
	if err != nil {
		return Constraint{}, err
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "conda") {
			return FromString(lastToken(line)), nil
		}
	}
	return FromString(""), nil
}

// Satisfies reports whether the executable at exe meets min according to
// fn. A zero min is satisfied without invoking the executable. Errors
// from fn (the executable could not be run) propagate to the caller.
func Satisfies(ctx context.Context, exe string, min Constraint, fn Func) (bool, error) {
	if min.IsNone() {
		return true, nil
	}
	v, err := fn(ctx, exe)
	if err != nil {
		return false, err
	}
	return v.Compare(min) >= 0, nil
}

// versionOutput runs "<exe> --version" and returns its trimmed stdout.
// The call blocks for the duration of the child process.
func versionOutput(ctx context.Context, exe string) (string, error) {
	out, err := exec.CommandContext(ctx, exe, "--version").Output()
	if err != nil {
		return "", fmt.Errorf("running %s --version: %w", exe, err)
	}
	return strings.TrimSpace(string(out)), nil
}

func firstLineVersion(out string) Constraint {
	line, _, _ := strings.Cut(out, "\n")
	return FromString(lastToken(line))
}

func lastToken(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
