// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/conda-incubator/ensureconda/internal/tool"
	"github.com/conda-incubator/ensureconda/internal/version"
)

type (
	// Installer obtains tools that could not be discovered. It is
	// satisfied by *installer.Installer; resolver tests substitute fakes.
	Installer interface {
		// Micromamba downloads and installs micromamba into the managed
		// cache directory, returning the installed path.
		Micromamba(ctx context.Context) (string, error)
		// CondaStandalone downloads and installs conda-standalone into
		// the managed cache directory, returning the installed path.
		CondaStandalone(ctx context.Context) (string, error)
	}

	// Options selects which tool kinds participate in a resolution and
	// which minimum versions gate them. Mamba and micromamba share the
	// mamba minimum; conda and conda-standalone share the conda minimum.
	Options struct {
		Mamba           bool
		Micromamba      bool
		Conda           bool
		CondaStandalone bool

		// NoInstall forbids network acquisition of absent tools.
		NoInstall bool

		MinMambaVersion version.Constraint
		MinCondaVersion version.Constraint
	}

	// Resolver walks the fixed tool priority order, gating probe
	// candidates by version and acquiring installable tools on
	// exhaustion when permitted.
	Resolver struct {
		probe     *Probe
		installer Installer
		logger    *log.Logger
	}

	// ResolverOption configures a Resolver during construction.
	ResolverOption func(*Resolver)
)

// WithLogger overrides the logger used for resolution traces.
func WithLogger(l *log.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = l
	}
}

// New creates a Resolver over the given probe and installer.
func New(probe *Probe, installer Installer, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		probe:     probe,
		installer: installer,
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the path of the first executable that satisfies its
// version gate, walking kinds in priority order (mamba, micromamba,
// conda, conda-standalone). Absence of any satisfying executable is a
// normal outcome and returns ("", nil); installation failures propagate
// as errors.
//
// A freshly installed binary is re-checked against its gate. If it is
// somehow below the minimum, resolution falls through to the next kind
// rather than failing — in practice a new download is always the latest
// release.
func (r *Resolver) Resolve(ctx context.Context, opts Options) (string, error) {
	if opts.Mamba {
		if exe := r.firstSatisfying(ctx, tool.Mamba, opts.MinMambaVersion, version.Mamba); exe != "" {
			return exe, nil
		}
	}

	if opts.Micromamba {
		if exe := r.firstSatisfying(ctx, tool.Micromamba, opts.MinMambaVersion, version.Micromamba); exe != "" {
			return exe, nil
		}
		if !opts.NoInstall {
			exe, err := r.installer.Micromamba(ctx)
			if err != nil {
				return "", err
			}
			if r.installedSatisfies(ctx, tool.Micromamba, exe, opts.MinMambaVersion, version.Micromamba) {
				return exe, nil
			}
		}
	}

	if opts.Conda {
		if exe := r.firstSatisfying(ctx, tool.Conda, opts.MinCondaVersion, version.Conda); exe != "" {
			return exe, nil
		}
	}

	if opts.CondaStandalone {
		if exe := r.firstSatisfying(ctx, tool.CondaStandalone, opts.MinCondaVersion, version.Conda); exe != "" {
			return exe, nil
		}
		if !opts.NoInstall {
			exe, err := r.installer.CondaStandalone(ctx)
			if err != nil {
				return "", err
			}
			if r.installedSatisfies(ctx, tool.CondaStandalone, exe, opts.MinCondaVersion, version.Conda) {
				return exe, nil
			}
		}
	}

	return "", nil
}

// firstSatisfying walks the probe candidates for kind and returns the
// first path whose version gate is satisfied. A candidate whose version
// cannot be determined (broken or unrunnable binary) is disqualified and
// the walk continues; search-path entries are probabilistic.
func (r *Resolver) firstSatisfying(ctx context.Context, kind tool.Kind, min version.Constraint, fn version.Func) string {
	r.logger.Debug("checking for tool", "kind", kind)
	for cand := range r.probe.Candidates(kind) {
		ok, err := version.Satisfies(ctx, cand.Path, min, fn)
		if err != nil {
			r.logger.Debug("skipping unusable candidate",
				"kind", kind, "path", cand.Path, "source", cand.Source, "err", err)
			continue
		}
		if ok {
			r.logger.Debug("candidate satisfies version gate",
				"kind", kind, "path", cand.Path, "source", cand.Source)
			return cand.Path
		}
		r.logger.Debug("candidate below minimum version",
			"kind", kind, "path", cand.Path, "source", cand.Source)
	}
	return ""
}

// installedSatisfies re-gates a freshly installed binary. Gate failures
// are logged and treated as unsatisfied so resolution can continue.
func (r *Resolver) installedSatisfies(ctx context.Context, kind tool.Kind, exe string, min version.Constraint, fn version.Func) bool {
	ok, err := version.Satisfies(ctx, exe, min, fn)
	if err != nil {
		r.logger.Warn("could not verify freshly installed tool",
			"kind", kind, "path", exe, "err", err)
		return false
	}
	if !ok {
		r.logger.Warn("freshly installed tool is below the required minimum version",
			"kind", kind, "path", exe)
	}
	return ok
}
