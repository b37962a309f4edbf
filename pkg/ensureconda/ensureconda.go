// SPDX-License-Identifier: MPL-2.0

package ensureconda

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/conda-incubator/ensureconda/internal/config"
	"github.com/conda-incubator/ensureconda/internal/installer"
	"github.com/conda-incubator/ensureconda/internal/resolve"
	"github.com/conda-incubator/ensureconda/internal/version"
)

const (
	// DefaultMinCondaVersion is the minimum conda release known to
	// support the invocation surface callers rely on.
	DefaultMinCondaVersion = "4.8.2"

	// DefaultMinMambaVersion is the minimum mamba release known to
	// support the invocation surface callers rely on.
	DefaultMinMambaVersion = "0.7.3"
)

// Options controls a resolution: which tools participate, whether
// installation is permitted, and the version gates. The zero value
// resolves nothing; start from DefaultOptions.
type Options struct {
	// Mamba, Micromamba, Conda, and CondaStandalone select the tool
	// kinds considered, in that fixed priority order.
	Mamba           bool
	Micromamba      bool
	Conda           bool
	CondaStandalone bool

	// NoInstall forbids downloading an absent tool; resolution then
	// only reports what is already present.
	NoInstall bool

	// MinMambaVersion gates mamba and micromamba candidates; empty
	// means no gate. MinCondaVersion does the same for conda and
	// conda-standalone.
	MinMambaVersion string
	MinCondaVersion string

	// DataDir overrides the managed cache directory. Empty uses the
	// environment-resolved default.
	DataDir string

	// Channel overrides the Anaconda channel conda-standalone is
	// fetched from. Empty uses the environment-resolved default.
	Channel string

	// Logger receives resolution and download traces. Nil uses the
	// process default logger.
	Logger *log.Logger
}

// DefaultOptions returns the standard resolution: every tool kind
// enabled, installation permitted, and the default version gates.
func DefaultOptions() Options {
	return Options{
		Mamba:           true,
		Micromamba:      true,
		Conda:           true,
		CondaStandalone: true,
		MinMambaVersion: DefaultMinMambaVersion,
		MinCondaVersion: DefaultMinCondaVersion,
	}
}

// EnsureConda resolves a conda-compatible executable per opts and
// returns its path. An empty path with a nil error means nothing
// suitable was found and installation was not permitted (or not
// applicable); callers decide whether that is fatal.
func EnsureConda(ctx context.Context, opts Options) (string, error) {
	minMamba, err := version.Parse(opts.MinMambaVersion)
	if err != nil {
		return "", fmt.Errorf("invalid minimum mamba version: %w", err)
	}
	minConda, err := version.Parse(opts.MinCondaVersion)
	if err != nil {
		return "", fmt.Errorf("invalid minimum conda version: %w", err)
	}

	settings, err := config.Load()
	if err != nil {
		return "", err
	}
	dataDir := opts.DataDir
	if dataDir == "" {
		dataDir = settings.DataDir
	}
	channel := opts.Channel
	if channel == "" {
		channel = settings.Channel
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	inst := installer.New(dataDir,
		installer.WithChannel(channel),
		installer.WithLogger(logger))
	resolver := resolve.New(resolve.NewProbe(dataDir), inst, resolve.WithLogger(logger))

	return resolver.Resolve(ctx, resolve.Options{
		Mamba:           opts.Mamba,
		Micromamba:      opts.Micromamba,
		Conda:           opts.Conda,
		CondaStandalone: opts.CondaStandalone,
		NoInstall:       opts.NoInstall,
		MinMambaVersion: minMamba,
		MinCondaVersion: minConda,
	})
}
