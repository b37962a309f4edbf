// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/conda-incubator/ensureconda/internal/issue"
	"github.com/conda-incubator/ensureconda/pkg/ensureconda"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// Verbose enables verbose output
	verbose bool

	// Tool selection flag pairs; each pair is mutually exclusive.
	flagMamba           bool
	flagNoMamba         bool
	flagMicromamba      bool
	flagNoMicromamba    bool
	flagConda           bool
	flagNoConda         bool
	flagCondaExe        bool
	flagNoCondaExe      bool
	flagNoInstall       bool
	flagMinCondaVersion string
	flagMinMambaVersion string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "ensureconda",
		Short: "Locate or install a conda-compatible executable",
		Long: TitleStyle.Render("ensureconda") + SubtitleStyle.Render(" - Locate or install a conda-compatible executable") + `

ensureconda searches for mamba, micromamba, conda, and conda-standalone
in that order of preference, checking an environment override, its own
managed cache directory, and PATH (excluding pyenv shim directories).
Every candidate must pass a minimum version gate.

When nothing suitable is found, micromamba or conda-standalone is
downloaded into the managed cache directory. The resolved path is
printed to stdout; all diagnostics go to stderr.

` + SubtitleStyle.Render("Examples:") + `
  ensureconda                          Resolve, installing if necessary
  ensureconda --no-install             Only report what is already present
  ensureconda --no-mamba --no-conda    Consider only installable tools
  ensureconda --min-conda-version 23.1 Require a recent conda`,
		Args: cobra.NoArgs,
		RunE: runResolve,
	}
)

func init() {
	flags := rootCmd.Flags()
	flags.BoolVar(&flagMamba, "mamba", false, "search for mamba (default)")
	flags.BoolVar(&flagNoMamba, "no-mamba", false, "do not search for mamba")
	flags.BoolVar(&flagMicromamba, "micromamba", false, "search for micromamba; install if not found (default)")
	flags.BoolVar(&flagNoMicromamba, "no-micromamba", false, "do not search for micromamba")
	flags.BoolVar(&flagConda, "conda", false, "search for conda (default)")
	flags.BoolVar(&flagNoConda, "no-conda", false, "do not search for conda")
	flags.BoolVar(&flagCondaExe, "conda-exe", false, "search for conda-standalone; install if not found (default)")
	flags.BoolVar(&flagNoCondaExe, "no-conda-exe", false, "do not search for conda-standalone")
	flags.BoolVar(&flagNoInstall, "no-install", false, "never install anything, only report what is already present")
	flags.StringVar(&flagMinCondaVersion, "min-conda-version", ensureconda.DefaultMinCondaVersion,
		"minimum version accepted for conda and conda-standalone")
	flags.StringVar(&flagMinMambaVersion, "min-mamba-version", ensureconda.DefaultMinMambaVersion,
		"minimum version accepted for mamba and micromamba")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// evaluateFlagPair folds an enable/disable flag pair into one value.
// Setting both is an error; setting neither keeps the default.
func evaluateFlagPair(enable, disable bool, name string, def bool) (bool, error) {
	if enable && disable {
		return false, fmt.Errorf("--%s and --no-%s are mutually exclusive", name, name)
	}
	if disable {
		return false, nil
	}
	if enable {
		return true, nil
	}
	return def, nil
}

// resolveOptions folds the flag set into resolution options.
func resolveOptions() (ensureconda.Options, error) {
	opts := ensureconda.DefaultOptions()
	var err error
	if opts.Mamba, err = evaluateFlagPair(flagMamba, flagNoMamba, "mamba", true); err != nil {
		return opts, err
	}
	if opts.Micromamba, err = evaluateFlagPair(flagMicromamba, flagNoMicromamba, "micromamba", true); err != nil {
		return opts, err
	}
	if opts.Conda, err = evaluateFlagPair(flagConda, flagNoConda, "conda", true); err != nil {
		return opts, err
	}
	if opts.CondaStandalone, err = evaluateFlagPair(flagCondaExe, flagNoCondaExe, "conda-exe", true); err != nil {
		return opts, err
	}
	opts.MinCondaVersion = flagMinCondaVersion
	opts.MinMambaVersion = flagMinMambaVersion
	return opts, nil
}

// runResolve resolves in two passes: a discovery-only pass over what is
// already installed, then a pass that may install. The resolved path is
// the sole stdout output.
func runResolve(cmd *cobra.Command, _ []string) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	opts, err := resolveOptions()
	if err != nil {
		return err
	}
	opts.Logger = logger

	ctx := cmd.Context()
	discoverOnly := opts
	discoverOnly.NoInstall = true
	path, err := ensureconda.EnsureConda(ctx, discoverOnly)
	if err == nil && path == "" && !flagNoInstall {
		path, err = ensureconda.EnsureConda(ctx, opts)
	}
	if err != nil {
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true
		fmt.Fprintf(os.Stderr, "\n%s %s\n", ErrorStyle.Render("Error:"),
			formatErrorForDisplay(issue.WrapWithOperation(err, "resolve a conda-compatible executable"), verbose))
		return &ExitError{Code: 1}
	}
	if path == "" {
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true
		diag := issue.NewActionableError("locate a conda-compatible executable").
			WithSuggestion("Check that your PATH includes the conda or mamba installation").
			WithSuggestion("Drop --no-install to let ensureconda download micromamba or conda-standalone").
			WithSuggestion("Lower --min-conda-version / --min-mamba-version if an older tool is acceptable")
		fmt.Fprintf(os.Stderr, "\n%s %s\n", ErrorStyle.Render("Error:"), diag.Format(verbose))
		return &ExitError{Code: 1}
	}

	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
