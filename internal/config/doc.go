// SPDX-License-Identifier: MPL-2.0

// Package config resolves runtime settings from the environment.
//
// Installed executables live in a per-user data directory following
// platform conventions: %LOCALAPPDATA%\ensure-conda on Windows,
// ~/Library/Application Support/ensure-conda on macOS, and
// $XDG_DATA_HOME/ensure-conda (defaulting to ~/.local/share) elsewhere.
// The directory and the Anaconda channel used for conda-standalone can
// be overridden through ENSURECONDA_-prefixed environment variables.
package config
