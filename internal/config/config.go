// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"

	"github.com/conda-incubator/ensureconda/pkg/platform"
)

const (
	// AppName is the name of the per-user data directory.
	AppName = "ensure-conda"

	// envPrefix namespaces all environment overrides.
	envPrefix = "ENSURECONDA"
)

// Settings holds the environment-resolved runtime configuration.
type Settings struct {
	// DataDir is the managed cache directory installed executables are
	// written to and probed from.
	DataDir string
	// Channel is the Anaconda channel conda-standalone is fetched
	// from; empty means the installer default.
	Channel string
}

// Load resolves settings from the environment. ENSURECONDA_DATA_DIR
// replaces the platform-conventional data directory and
// ENSURECONDA_CONDA_STANDALONE_CHANNEL replaces the default channel.
func Load() (Settings, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	if err := v.BindEnv("data_dir"); err != nil {
		return Settings{}, fmt.Errorf("binding data_dir: %w", err)
	}
	if err := v.BindEnv("conda_standalone_channel"); err != nil {
		return Settings{}, fmt.Errorf("binding conda_standalone_channel: %w", err)
	}

	settings := Settings{
		DataDir: v.GetString("data_dir"),
		Channel: v.GetString("conda_standalone_channel"),
	}
	if settings.DataDir == "" {
		dir, err := DataDir()
		if err != nil {
			return Settings{}, err
		}
		settings.DataDir = dir
	}
	return settings, nil
}

// DataDir returns the platform-conventional data directory: Windows uses
// %LOCALAPPDATA%, macOS uses ~/Library/Application Support, and
// Linux/others use $XDG_DATA_HOME (defaulting to ~/.local/share).
func DataDir() (string, error) {
	var dataDir string

	switch runtime.GOOS {
	case platform.Windows:
		dataDir = os.Getenv("LOCALAPPDATA")
		if dataDir == "" {
			dataDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Local")
		}
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dataDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		dataDir = os.Getenv("XDG_DATA_HOME")
		if dataDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			dataDir = filepath.Join(home, ".local", "share")
		}
	}

	return filepath.Join(dataDir, AppName), nil
}
