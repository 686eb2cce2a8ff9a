package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// appName is the directory name used under the XDG base directories.
const appName = "bankstate"

// Paths contains the standard paths for bankstate files.
type Paths struct {
	Config string // ~/.config/bankstate
	State  string // ~/.local/state/bankstate
}

// GetPaths returns the standard paths, honoring XDG_CONFIG_HOME and XDG_STATE_HOME.
func GetPaths() *Paths {
	return &Paths{
		Config: filepath.Join(getEnvOrDefault("XDG_CONFIG_HOME", defaultConfigHome()), appName),
		State:  filepath.Join(getEnvOrDefault("XDG_STATE_HOME", defaultStateHome()), appName),
	}
}

// ConfigFile returns the default config file path.
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.Config, "config.json")
}

// WidgetFile returns the default widget state file path used by the file host.
func (p *Paths) WidgetFile() string {
	return filepath.Join(p.State, "widgets.json")
}

// DefaultConfigPath returns BANKSTATE_CONFIG if set, otherwise the XDG config file.
func DefaultConfigPath() string {
	if path := os.Getenv("BANKSTATE_CONFIG"); path != "" {
		return path
	}
	return GetPaths().ConfigFile()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func defaultConfigHome() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("APPDATA")
	}
	return filepath.Join(os.Getenv("HOME"), ".config")
}

func defaultStateHome() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("APPDATA")
	}
	return filepath.Join(os.Getenv("HOME"), ".local", "state")
}
