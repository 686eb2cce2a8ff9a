package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Group is the configuration group owned by the plugin. Change notifications
// for any other group are ignored.
const Group = "exposebankstate"

// Configuration keys within Group.
const (
	KeyEnableHTTP = "enableHttp"
	KeyPort       = "port"
)

// DefaultPort is the port used when none is configured.
const DefaultPort = 8337

// Config is a snapshot of the plugin configuration.
type Config struct {
	EnableHTTP bool `json:"enableHttp" yaml:"enableHttp"`
	Port       int  `json:"port" yaml:"port"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		EnableHTTP: true,
		Port:       DefaultPort,
	}
}

// fileConfig distinguishes keys absent from a file from zero values.
type fileConfig struct {
	EnableHTTP *bool `json:"enableHttp" yaml:"enableHttp"`
	Port       *int  `json:"port" yaml:"port"`
}

// Load builds the configuration from (priority order):
// 1. Defaults
// 2. The config file at path (.json, .jsonc, .yaml or .yml), if it exists
// 3. Environment variables BANKSTATE_ENABLE_HTTP and BANKSTATE_PORT
//
// A missing file is not an error. Load does not validate; see Validate.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadConfigFile(path, &cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)

	return cfg, nil
}

// ErrEmptyConfig is returned by Reload for a file that sets no keys.
var ErrEmptyConfig = errors.New("config file sets no keys")

// Reload reads path for a live update. Unlike Load the file must exist and
// set at least one key; otherwise an error is returned and the caller keeps
// the configuration it already has. Environment overrides still apply.
func Reload(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Config{}, ErrEmptyConfig
	}

	fc, err := parse(path, data)
	if err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if fc.EnableHTTP == nil && fc.Port == nil {
		return Config{}, ErrEmptyConfig
	}

	cfg := Default()
	mergeConfig(&cfg, fc)
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// loadConfigFile merges a single config file into cfg.
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	fc, err := parse(path, data)
	if err != nil {
		return err
	}

	mergeConfig(cfg, fc)
	return nil
}

func parse(path string, data []byte) (fileConfig, error) {
	var fc fileConfig

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return fc, err
		}
	default:
		// Strip JSONC comments and trailing commas using tidwall/jsonc
		if err := json.Unmarshal(jsonc.ToJSON(data), &fc); err != nil {
			return fc, err
		}
	}

	return fc, nil
}

// mergeConfig copies the keys present in source into target.
func mergeConfig(target *Config, source fileConfig) {
	if source.EnableHTTP != nil {
		target.EnableHTTP = *source.EnableHTTP
	}
	if source.Port != nil {
		target.Port = *source.Port
	}
}

// applyEnvOverrides applies environment variable overrides.
// Unparseable values are ignored.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("BANKSTATE_ENABLE_HTTP"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.EnableHTTP = b
		}
	}

	if v := os.Getenv("BANKSTATE_PORT"); v != "" {
		if p, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			cfg.Port = p
		}
	}
}

// Save writes the configuration as indented JSON, creating parent directories.
func Save(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
