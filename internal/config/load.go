package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the working directory and in
// ConfigDir.
const FileName = "config.yaml"

// EnvPath names a config file when --config is not given.
const EnvPath = "WARP_HORIZON_CONFIG"

// Load builds the effective config: defaults, then the config file, then
// command-line flags. The result is validated.
func Load() (*Config, error) {
	cfg := Default()

	if path := resolvePath(); path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// resolvePath picks the config file: --config, then $WARP_HORIZON_CONFIG,
// then the first FileName found on the search path. An explicit path is
// returned even if it does not exist so that Load reports it.
func resolvePath() string {
	if path := ConfigPath(); path != "" {
		return path
	}
	if path := os.Getenv(EnvPath); path != "" {
		return path
	}
	return searchConfigFile()
}

func searchConfigFile() string {
	for _, dir := range []string{".", ConfigDir()} {
		path := filepath.Join(dir, FileName)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// ConfigDir returns the per-user config directory for the client. It falls
// back to the working directory when the OS reports none.
func ConfigDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base, _ = os.Getwd()
	}
	return filepath.Join(base, "warp-horizon")
}

// loadFromFile merges a YAML file into cfg. Unknown keys are rejected so
// that typos do not silently fall back to defaults. An empty file changes
// nothing.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
