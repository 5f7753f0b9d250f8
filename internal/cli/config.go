package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the client settings loaded from the YAML config file.
// Flags override file values; file values override defaults.
type Config struct {
	APIURL    string `yaml:"api_url"`
	CachePath string `yaml:"cache_path"`
}

const defaultAPIURL = "http://localhost:8080/api"

// defaultConfigDir returns ~/.config/tasktreectl.
func defaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "tasktreectl"), nil
}

// loadConfig reads the config file at path, or the default location when
// path is empty. A missing file yields the defaults.
func loadConfig(path string) (Config, error) {
	dir, err := defaultConfigDir()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		APIURL:    defaultAPIURL,
		CachePath: filepath.Join(dir, "tasks.json"),
	}

	explicit := path != ""
	if path == "" {
		path = filepath.Join(dir, "config.yaml")
	}

	payload, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(payload, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.APIURL == "" {
		cfg.APIURL = defaultAPIURL
	}
	if cfg.CachePath == "" {
		cfg.CachePath = filepath.Join(dir, "tasks.json")
	}
	return cfg, nil
}
