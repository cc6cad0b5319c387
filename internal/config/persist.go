package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFilePath returns the path of the config file that would be written
// by SaveToFile. It prefers an existing file from the standard search order
// and falls back to ~/.stockmood/config.yaml.
func ConfigFilePath() string {
	candidates := []string{
		"./config/config.yaml",
		filepath.Join(homeDir(), ".stockmood", "config.yaml"),
		"/etc/stockmood/config.yaml",
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return filepath.Join(homeDir(), ".stockmood", "config.yaml")
}

// SaveToFile writes the configuration as YAML to the given path,
// creating parent directories as needed.
func SaveToFile(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("error creating config dir %s: %w", dir, err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("error writing config file %s: %w", path, err)
	}
	return nil
}
