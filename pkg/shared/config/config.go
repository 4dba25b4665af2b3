// Package config loads, validates, and defaults the application configuration.
package config

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v2"
)

// DefaultConfigFile is probed when no --config flag is given.
const DefaultConfigFile = "config.yml"

// ValidateConfigPath checks that the given path points at a regular file.
func ValidateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a file", path)
	}
	return nil
}

// LoadYAML decodes the YAML file at configPath into data.
func LoadYAML(configPath string, data interface{}) error {
	if err := ValidateConfigPath(configPath); err != nil {
		return err
	}

	file, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	if err := d.Decode(data); err != nil {
		return err
	}

	return nil
}

// LoadConfig reads the application configuration from configPath. When no
// path is given the default config file is probed and its absence is fine —
// CI runs are expected to work from flags, environment, and defaults alone.
// An explicitly requested file must exist.
func LoadConfig(configPath string) (*Config, error) {
	cfg := &Config{}

	optional := configPath == ""
	if optional {
		configPath = DefaultConfigFile
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if optional {
			return cfg, nil
		}
		return nil, fmt.Errorf("config file %q does not exist", configPath)
	}

	if err := LoadYAML(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config file %q: %w", configPath, err)
	}

	return cfg, nil
}
