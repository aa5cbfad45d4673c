// Package config provides configuration loading and structs for the Pergunta server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug   bool          `yaml:"debug"`
	Server  ServerConfig  `yaml:"server"`
	Dataset DatasetConfig `yaml:"dataset"`
	Storage StorageConfig `yaml:"storage"`
	AI      AIConfig      `yaml:"ai"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatasetConfig points at the classified spreadsheet and how to read it.
type DatasetConfig struct {
	Path  string `yaml:"path"`
	Sheet string `yaml:"sheet"`
	Watch *bool  `yaml:"watch"`
}

// WatchOrDefault returns whether the dataset file is watched for changes;
// defaults to true when unset.
func (d *DatasetConfig) WatchOrDefault() bool {
	if d.Watch != nil {
		return *d.Watch
	}
	return true
}

// StorageConfig holds the path for the session database.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// AIConfig holds settings for the external conversational AI service.
// The API key is never stored in the file; it is read from the environment
// variable named by APIKeyEnv.
type AIConfig struct {
	BaseURL   string `yaml:"base_url"`
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
}

// APIKey returns the API key from the configured environment variable.
func (a *AIConfig) APIKey() string {
	return os.Getenv(a.APIKeyEnv)
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Dataset.Path = expandPath(cfg.Dataset.Path, configDir)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
