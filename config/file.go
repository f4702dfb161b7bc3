// Package config loads newsharvest settings from ~/.newsharvest/config.yaml
// and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pevans/newsharvest/scraper"
	"gopkg.in/yaml.v3"
)

// DelayConfig bounds the pause between article fetches.
type DelayConfig struct {
	Min time.Duration `yaml:"min"`
	Max time.Duration `yaml:"max"`
}

// ArchiveConfig locates the run archive.
type ArchiveConfig struct {
	DSN string `yaml:"dsn"`
}

// APIConfig configures the archive API server.
type APIConfig struct {
	Addr string `yaml:"addr"`
}

// FileConfig represents the structure of ~/.newsharvest/config.yaml.
// Durations use Go syntax ("1s", "500ms").
type FileConfig struct {
	Limit         int           `yaml:"limit"`
	Output        string        `yaml:"output"`
	Timeout       time.Duration `yaml:"timeout"`
	UserAgent     string        `yaml:"user_agent"`
	Delay         DelayConfig   `yaml:"delay"`
	MinInterval   time.Duration `yaml:"min_interval"`
	RespectRobots bool          `yaml:"respect_robots"`
	Archive       ArchiveConfig `yaml:"archive"`
	API           APIConfig     `yaml:"api"`
	// Publications, when present, replace the built-in publications.
	Publications []scraper.Publication `yaml:"publications"`
	// Only restricts a run to these publication keys.
	Only []string `yaml:"only"`
}

// DefaultPath returns ~/.newsharvest/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".newsharvest", "config.yaml"), nil
}

// LoadConfigFile loads configuration from path, or from DefaultPath when
// path is empty. Returns nil if the file doesn't exist (not an error).
// Returns error if the file exists but cannot be parsed or names an
// invalid publication.
func LoadConfigFile(path string) (*FileConfig, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	for i := range cfg.Publications {
		if err := cfg.Publications[i].Validate(); err != nil {
			return nil, fmt.Errorf("invalid publication in config file: %w", err)
		}
	}

	return &cfg, nil
}
