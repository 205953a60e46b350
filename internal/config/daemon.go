package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/micro-nova/ethaudio-go/internal/models"
)

// Daemon holds the daemon's startup configuration, loaded from an optional
// YAML file and overridable by command-line flags.
type Daemon struct {
	Listen   string    `yaml:"listen"`
	Boards   int       `yaml:"boards"`
	Mock     bool      `yaml:"mock"`
	Hostname string    `yaml:"hostname"`
	Log      LogConfig `yaml:"log"`
}

// LogConfig holds logging settings. When File is empty, logs go to stderr.
type LogConfig struct {
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMb"`
	MaxBackups int    `yaml:"maxBackups"`
	Debug      bool   `yaml:"debug"`
}

// DefaultDaemon returns the default daemon configuration.
func DefaultDaemon() *Daemon {
	return &Daemon{
		Listen:   ":8080",
		Boards:   1,
		Hostname: "ethaudio",
		Log: LogConfig{
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// LoadDaemon reads a YAML configuration file over the defaults. An empty
// path returns the defaults unchanged.
func LoadDaemon(path string) (*Daemon, error) {
	cfg := DefaultDaemon()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the hardware cannot support.
func (c *Daemon) Validate() error {
	if c.Boards < 1 || c.Boards > models.MaxBoards {
		return fmt.Errorf("config: boards %d out of range [1, %d]", c.Boards, models.MaxBoards)
	}
	if c.Listen == "" {
		return fmt.Errorf("config: listen address is required")
	}
	return nil
}
