// Package config provides YAML-based configuration loading for Crewline.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level Crewline configuration, loaded from crewline.yaml.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Sweep    SweepConfig    `yaml:"sweep"`
	Notify   NotifyConfig   `yaml:"notify"`
}

// DatabaseConfig holds connection settings for the MySQL server.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// ServerConfig holds settings for the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// SweepConfig controls the scheduled timeline repair pass.
type SweepConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `yaml:"schedule"` // 5-field cron expression
}

// NotifyConfig controls best-effort repair notifications.
type NotifyConfig struct {
	Command string `yaml:"command"` // shell command template, e.g. "notify-send 'Crewline' '{{.Subject}}'"
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Database.Host == "" {
		c.Database.Host = "127.0.0.1"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 3306
	}
	if c.Database.User == "" {
		c.Database.User = "crewline"
	}
	if c.Database.Name == "" {
		c.Database.Name = "crewline"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Sweep.Schedule == "" {
		c.Sweep.Schedule = "0 3 * * *"
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		errs = append(errs, "database.port out of range")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, "server.port out of range")
	}
	if c.Sweep.Enabled && strings.TrimSpace(c.Sweep.Schedule) == "" {
		errs = append(errs, "sweep.schedule is required when sweep is enabled")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
