// Package config provides YAML-based configuration loading for Launchpad.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/zulandar/launchpad/internal/schedule"
	"gopkg.in/yaml.v3"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Config is the top-level Launchpad configuration, loaded from launchpad.yaml.
type Config struct {
	User     string         `yaml:"user"`
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Sync     SyncConfig     `yaml:"sync"`
	Loader   LoaderConfig   `yaml:"loader"`
	Notify   NotifyConfig   `yaml:"notify"`
}

// DatabaseConfig selects and addresses the backing store.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Path     string `yaml:"path"` // sqlite only
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"` // postgres only
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// SyncConfig controls the pending-sync flush.
type SyncConfig struct {
	Schedule string `yaml:"schedule"`
}

// LoaderConfig tunes load-time reconciliation.
type LoaderConfig struct {
	DedupeRegularTasks bool `yaml:"dedupe_regular_tasks"`
}

// NotifyConfig configures chat notifications. Both platforms are optional.
type NotifyConfig struct {
	DigestSchedule string         `yaml:"digest_schedule"`
	Slack          PlatformConfig `yaml:"slack"`
	Discord        PlatformConfig `yaml:"discord"`
}

// PlatformConfig holds credentials for one chat platform.
type PlatformConfig struct {
	Token   string `yaml:"token"`
	Channel string `yaml:"channel"`
}

// Enabled reports whether the platform has a token configured.
func (p PlatformConfig) Enabled() bool {
	return p.Token != ""
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
	d := &c.Database
	if d.Driver == "" {
		d.Driver = DriverSQLite
	}
	switch d.Driver {
	case DriverSQLite:
		if d.Path == "" {
			d.Path = "launchpad.db"
		}
	case DriverMySQL, DriverPostgres:
		if d.Host == "" {
			d.Host = "127.0.0.1"
		}
		if d.Port == 0 {
			if d.Driver == DriverMySQL {
				d.Port = 3306
			} else {
				d.Port = 5432
			}
		}
		if d.Name == "" {
			d.Name = "launchpad"
		}
		if d.Driver == DriverPostgres && d.SSLMode == "" {
			d.SSLMode = "disable"
		}
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Sync.Schedule == "" {
		c.Sync.Schedule = "*/5 * * * *"
	}
	if c.Notify.DigestSchedule == "" {
		c.Notify.DigestSchedule = "0 8 * * *"
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	switch c.Database.Driver {
	case DriverSQLite, DriverMySQL, DriverPostgres:
	default:
		errs = append(errs, fmt.Sprintf("database.driver %q is not one of sqlite, mysql, postgres", c.Database.Driver))
	}
	if c.Database.Driver != DriverSQLite && c.Database.User == "" {
		errs = append(errs, "database.user is required for "+c.Database.Driver)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port %d is out of range", c.Server.Port))
	}
	if err := schedule.Validate(c.Sync.Schedule); err != nil {
		errs = append(errs, fmt.Sprintf("sync.schedule: %v", err))
	}
	if err := schedule.Validate(c.Notify.DigestSchedule); err != nil {
		errs = append(errs, fmt.Sprintf("notify.digest_schedule: %v", err))
	}
	if c.Notify.Slack.Enabled() && c.Notify.Slack.Channel == "" {
		errs = append(errs, "notify.slack.channel is required when a token is set")
	}
	if c.Notify.Discord.Enabled() && c.Notify.Discord.Channel == "" {
		errs = append(errs, "notify.discord.channel is required when a token is set")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
