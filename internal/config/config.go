// Package config provides configuration management for tally.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const (
	// DataDirName is the directory under $HOME holding the database and settings.
	DataDirName = ".tally"
	// DBFileName is the SQLite database file name inside the data directory.
	DBFileName = "tally.db"
	// SettingsFileName is the settings file name inside the data directory.
	SettingsFileName = "settings.yaml"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	DefaultTimezone = "Local"
	DefaultCurrency = "€"
	DefaultLocale   = "en"
	DefaultLogLevel = "warn"
	DefaultMaxConns = 1
)

// DatabaseConfig selects and tunes the persistence backend.
type DatabaseConfig struct {
	Driver   string `yaml:"driver" toml:"driver"`
	DSN      string `yaml:"dsn,omitempty" toml:"dsn,omitempty"`
	MaxConns int    `yaml:"max_conns" toml:"max_conns"`
}

// Config holds tally settings.
type Config struct {
	DBPath           string         `yaml:"db_path" toml:"db_path"`
	Database         DatabaseConfig `yaml:"database" toml:"database"`
	Timezone         string         `yaml:"timezone" toml:"timezone"`
	Currency         string         `yaml:"currency" toml:"currency"`
	Locale           string         `yaml:"locale" toml:"locale"`
	LogLevel         string         `yaml:"log_level" toml:"log_level"`
	RearmOnIncrement bool           `yaml:"rearm_on_increment" toml:"rearm_on_increment"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DBPath: DBPath(),
		Database: DatabaseConfig{
			Driver:   DriverSQLite,
			MaxConns: DefaultMaxConns,
		},
		Timezone: DefaultTimezone,
		Currency: DefaultCurrency,
		Locale:   DefaultLocale,
		LogLevel: DefaultLogLevel,
	}
}

// DataDir returns the data directory, honouring TALLY_DATA_DIR.
func DataDir() string {
	if dir := os.Getenv("TALLY_DATA_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, DataDirName)
}

// DBPath returns the default SQLite database path.
func DBPath() string {
	return filepath.Join(DataDir(), DBFileName)
}

// SettingsPath returns the settings file path.
func SettingsPath() string {
	return filepath.Join(DataDir(), SettingsFileName)
}

// EnsureDataDir creates the data directory if needed.
func EnsureDataDir() error {
	return os.MkdirAll(DataDir(), 0750)
}

// EnsureSettings writes a default settings file if none exists.
func EnsureSettings() error {
	path := SettingsPath()
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	cfg := Default()
	// Leave db_path empty so the file keeps following the data directory.
	cfg.DBPath = ""
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode default settings: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// EnsureAll creates the data directory and default settings.
func EnsureAll() error {
	if err := EnsureDataDir(); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := EnsureSettings(); err != nil {
		return fmt.Errorf("create settings: %w", err)
	}
	return nil
}

// Load reads the settings file from the data directory.
// A missing or unreadable settings file yields the defaults.
func Load() (*Config, error) {
	path := SettingsPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("path", path).Msg("Failed to read settings, using defaults")
		}
		cfg := Default()
		cfg.applyEnv()
		return cfg, nil
	}

	cfg, err := decode(path, data)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Invalid settings, using defaults")
		cfg = Default()
	}
	cfg.applyEnv()
	return cfg, nil
}

// LoadFile reads an explicit settings file. YAML and TOML are accepted,
// selected by extension. Unlike Load, any error is returned.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := decode(path, data)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyEnv()
	return cfg, nil
}

func decode(path string, data []byte) (*Config, error) {
	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg); err != nil {
			return nil, err
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}
	cfg.fillDefaults()
	return cfg, nil
}

// fillDefaults restores defaults for keys explicitly set to empty values.
func (c *Config) fillDefaults() {
	if c.DBPath == "" {
		c.DBPath = DBPath()
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverSQLite
	}
	if c.Database.MaxConns <= 0 {
		c.Database.MaxConns = DefaultMaxConns
	}
	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}
	if c.Currency == "" {
		c.Currency = DefaultCurrency
	}
	if c.Locale == "" {
		c.Locale = DefaultLocale
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("TALLY_DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("TALLY_DB_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("TALLY_DB_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("TALLY_DB_MAX_CONNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Database.MaxConns = n
		}
	}
	if v := os.Getenv("TALLY_TIMEZONE"); v != "" {
		c.Timezone = v
	}
	if v := os.Getenv("TALLY_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// Location resolves the configured timezone used for day and month bucketing.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, DefaultTimezone) {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Validate checks settings that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
		if c.DBPath == "" {
			return errors.New("db_path is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.Database.DSN == "" {
			return errors.New("database.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}
