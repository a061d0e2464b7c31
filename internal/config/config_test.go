// Package config provides configuration management for tally.
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// ConfigSuite is a test suite for config operations.
type ConfigSuite struct {
	suite.Suite
	tempDir string
}

func (s *ConfigSuite) SetupTest() {
	s.tempDir = s.T().TempDir()
	s.T().Setenv("TALLY_DATA_DIR", s.tempDir)
	for _, key := range []string{"TALLY_DB_PATH", "TALLY_DB_DRIVER", "TALLY_DB_DSN", "TALLY_DB_MAX_CONNS", "TALLY_TIMEZONE", "TALLY_LOG_LEVEL"} {
		s.T().Setenv(key, "")
	}
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}

// TestDefault tests default configuration values.
func (s *ConfigSuite) TestDefault() {
	cfg := Default()

	s.Equal(filepath.Join(s.tempDir, DBFileName), cfg.DBPath)
	s.Equal(DriverSQLite, cfg.Database.Driver)
	s.Equal(DefaultMaxConns, cfg.Database.MaxConns)
	s.Equal(DefaultTimezone, cfg.Timezone)
	s.Equal(DefaultCurrency, cfg.Currency)
	s.Equal(DefaultLocale, cfg.Locale)
	s.Equal(DefaultLogLevel, cfg.LogLevel)
	s.False(cfg.RearmOnIncrement)
	s.NoError(cfg.Validate())
}

// TestPaths tests data directory derived paths.
func (s *ConfigSuite) TestPaths() {
	s.Equal(s.tempDir, DataDir())
	s.Equal(filepath.Join(s.tempDir, "tally.db"), DBPath())
	s.Equal(filepath.Join(s.tempDir, "settings.yaml"), SettingsPath())
}

// TestEnsureAll tests data directory and settings creation.
func (s *ConfigSuite) TestEnsureAll() {
	nested := filepath.Join(s.tempDir, "nested")
	s.T().Setenv("TALLY_DATA_DIR", nested)

	s.Require().NoError(EnsureAll())

	info, err := os.Stat(nested)
	s.Require().NoError(err)
	s.True(info.IsDir())

	_, err = os.Stat(SettingsPath())
	s.NoError(err)

	// Second call must leave the existing file alone.
	s.Require().NoError(os.WriteFile(SettingsPath(), []byte("currency: $\n"), 0600))
	s.Require().NoError(EnsureAll())
	cfg, err := Load()
	s.Require().NoError(err)
	s.Equal("$", cfg.Currency)
}

// TestEnsureSettings_RoundTrip tests that the generated file loads back as defaults.
func (s *ConfigSuite) TestEnsureSettings_RoundTrip() {
	s.Require().NoError(EnsureAll())

	cfg, err := Load()
	s.Require().NoError(err)
	s.Equal(Default(), cfg)
}

// TestLoad_TableDriven tests configuration loading with various scenarios.
func (s *ConfigSuite) TestLoad_TableDriven() {
	tests := []struct {
		name         string
		settings     string
		wantCurrency string
		wantTZ       string
		wantRearm    bool
		wantDriver   string
	}{
		{
			name:         "no settings file",
			settings:     "",
			wantCurrency: DefaultCurrency,
			wantTZ:       DefaultTimezone,
			wantDriver:   DriverSQLite,
		},
		{
			name:         "custom currency and timezone",
			settings:     "currency: $\ntimezone: Europe/Paris\n",
			wantCurrency: "$",
			wantTZ:       "Europe/Paris",
			wantDriver:   DriverSQLite,
		},
		{
			name:         "rearm and postgres",
			settings:     "rearm_on_increment: true\ndatabase:\n  driver: postgres\n  dsn: postgres://localhost/tally\n",
			wantCurrency: DefaultCurrency,
			wantTZ:       DefaultTimezone,
			wantRearm:    true,
			wantDriver:   DriverPostgres,
		},
		{
			name:         "empty values fall back to defaults",
			settings:     "currency: \"\"\ntimezone: \"\"\n",
			wantCurrency: DefaultCurrency,
			wantTZ:       DefaultTimezone,
			wantDriver:   DriverSQLite,
		},
		{
			name:         "invalid YAML returns defaults",
			settings:     "currency: [unclosed\n",
			wantCurrency: DefaultCurrency,
			wantTZ:       DefaultTimezone,
			wantDriver:   DriverSQLite,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			dir := s.T().TempDir()
			s.T().Setenv("TALLY_DATA_DIR", dir)
			if tt.settings != "" {
				s.Require().NoError(os.WriteFile(filepath.Join(dir, SettingsFileName), []byte(tt.settings), 0600))
			}

			cfg, err := Load()
			s.NoError(err)
			s.Require().NotNil(cfg)
			s.Equal(tt.wantCurrency, cfg.Currency)
			s.Equal(tt.wantTZ, cfg.Timezone)
			s.Equal(tt.wantRearm, cfg.RearmOnIncrement)
			s.Equal(tt.wantDriver, cfg.Database.Driver)
		})
	}
}

// TestLoad_EnvOverrides tests TALLY_* environment overrides.
func (s *ConfigSuite) TestLoad_EnvOverrides() {
	s.T().Setenv("TALLY_DB_PATH", "/tmp/other.db")
	s.T().Setenv("TALLY_TIMEZONE", "UTC")
	s.T().Setenv("TALLY_LOG_LEVEL", "debug")
	s.T().Setenv("TALLY_DB_MAX_CONNS", "3")

	cfg, err := Load()
	s.Require().NoError(err)
	s.Equal("/tmp/other.db", cfg.DBPath)
	s.Equal("UTC", cfg.Timezone)
	s.Equal("debug", cfg.LogLevel)
	s.Equal(3, cfg.Database.MaxConns)
}

// TestLoadFile tests explicit YAML and TOML files.
func (s *ConfigSuite) TestLoadFile() {
	yamlPath := filepath.Join(s.tempDir, "custom.yml")
	s.Require().NoError(os.WriteFile(yamlPath, []byte("locale: de\ncurrency: EUR\n"), 0600))

	cfg, err := LoadFile(yamlPath)
	s.Require().NoError(err)
	s.Equal("de", cfg.Locale)
	s.Equal("EUR", cfg.Currency)

	tomlPath := filepath.Join(s.tempDir, "custom.toml")
	tomlData := "timezone = \"UTC\"\nrearm_on_increment = true\n\n[database]\ndriver = \"sqlite\"\nmax_conns = 2\n"
	s.Require().NoError(os.WriteFile(tomlPath, []byte(tomlData), 0600))

	cfg, err = LoadFile(tomlPath)
	s.Require().NoError(err)
	s.Equal("UTC", cfg.Timezone)
	s.True(cfg.RearmOnIncrement)
	s.Equal(2, cfg.Database.MaxConns)
	s.Equal(DefaultCurrency, cfg.Currency)

	_, err = LoadFile(filepath.Join(s.tempDir, "missing.yaml"))
	s.Error(err)

	badPath := filepath.Join(s.tempDir, "bad.toml")
	s.Require().NoError(os.WriteFile(badPath, []byte("timezone = \n"), 0600))
	_, err = LoadFile(badPath)
	s.Error(err)
}

func TestLocation(t *testing.T) {
	cfg := &Config{Timezone: "Local"}
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	cfg.Timezone = "UTC"
	loc, err = cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())

	cfg.Timezone = "Mars/Olympus_Mons"
	_, err = cfg.Location()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "postgres without dsn", mutate: func(c *Config) { c.Database.Driver = DriverPostgres }, wantErr: true},
		{name: "postgres with dsn", mutate: func(c *Config) {
			c.Database.Driver = DriverPostgres
			c.Database.DSN = "postgres://localhost/tally"
		}},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: true},
		{name: "sqlite without path", mutate: func(c *Config) { c.DBPath = "" }, wantErr: true},
		{name: "bad timezone", mutate: func(c *Config) { c.Timezone = "Nowhere/City" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				DBPath:   "/tmp/tally.db",
				Database: DatabaseConfig{Driver: DriverSQLite, MaxConns: 1},
				Timezone: "UTC",
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
