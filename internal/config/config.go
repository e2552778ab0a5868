package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	appDir     = ".hourtree"
	configFile = "config.yaml"
	dbFile     = "hourtree.db"
	envPrefix  = "HOURTREE"
)

// Config holds user settings for hourtree.
type Config struct {
	// Database is the path of the SQLite file. A leading ~ is expanded.
	Database string `yaml:"database" mapstructure:"database"`

	// LogLevel controls the storage logger: silent, error, warn or info.
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`

	// DateFormat is the Go layout used when printing timestamps.
	DateFormat string `yaml:"date_format" mapstructure:"date_format"`
}

// LogLevels lists the accepted values of LogLevel.
var LogLevels = []string{"silent", "error", "warn", "info"}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Database:   filepath.Join("~", appDir, dbFile),
		LogLevel:   "silent",
		DateFormat: "2006-01-02 15:04:05",
	}
}

// Dir returns the hourtree home directory (~/.hourtree).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, appDir), nil
}

// DefaultPath returns the location of the config file.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// Load reads the config file at path (DefaultPath when empty) on top of the
// defaults, then applies HOURTREE_* environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config path: %w", err)
		}
		path = p
	}

	defaults := DefaultConfig()

	v := viper.New()
	v.SetDefault("database", defaults.Database)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("date_format", defaults.DateFormat)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	expanded, err := ExpandHome(cfg.Database)
	if err != nil {
		return nil, err
	}
	cfg.Database = expanded

	return cfg, nil
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database) == "" {
		return fmt.Errorf("database path must not be empty")
	}
	level := strings.ToLower(c.LogLevel)
	for _, l := range LogLevels {
		if l == level {
			c.LogLevel = level
			return nil
		}
	}
	return fmt.Errorf("invalid log_level %q (want one of %s)", c.LogLevel, strings.Join(LogLevels, ", "))
}

// YAML renders the configuration as YAML.
func (c *Config) YAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}

// WriteDefault writes the default configuration to path, creating parent
// directories. An existing file is left untouched.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists at %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	body, err := DefaultConfig().YAML()
	if err != nil {
		return err
	}

	content := "# hourtree configuration\n" + body
	return os.WriteFile(path, []byte(content), 0644)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to expand %s: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
