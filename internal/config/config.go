package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rebeliceyang/lazyfilter/internal/models"
	"github.com/spf13/viper"
)

// AppName names the config directory and the env prefix
const AppName = "lazyfilter"

// Config holds all application configuration
type Config struct {
	Filter   FilterConfig          `mapstructure:"filter"`
	Logging  LoggingConfig         `mapstructure:"logging"`
	Data     DataConfig            `mapstructure:"data"`
	History  HistoryConfig         `mapstructure:"history"`
	Presets  PresetsConfig         `mapstructure:"presets"`
	Postgres models.PostgresConfig `mapstructure:"postgres"`
}

type FilterConfig struct {
	DefaultMatchType  string `mapstructure:"default_match_type"`
	MultiValueDefault string `mapstructure:"multi_value_default"`
	Memoize           bool   `mapstructure:"memoize"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
	Dir   string `mapstructure:"dir"`
}

type DataConfig struct {
	ListDelimiter string   `mapstructure:"list_delimiter"`
	MaxRows       int      `mapstructure:"max_rows"`
	TextColumns   []string `mapstructure:"text_columns"`
}

type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type PresetsConfig struct {
	Dir string `mapstructure:"dir"`
}

// GetDefaults returns a Config with all default values
func GetDefaults() *Config {
	return &Config{
		Filter: FilterConfig{
			DefaultMatchType:  string(models.MatchAll),
			MultiValueDefault: "any_of",
			Memoize:           true,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
		Data: DataConfig{
			ListDelimiter: ";",
			MaxRows:       10000,
		},
		History: HistoryConfig{
			Enabled: true,
		},
	}
}

// setDefaults registers every key so env overrides and Unmarshal see them
func setDefaults(v *viper.Viper) {
	d := GetDefaults()
	v.SetDefault("filter.default_match_type", d.Filter.DefaultMatchType)
	v.SetDefault("filter.multi_value_default", d.Filter.MultiValueDefault)
	v.SetDefault("filter.memoize", d.Filter.Memoize)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.dir", d.Logging.Dir)
	v.SetDefault("data.list_delimiter", d.Data.ListDelimiter)
	v.SetDefault("data.max_rows", d.Data.MaxRows)
	v.SetDefault("data.text_columns", d.Data.TextColumns)
	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.path", d.History.Path)
	v.SetDefault("presets.dir", d.Presets.Dir)
	v.SetDefault("postgres.host", d.Postgres.Host)
	v.SetDefault("postgres.port", d.Postgres.Port)
	v.SetDefault("postgres.user", d.Postgres.User)
	v.SetDefault("postgres.database", d.Postgres.Database)
	v.SetDefault("postgres.ssl_mode", d.Postgres.SSLMode)
	v.SetDefault("postgres.use_keyring", d.Postgres.UseKeyring)
}

// Load loads configuration from the standard search paths
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile loads configuration from path, or from the standard search paths
// when path is empty. A missing file in the search paths is not an error.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Add config paths in priority order
		if configDir, err := GetConfigPath(); err == nil {
			v.AddConfigPath(configDir)
		}
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// GetConfigPath returns the user config directory path
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, AppName), nil
}

// PresetsDir returns the configured presets directory or the user config dir
func (c *Config) PresetsDir() (string, error) {
	if c.Presets.Dir != "" {
		return c.Presets.Dir, nil
	}
	return GetConfigPath()
}

// HistoryPath returns the configured history database path or its default
// location in the user config dir
func (c *Config) HistoryPath() (string, error) {
	if c.History.Path != "" {
		return c.History.Path, nil
	}
	dir, err := GetConfigPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}
