package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "TOOL_RENTAL"

// Config represents application configuration
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Receipt ReceiptConfig `mapstructure:"receipt"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	File  string `mapstructure:"file"`  // Empty means console logging
	Level string `mapstructure:"level"` // debug, info, warn, error
}

// CatalogConfig points at an alternative tool catalog
type CatalogConfig struct {
	File string `mapstructure:"file"` // Empty means the built-in catalog
}

// ReceiptConfig represents receipt rendering options
type ReceiptConfig struct {
	Output string `mapstructure:"output"` // "text" or "json"
}

// Load loads configuration from file and environment.
// A missing config file is not an error: defaults apply.
func Load(configPath string) (*Config, error) {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.tool-rental")
		v.AddConfigPath("/etc/tool-rental")
	}

	// TOOL_RENTAL_LOG_LEVEL overrides log.level
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "warn")
	v.SetDefault("catalog.file", "")
	v.SetDefault("receipt.output", "text")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got '%s'", c.Log.Level)
	}

	switch c.Receipt.Output {
	case "text", "json":
	default:
		return fmt.Errorf("receipt.output must be 'text' or 'json', got '%s'", c.Receipt.Output)
	}

	return nil
}

// UseBuiltinCatalog reports whether no catalog file is configured
func (c *CatalogConfig) UseBuiltinCatalog() bool {
	return strings.TrimSpace(c.File) == ""
}
