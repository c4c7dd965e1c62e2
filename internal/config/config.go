// Package config loads ifacegen settings from file, environment and defaults.
package config

import (
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/toyz/ifacegen/internal/errors"
)

// EnvPrefix is prepended to every environment override, e.g. IFACEGEN_GENERATION_WORKERS
const EnvPrefix = "IFACEGEN"

// Config holds the entire application configuration
type Config struct {
	Logger     LoggerConfig     `mapstructure:"logger" yaml:"logger"`
	Generation GenerationConfig `mapstructure:"generation" yaml:"generation"`
	Server     ServerConfig     `mapstructure:"server" yaml:"server"`
}

// LoggerConfig configures structured logging
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color names used for each log level on the console
type ColorConfig struct {
	Debug string `mapstructure:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" yaml:"warn"`
	Error string `mapstructure:"error" yaml:"error"`
	Fatal string `mapstructure:"fatal" yaml:"fatal"`
}

// GenerationConfig controls a generation pass
type GenerationConfig struct {
	OutputDir                string   `mapstructure:"output_dir" yaml:"output_dir"`
	Extension                string   `mapstructure:"extension" yaml:"extension"`
	Workers                  int      `mapstructure:"workers" yaml:"workers"`
	Partial                  bool     `mapstructure:"partial" yaml:"partial"`
	Accessibility            string   `mapstructure:"accessibility" yaml:"accessibility"`
	NullableReferenceDefault string   `mapstructure:"nullable_reference_default" yaml:"nullable_reference_default"`
	EscapeKeywords           bool     `mapstructure:"escape_keywords" yaml:"escape_keywords"`
	ValueTypes               []string `mapstructure:"value_types" yaml:"value_types"`
}

// ServerConfig configures the HTTP endpoint
type ServerConfig struct {
	Address         string        `mapstructure:"address" yaml:"address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	BodyLimit       string        `mapstructure:"body_limit" yaml:"body_limit"`
}

// NewDefaultConfig creates a configuration populated with default values
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic("failed to unmarshal default config: " + err.Error())
	}
	return &cfg
}

// SetDefaults initializes default values for every configuration key
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "ifacegen")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)
	v.SetDefault("logger.compress", false)
	v.SetDefault("logger.colors.debug", "magenta")
	v.SetDefault("logger.colors.info", "cyan")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.fatal", "red")

	// -- Generation --
	v.SetDefault("generation.output_dir", "Generated")
	v.SetDefault("generation.extension", "cs")
	v.SetDefault("generation.workers", runtime.NumCPU())
	v.SetDefault("generation.partial", false)
	v.SetDefault("generation.accessibility", "public")
	v.SetDefault("generation.nullable_reference_default", "default")
	v.SetDefault("generation.escape_keywords", false)
	v.SetDefault("generation.value_types", []string{})

	// -- Server --
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "5s")
	v.SetDefault("server.body_limit", "4M")
}

// Load reads the configuration into v. An explicit file must exist; otherwise
// ifacegen.yaml in the working directory is used when present.
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("ifacegen")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || file != "" {
			return nil, errors.WrapConfigurationError(configName(file), "read", err)
		}
	}

	return NewConfigFromViper(v)
}

// NewConfigFromViper creates a validated configuration from a viper instance
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.WrapConfigurationError(configName(v.ConfigFileUsed()), "unmarshal", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for sane values
func (c *Config) Validate() error {
	var errs *errors.MultipleErrors

	if c.Generation.Workers <= 0 {
		errors.AddToMultiple(&errs, errors.ConfigurationError("generation.workers", "must be a positive integer"))
	}
	switch c.Generation.Accessibility {
	case "public", "internal":
	default:
		errors.AddToMultiple(&errs, errors.ConfigurationError("generation.accessibility", "must be 'public' or 'internal'"))
	}
	switch c.Generation.NullableReferenceDefault {
	case "default", "null":
	default:
		errors.AddToMultiple(&errs, errors.ConfigurationError("generation.nullable_reference_default", "must be 'default' or 'null'"))
	}
	if strings.Trim(c.Generation.Extension, ".") == "" {
		errors.AddToMultiple(&errs, errors.ConfigurationError("generation.extension", "must not be empty"))
	}
	switch c.Logger.Format {
	case "console", "json":
	default:
		errors.AddToMultiple(&errs, errors.ConfigurationError("logger.format", "must be 'console' or 'json'"))
	}

	if errs == nil {
		return nil
	}
	return errs.ErrOrNil()
}

func configName(file string) string {
	if file == "" {
		return "ifacegen.yaml"
	}
	return file
}
