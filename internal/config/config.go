package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/language"
)

// Config holds the full application configuration.
type Config struct {
	Input  InputConfig  `yaml:"input" mapstructure:"input"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
	Sort   SortConfig   `yaml:"sort" mapstructure:"sort"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// InputConfig locates the firm CSV export.
type InputConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// OutputConfig locates the generated lookup document.
type OutputConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// SortConfig controls how firm names are ordered within a city.
type SortConfig struct {
	Locale string `yaml:"locale" mapstructure:"locale"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("FIRMDIR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("input.path", "spotlight-firms-data.csv")
	v.SetDefault("output.path", "data.json")
	v.SetDefault("sort.locale", "en")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the loaded configuration can drive a conversion.
func (c *Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.Input.Path) == "" {
		errs = append(errs, "input.path is required")
	}
	if strings.TrimSpace(c.Output.Path) == "" {
		errs = append(errs, "output.path is required")
	}
	if c.Sort.Locale != "" {
		if _, err := language.Parse(c.Sort.Locale); err != nil {
			errs = append(errs, fmt.Sprintf("sort.locale %q is not a valid language tag", c.Sort.Locale))
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
