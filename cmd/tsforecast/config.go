package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config drives one CLI run. Values come from defaults, an optional yaml
// config file, TSFORECAST_* environment variables, then command line flags,
// in increasing precedence.
type Config struct {
	LogLevel string `mapstructure:"log_level"`

	Input  string `mapstructure:"input"`
	Output string `mapstructure:"output"`
	Plot   string `mapstructure:"plot"`

	DateColumn  string `mapstructure:"date_column"`
	ValueColumn string `mapstructure:"value_column"`
	AggColumn   string `mapstructure:"agg_column"`
	Frequency   string `mapstructure:"frequency"`
	Horizon     int    `mapstructure:"horizon"`

	MinHistory   int           `mapstructure:"min_history"`
	Parallel     bool          `mapstructure:"parallel"`
	ModelTimeout time.Duration `mapstructure:"model_timeout"`
}

// LoadConfig reads the optional config file and environment overrides. An
// empty path looks for tsforecast.yaml in the working directory and treats
// absence as defaults only.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("log_level", "info")
	v.SetDefault("frequency", "daily")
	v.SetDefault("horizon", 7)
	v.SetDefault("min_history", 10)
	v.SetDefault("parallel", true)
	v.SetDefault("model_timeout", time.Duration(0))

	v.SetEnvPrefix("TSFORECAST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config file %s, %w", path, err)
		}
	} else {
		v.SetConfigName("tsforecast")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("unable to read config, %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config, %w", err)
	}
	return &cfg, nil
}
