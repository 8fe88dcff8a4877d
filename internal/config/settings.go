package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override (FINCALC_LOG_LEVEL, ...)
const EnvPrefix = "FINCALC"

// Settings holds application settings
type Settings struct {
	LogLevel     string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	OutputFormat string `mapstructure:"output_format" validate:"required"`
	UsageBackend string `mapstructure:"usage_backend" validate:"required,oneof=none memory redis"`
	RedisAddr    string `mapstructure:"redis_addr" validate:"required_if=UsageBackend redis"`
	ListenAddr   string `mapstructure:"listen_addr" validate:"required"`
}

// LoadSettings reads settings from defaults, an optional config file and
// FINCALC_* environment variables, in increasing precedence. An empty path
// looks for fincalc.yaml in the working directory and $HOME/.fincalc.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()

	v.SetDefault("log_level", "info")
	v.SetDefault("output_format", "console")
	v.SetDefault("usage_backend", "memory")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("listen_addr", ":8080")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("fincalc")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.fincalc")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read settings: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	s.LogLevel = strings.ToLower(s.LogLevel)
	if err := validator.New().Struct(s); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", describeValidation(err))
	}
	return &s, nil
}
