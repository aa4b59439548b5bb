package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and an optional config
// file. Environment variables take precedence over values from the config
// file, which takes precedence over defaults.
//
// Environment variables use the PAPERIQ_ prefix with underscores separating
// nested keys, e.g. PAPERIQ_SERVER_PORT or PAPERIQ_AUTH_JWT_SECRET. The config
// file, when present, is config.yaml in the working directory.
//
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults for everything that has a sensible one. Secrets deliberately
	// have no default so a missing value fails validation below.
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("storage.dir", "data")
	v.SetDefault("storage.lock_timeout_seconds", 5)
	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("auth.bcrypt_cost", 12)
	v.SetDefault("analyzer.url", "http://localhost:8000/analyze")
	v.SetDefault("analyzer.timeout_seconds", 30)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; everything can come from the
		// environment. Any other read error is a real failure.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("PAPERIQ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about, and the JWT
	// secret intentionally has no default, so it needs an explicit binding.
	if err := v.BindEnv("auth.jwt_secret"); err != nil {
		return nil, fmt.Errorf("failed to bind environment variable: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
