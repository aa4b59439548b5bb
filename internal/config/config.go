// Package config defines the application configuration and how it is loaded.
package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Storage  StorageConfig  `mapstructure:"storage"  validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Analyzer AnalyzerConfig `mapstructure:"analyzer" validate:"required"`
}

// ServerConfig contains all HTTP server related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// StorageConfig contains the settings for the on-disk document store.
type StorageConfig struct {
	// Dir is the directory holding the JSON documents (users, history)
	// and their lock files. Created on startup if it does not exist.
	Dir string `mapstructure:"dir" validate:"required"`

	// LockTimeoutSeconds bounds how long an operation waits for a
	// document lock before failing with a busy error.
	LockTimeoutSeconds int `mapstructure:"lock_timeout_seconds" validate:"required,gt=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`

	// BcryptCost is the bcrypt work factor used when hashing passwords.
	BcryptCost int `mapstructure:"bcrypt_cost" validate:"required,gte=4,lte=31"`
}

// AnalyzerConfig contains the settings for the external analysis engine.
type AnalyzerConfig struct {
	URL            string `mapstructure:"url"             validate:"required,url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"required,gt=0"`
}
