/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package types

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose    bool             `mapstructure:"verbose"`
	Config     string           `mapstructure:"config"`
	Project    ProjectConfig    `mapstructure:"project" validate:"required"`
	Log        LogConfig        `mapstructure:"log" validate:"required"`
	Policy     PolicyConfig     `mapstructure:"policy"`
	Server     ServerConfig     `mapstructure:"server"`
	Validation ValidationConfig `mapstructure:"validation"`
}

// ProjectConfig holds project-related settings
type ProjectConfig struct {
	RootDir     string `mapstructure:"rootDir" validate:"required"`
	PoliciesDir string `mapstructure:"policiesDir" validate:"required"`
}

// LogConfig controls the zap logger built by the CLI.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=console json"`
}

// PolicyConfig controls Rego policy evaluation on top of structural validation.
type PolicyConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Package string `mapstructure:"package" validate:"omitempty,min=1"`
}

// ServerConfig holds settings for `guestflow serve`.
type ServerConfig struct {
	Port           int      `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

// ValidationConfig tunes how CLI commands react to a ValidationResult.
type ValidationConfig struct {
	// FailOnWarnings makes `guestflow validate` exit non-zero on warnings too.
	FailOnWarnings bool `mapstructure:"failOnWarnings"`
}
