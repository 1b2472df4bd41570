// Package config provides centralized configuration constants for Guestflow.
// All default values should be defined here to ensure a single source of truth.
package config

import "github.com/josephgoksu/Guestflow/internal/policy"

// DirName is the per-project working directory.
const DirName = ".guestflow"

// Logging defaults
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"
)

// Server defaults
const (
	DefaultServerPort = 8787
)

// DefaultAllowedOrigins are the CORS origins accepted by `guestflow serve`
// when none are configured.
var DefaultAllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}

// DefaultPolicyPackage is the Rego package queried for deny and warn rules.
const DefaultPolicyPackage = policy.DefaultPolicyPackage

// Defaults returns every config key with its default value, in the form
// viper.SetDefault expects. rootDir is the resolved project root.
func Defaults(rootDir string) map[string]any {
	return map[string]any{
		"project.rootDir":           rootDir,
		"project.policiesDir":       PoliciesDir(rootDir),
		"log.level":                 DefaultLogLevel,
		"log.format":                DefaultLogFormat,
		"policy.enabled":            true,
		"policy.package":            DefaultPolicyPackage,
		"server.port":               DefaultServerPort,
		"server.allowedOrigins":     DefaultAllowedOrigins,
		"validation.failOnWarnings": false,
	}
}
