package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/josephgoksu/Guestflow/internal/policy"
)

// GetGlobalConfigDir returns the path to the global configuration directory (~/.guestflow).
// It's a variable to allow overriding in tests.
var GetGlobalConfigDir = func() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DirName), nil
}

// ProjectDir returns the .guestflow directory of a project root.
func ProjectDir(rootDir string) string {
	return filepath.Join(rootDir, DirName)
}

// PoliciesDir returns where .rego files live for a project root.
func PoliciesDir(rootDir string) string {
	return policy.GetPoliciesPath(rootDir)
}

// GetRootDir returns the project root.
// Resolution order (first match wins):
// 1. Explicit config via "project.rootDir" (Viper/env/flag)
// 2. The nearest ancestor of the working directory holding a .guestflow directory
// 3. The working directory
func GetRootDir() string {
	if dir := viper.GetString("project.rootDir"); dir != "" {
		return dir
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	if root, ok := FindProjectRoot(wd); ok {
		return root
	}
	return wd
}

// FindProjectRoot walks up from start looking for a .guestflow directory.
func FindProjectRoot(start string) (string, bool) {
	dir := filepath.Clean(start)
	for {
		if info, err := os.Stat(ProjectDir(dir)); err == nil && info.IsDir() {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// GetPoliciesDir returns the configured policies directory, falling back to
// the project default.
func GetPoliciesDir() string {
	if dir := viper.GetString("project.policiesDir"); dir != "" {
		return dir
	}
	return PoliciesDir(GetRootDir())
}
