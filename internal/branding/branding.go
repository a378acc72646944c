// Package branding provides compile-time identity values for the CLI.
//
// Forkers edit branding.yaml in this package and rebuild; Go's //go:embed
// bakes it into the binary.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName             string `yaml:"cli_name"`
	DisplayName         string `yaml:"display_name"`
	Description         string `yaml:"description"`
	HomeDir             string `yaml:"home_dir"`
	EnvPrefix           string `yaml:"env_prefix"`
	GoModule            string `yaml:"go_module"`
	DefaultBundlePrefix string `yaml:"default_bundle_prefix"`
	DefaultTemplate     string `yaml:"default_template"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing or empty.
		defaults = brand{
			CLIName:             "projectkit",
			DisplayName:         "ProjectKit",
			Description:         "Scaffold new projects from placeholder templates",
			HomeDir:             ".projectkit",
			EnvPrefix:           "PROJECTKIT",
			GoModule:            "github.com/projectkit/projectkit",
			DefaultBundlePrefix: "com.example",
			DefaultTemplate:     "ios-app",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "projectkit").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".projectkit").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "PROJECTKIT").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GoModule returns the Go module path. Not consumed at runtime.
func GoModule() string { load(); return defaults.GoModule }

// DefaultBundlePrefix returns the reverse-DNS prefix used to derive bundle
// identifiers when neither the user nor the config supplies one.
func DefaultBundlePrefix() string { load(); return defaults.DefaultBundlePrefix }

// DefaultTemplate returns the name of the template used by "create" when no
// --template flag or config value is set.
func DefaultTemplate() string { load(); return defaults.DefaultTemplate }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("HOME") → "PROJECTKIT_HOME".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
