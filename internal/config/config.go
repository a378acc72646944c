package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/projectkit/projectkit/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Recognized configuration keys.
const (
	KeyBundlePrefix    = "bundle_prefix"
	KeyTemplateDirs    = "template_dirs"
	KeyLogLevel        = "log_level"
	KeyDefaultTemplate = "default_template"
)

// Keys lists every key accepted by Set.
var Keys = []string{
	KeyBundlePrefix,
	KeyTemplateDirs,
	KeyLogLevel,
	KeyDefaultTemplate,
}

// Dir returns the path to the config directory. PROJECTKIT_HOME overrides
// the default of ~/.projectkit/.
func Dir() string {
	if v := os.Getenv(branding.EnvVar("HOME")); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.projectkit/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyBundlePrefix, branding.DefaultBundlePrefix())
	viper.SetDefault(KeyLogLevel, "warn")
	viper.SetDefault(KeyDefaultTemplate, branding.DefaultTemplate())

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// IsKnownKey reports whether key is one of Keys.
func IsKnownKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if !IsKnownKey(key) {
		return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(Keys, ", "))
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// BundlePrefix returns the reverse-DNS prefix used to derive default bundle
// identifiers.
func BundlePrefix() string {
	if v := strings.TrimSpace(viper.GetString(KeyBundlePrefix)); v != "" {
		return v
	}
	return branding.DefaultBundlePrefix()
}

// DefaultTemplate returns the template used when "create" gets no --template.
func DefaultTemplate() string {
	if v := strings.TrimSpace(viper.GetString(KeyDefaultTemplate)); v != "" {
		return v
	}
	return branding.DefaultTemplate()
}

// LogLevel returns the configured log level name.
func LogLevel() string {
	return viper.GetString(KeyLogLevel)
}

// TemplateDirs returns the extra directories searched for user templates.
// The value may be a YAML list or a single string separated by the OS path
// list separator (the form environment variables use).
func TemplateDirs() []string {
	var dirs []string
	switch v := viper.Get(KeyTemplateDirs).(type) {
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok {
				dirs = append(dirs, s)
			}
		}
	case []string:
		dirs = append(dirs, v...)
	case string:
		dirs = filepath.SplitList(v)
	}

	var result []string
	for _, d := range dirs {
		if d = strings.TrimSpace(d); d != "" {
			result = append(result, d)
		}
	}
	result = append(result, filepath.Join(Dir(), "templates"))
	return result
}
