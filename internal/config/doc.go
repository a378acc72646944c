// Package config manages user-level settings stored at ~/.projectkit/config.yaml.
// It provides functions to load, read, and write configuration keys such as
// the bundle identifier prefix and extra template directories used by
// "projectkit create".
package config
