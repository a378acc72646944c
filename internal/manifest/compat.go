package manifest

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CheckCompatibility reports an error when the manifest declares a
// min_cli_version newer than cliVersion, or when its own version is not
// valid semver. Development builds ("dev" or any unparseable version) skip
// the minimum check.
func CheckCompatibility(m *TemplateManifest, cliVersion string) error {
	if _, err := parseSemver(m.Version); err != nil {
		return fmt.Errorf("template %s: invalid version %q: %w", m.Name, m.Version, err)
	}
	if m.MinCLIVersion == "" {
		return nil
	}
	minVersion, err := parseSemver(m.MinCLIVersion)
	if err != nil {
		return fmt.Errorf("template %s: invalid min_cli_version %q: %w", m.Name, m.MinCLIVersion, err)
	}

	current, err := parseSemver(cliVersion)
	if err != nil {
		return nil
	}
	if current.LessThan(minVersion) {
		return fmt.Errorf("template %s requires CLI version %s or newer (running %s)",
			m.Name, minVersion, current)
	}
	return nil
}

// parseSemver strips a leading "v" and parses the version string.
func parseSemver(version string) (*semver.Version, error) {
	version = strings.TrimPrefix(version, "v")
	return semver.NewVersion(version)
}
