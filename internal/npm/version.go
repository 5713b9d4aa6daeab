package npm

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// MinMajorVersion is the oldest npm major release that understands the
// flags passed by Runner.
const MinMajorVersion = 6

// parseVersion parses the output of `npm --version`.
func parseVersion(out string) (*semver.Version, error) {
	v := strings.TrimPrefix(strings.TrimSpace(out), "v")
	parsed, err := semver.NewVersion(v)
	if err != nil {
		return nil, fmt.Errorf("parsing npm version %q: %w", v, err)
	}
	return parsed, nil
}

// IsSupported reports whether an npm version string is recent enough.
func IsSupported(version string) bool {
	v, err := parseVersion(version)
	if err != nil {
		return false
	}
	return v.Major() >= MinMajorVersion
}
