// Package version exposes the build version of the countries binary.
package version

import (
	"github.com/Masterminds/semver/v3"
)

// fallbackVersion is used when the injected version is not valid semver.
const fallbackVersion = "0.0.0-dev"

// version is injected at build time via:
//
//	-ldflags "-X github.com/rshade/countries/pkg/version.version=v1.2.3"
//
//nolint:gochecknoglobals // Set by the linker.
var version = fallbackVersion

// GetVersion returns the raw build version string.
func GetVersion() string {
	if version == "" {
		return fallbackVersion
	}
	return version
}

// Semver parses the build version. Unparseable versions (e.g. a bare commit
// hash) fall back to 0.0.0-dev so callers always get a usable value.
func Semver() *semver.Version {
	v, err := semver.NewVersion(GetVersion())
	if err != nil {
		return semver.MustParse(fallbackVersion)
	}
	return v
}

// UserAgent returns the User-Agent sent with outbound HTTP requests.
func UserAgent() string {
	return "countries/" + Semver().String()
}
