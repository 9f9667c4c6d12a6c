package loader

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CurrentAPIVersion is the manifest version written by this module.
const CurrentAPIVersion = "1.0.0"

// SupportedAPIVersions is the constraint manifest versions must satisfy.
const SupportedAPIVersions = "^1"

var supported = semver.MustParse(CurrentAPIVersion)

// checkVersion accepts an empty version as the current one.
func checkVersion(file, version string) error {
	version = strings.TrimSpace(version)
	if version == "" {
		return nil
	}

	v, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		return fmt.Errorf("loader: %s: parse apiVersion %q: %w", file, version, err)
	}
	constraint, err := semver.NewConstraint(SupportedAPIVersions)
	if err != nil {
		return fmt.Errorf("loader: parse supported versions: %w", err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("loader: %s: apiVersion %s is not supported (want %s, current %s)",
			file, v, SupportedAPIVersions, supported)
	}
	return nil
}
