package glapi

import (
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"
)

var versionPrefix = regexp.MustCompile(`^\s*(\d+\.\d+(?:\.\d+)?)`)

// ParseVersion extracts the numeric version from a GL_VERSION string such as
// "4.1 Metal - 83.1" or "3.3.0 NVIDIA 535.54.03".
func ParseVersion(s string) (*semver.Version, error) {
	m := versionPrefix.FindStringSubmatch(s)
	if m == nil {
		return nil, fmt.Errorf("unrecognised GL version string %q", s)
	}
	v, err := semver.NewVersion(m[1])
	if err != nil {
		return nil, fmt.Errorf("parse GL version %q: %w", s, err)
	}
	return v, nil
}

// RequireVersion checks the version of the current context against a semver
// constraint (for example ">= 3.3") and returns the parsed version.
func RequireVersion(gl GL, constraint string) (*semver.Version, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return nil, fmt.Errorf("invalid version constraint %q: %w", constraint, err)
	}
	v, err := ParseVersion(gl.GetString(Version))
	if err != nil {
		return nil, err
	}
	if !c.Check(v) {
		return v, fmt.Errorf("OpenGL %s does not satisfy %s", v, constraint)
	}
	return v, nil
}
