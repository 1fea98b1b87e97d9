package constraint

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Constraint is a parsed version range. It wraps a semver constraint set
// and remembers the original source text for error messages and
// serialization round-trips.
type Constraint struct {
	raw string
	set *semver.Constraints
}

// Parse parses a range expression into a Constraint.
// Supported syntax: caret ("^3.11"), tilde ("~1.2"), wildcard ("2.*"),
// comparisons (">=1.0", "<2", "==1.4.2", "!=1.5"), comma for AND, and
// "||" for OR. The empty string is rejected.
func Parse(raw string) (*Constraint, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("empty version constraint")
	}

	set, err := semver.NewConstraint(normalize(trimmed))
	if err != nil {
		return nil, fmt.Errorf("invalid version constraint %q: %w", raw, err)
	}

	return &Constraint{raw: trimmed, set: set}, nil
}

// MustParse is Parse for constraints known to be valid at compile time.
// It panics on error.
func MustParse(raw string) *Constraint {
	c, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return c
}

// Check reports whether the version satisfies the constraint.
func (c *Constraint) Check(v *semver.Version) bool {
	return c.set.Check(v)
}

// CheckString parses the version string and reports whether it satisfies
// the constraint. Versions with a leading "v" are tolerated.
func (c *Constraint) CheckString(version string) (bool, error) {
	v, err := ParseVersion(version)
	if err != nil {
		return false, err
	}
	return c.Check(v), nil
}

// String returns the original source text of the constraint.
func (c *Constraint) String() string {
	return c.raw
}

// ParseVersion parses a version string, tolerating a leading "v" and
// missing minor/patch components ("3.11" parses as 3.11.0).
func ParseVersion(version string) (*semver.Version, error) {
	v, err := semver.NewVersion(strings.TrimPrefix(strings.TrimSpace(version), "v"))
	if err != nil {
		return nil, fmt.Errorf("invalid version %q: %w", version, err)
	}
	return v, nil
}

// Latest returns the highest version from candidates that satisfies the
// constraint, or nil if none does. Candidates need not be sorted.
func (c *Constraint) Latest(candidates []*semver.Version) *semver.Version {
	var best *semver.Version
	for _, v := range candidates {
		if !c.Check(v) {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best = v
		}
	}
	return best
}

// normalize rewrites range syntax the underlying semver library does not
// accept verbatim: "==" is spelled "=" and "===" is not supported at all,
// so both collapse to "=".
func normalize(raw string) string {
	s := strings.ReplaceAll(raw, "===", "=")
	s = strings.ReplaceAll(s, "==", "=")
	return s
}
