package updater

import (
	"fmt"

	"github.com/pyproj-tools/pyproj/internal/constraint"
)

// CompareVersions compares two version strings. It returns -1 if current
// is older than latest, 0 if equal, and 1 if current is newer. A leading
// "v" on either side is tolerated.
func CompareVersions(current, latest string) (int, error) {
	cv, err := constraint.ParseVersion(current)
	if err != nil {
		return 0, fmt.Errorf("parsing current version: %w", err)
	}
	lv, err := constraint.ParseVersion(latest)
	if err != nil {
		return 0, fmt.Errorf("parsing latest version: %w", err)
	}
	return cv.Compare(lv), nil
}

// IsUpdateAvailable reports whether latest is newer than current.
func IsUpdateAvailable(current, latest string) (bool, error) {
	cmp, err := CompareVersions(current, latest)
	if err != nil {
		return false, err
	}
	return cmp == -1, nil
}
