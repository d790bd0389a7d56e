// Package versioning decides if a published release is newer than the version a client runs.
package versioning

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/roemer/gover"
	"github.com/roemer/releasegate/pkg/common"
)

var ErrMalformedVersion = errors.New("malformed version")

// Only the first three numeric parts are relevant, everything after is ignored.
var numericVersionRegex = regexp.MustCompile(`^v?(?P<d1>\d+)\.(?P<d2>\d+)\.(?P<d3>\d+)`)

type Comparator struct {
	mode common.CompareMode
}

// Creates a comparator for the given mode. An empty mode means lexicographic.
func NewComparator(mode common.CompareMode) (*Comparator, error) {
	switch mode {
	case "":
		mode = common.COMPARE_MODE_LEXICOGRAPHIC
	case common.COMPARE_MODE_LEXICOGRAPHIC, common.COMPARE_MODE_NUMERIC:
	default:
		return nil, fmt.Errorf("unknown version compare mode '%s'", mode)
	}
	return &Comparator{mode: mode}, nil
}

func (c *Comparator) Mode() common.CompareMode {
	return c.mode
}

// Checks if latest is an update for current. Malformed input never reports an update.
func (c *Comparator) HasUpdate(current, latest string) bool {
	if c.mode == common.COMPARE_MODE_NUMERIC {
		return hasUpdateNumeric(current, latest)
	}
	return HasUpdate(current, latest)
}

// Checks if latest is an update for current by comparing major, minor and patch as strings.
// There is no update as soon as every component of current is greater or equal to the one of latest.
// Note: as the comparison is per string, "9" >= "10" holds, so 9.0.0 -> 10.0.0 is not reported.
func HasUpdate(current, latest string) bool {
	currentParts, err := SplitVersion(current)
	if err != nil {
		return false
	}
	latestParts, err := SplitVersion(strings.TrimPrefix(latest, "v"))
	if err != nil {
		return false
	}
	for i := range currentParts {
		if currentParts[i] < latestParts[i] {
			return true
		}
	}
	return false
}

// Splits the version into major, minor and patch.
func SplitVersion(version string) ([]string, error) {
	parts := strings.Split(version, ".")
	if len(parts) < 3 {
		return nil, fmt.Errorf("%w: '%s' has less than three parts", ErrMalformedVersion, version)
	}
	return parts[:3], nil
}

// Checks if the version has the three required parts, with an optional leading "v".
func IsValid(version string) bool {
	_, err := SplitVersion(strings.TrimPrefix(version, "v"))
	return err == nil
}

func hasUpdateNumeric(current, latest string) bool {
	currentVersion, err := parseNumeric(current)
	if err != nil {
		return false
	}
	latestVersion, err := parseNumeric(latest)
	if err != nil {
		return false
	}
	return currentVersion.LessThan(latestVersion)
}

func parseNumeric(version string) (*gover.Version, error) {
	if !IsValid(version) {
		return nil, fmt.Errorf("%w: '%s'", ErrMalformedVersion, version)
	}
	parsed, err := gover.ParseVersionFromRegex(version, numericVersionRegex)
	if err != nil {
		return nil, fmt.Errorf("%w: '%s': %w", ErrMalformedVersion, version, err)
	}
	return parsed, nil
}
