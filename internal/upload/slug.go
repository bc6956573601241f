package upload

import (
	"regexp"
	"strings"
)

const maxSlugLength = 100

// slugPattern: groups of lowercase alphanumerics separated by single hyphens,
// no leading/trailing hyphen, no consecutive hyphens.
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// NormalizeSlug trims and lowercases a raw slug and validates its shape.
// Uniqueness against the store is checked separately.
func NormalizeSlug(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", ErrEmptySlug
	}
	if len(s) > maxSlugLength {
		return "", ErrSlugTooLong
	}
	if !slugPattern.MatchString(s) {
		return "", ErrInvalidSlugFormat
	}
	return s, nil
}
