package search

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var ErrInvalidRegion = errors.New("invalid region; valid regions are: North, South, East, West")

// noiseRe matches the generic domain word users type without narrowing
// anything. Both singular and plural, any case, whole words only.
var noiseRe = regexp.MustCompile(`(?i)\btemples?\b`)

var spaceRe = regexp.MustCompile(`\s+`)

// StripNoise removes noise words and collapses the leftover whitespace.
// Stripping is idempotent, so callers may apply it again without harm.
func StripNoise(q string) string {
	q = noiseRe.ReplaceAllString(q, " ")
	q = spaceRe.ReplaceAllString(q, " ")
	return strings.TrimSpace(q)
}

// ParsePage reads a page number, silently falling back to 1 on anything
// that is not a positive integer.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// ParseLimit reads a page size with the given default. Non-positive or
// unparseable values fall back silently; maxLimit of 0 means uncapped.
func ParseLimit(raw string, def, maxLimit int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return def
	}
	if maxLimit > 0 && n > maxLimit {
		return maxLimit
	}
	return n
}
