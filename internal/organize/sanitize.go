package organize

import (
	"regexp"
	"strings"
)

// DefaultMaxTitleLength is the hard cut applied to sanitized titles.
const DefaultMaxTitleLength = 80

// fallbackTitle is returned whenever sanitization yields nothing usable.
const fallbackTitle = "video"

var (
	illegalChars = regexp.MustCompile(`[\\/*?:"<>|]`)
	lineBreaks   = regexp.MustCompile(`[\n\r\t]+`)
	spaceRuns    = regexp.MustCompile(` {2,}`)
)

// SanitizeTitle turns an arbitrary media title into a string safe for
// use as a single filesystem path segment. It strips characters illegal
// on common filesystems, collapses line breaks and runs of spaces,
// trims, and hard-cuts at maxLength runes. Empty input or an empty
// result yields "video". Idempotent.
func SanitizeTitle(title string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultMaxTitleLength
	}
	if title == "" {
		return fallbackTitle
	}

	safe := illegalChars.ReplaceAllString(title, "")
	safe = lineBreaks.ReplaceAllString(safe, " ")
	safe = spaceRuns.ReplaceAllString(safe, " ")
	safe = strings.TrimSpace(safe)

	if runes := []rune(safe); len(runes) > maxLength {
		safe = strings.TrimRight(string(runes[:maxLength]), " ")
	}

	if safe == "" {
		return fallbackTitle
	}
	return safe
}
