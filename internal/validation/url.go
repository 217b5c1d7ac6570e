package validation

import (
	"regexp"
	"strings"

	errs "github.com/accio-dl/accio-downloader/internal/errors"
)

var urlPattern = regexp.MustCompile(`https?://[^\s]+`)

// ExtractFirstURL pulls the first http(s) URL out of raw input that may
// carry surrounding share-sheet text ("https://... shared via app").
// When no URL-looking substring is present the raw input is returned
// unchanged; the extraction engine gets to reject it later.
func ExtractFirstURL(raw string) string {
	if match := urlPattern.FindString(raw); match != "" {
		return match
	}
	return raw
}

// NormalizeSubmission trims and extracts the submitted URL and rejects
// empty input before any task record is created.
func NormalizeSubmission(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", &errs.ValidationError{Msg: "url is required"}
	}
	return ExtractFirstURL(trimmed), nil
}
