package validator

import (
	"regexp"
	"strings"
)

var (
	multiSpaceRegex = regexp.MustCompile(`\s+`)
	htmlTagRegex    = regexp.MustCompile(`<[^>]*>`)
	nullByteRegex   = regexp.MustCompile(`\x00`)
)

// Sanitize removes null bytes, trims and collapses whitespace.
func Sanitize(input string) string {
	input = nullByteRegex.ReplaceAllString(input, "")
	input = strings.TrimSpace(input)
	return multiSpaceRegex.ReplaceAllString(input, " ")
}

// StripHTML removes all HTML tags
func StripHTML(input string) string {
	return htmlTagRegex.ReplaceAllString(input, "")
}

// SanitizeText is used for free-text fields such as descriptions.
func SanitizeText(input string) string {
	return Sanitize(StripHTML(input))
}

// SanitizeOptional applies SanitizeText to an optional field. Blank values
// become nil.
func SanitizeOptional(input *string) *string {
	if input == nil {
		return nil
	}
	s := SanitizeText(*input)
	if s == "" {
		return nil
	}
	return &s
}
