package utils

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"
)

var strictPolicy = bluemonday.StrictPolicy()

// SanitizeText strips all markup from free text (override reasons, escalation notes),
// normalizes it to NFC and trims surrounding whitespace.
func SanitizeText(s string) string {
	cleaned := html.UnescapeString(strictPolicy.Sanitize(s))
	return strings.TrimSpace(norm.NFC.String(cleaned))
}

// TextLength counts user-perceived characters of already sanitized text.
func TextLength(s string) int {
	return utf8.RuneCountInString(norm.NFC.String(s))
}
