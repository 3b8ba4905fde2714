// Package sanitize normalizes untrusted text into safe, length-bounded strings.
package sanitize

import (
	"html"
	"regexp"
	"strings"
)

var (
	tagPattern  = regexp.MustCompile(`<[^>]*>`)
	metaPattern = regexp.MustCompile("[<>\"'`]")

	// A trailing ampersand run with no terminating semicolon, as left
	// behind when truncation cuts an escape entity mid-sequence.
	partialEntityPattern = regexp.MustCompile(`&[#0-9a-zA-Z]*$`)
)

// Clean escapes HTML entities, strips tag-shaped substrings and residual
// markup metacharacters, truncates to maxLength runes and trims surrounding
// whitespace. Trimming runs last so a truncation boundary landing inside
// whitespace still yields a trimmed result.
//
// Clean is idempotent: Clean(Clean(s, n), n) == Clean(s, n). Input is
// unescaped before escaping so already-escaped entities are not escaped
// twice, and a truncation boundary landing inside an entity drops the
// fragment rather than leaving a bare ampersand run behind.
func Clean(text string, maxLength int) string {
	text = strings.TrimSpace(text)
	text = html.EscapeString(html.UnescapeString(text))
	text = tagPattern.ReplaceAllString(text, "")
	text = metaPattern.ReplaceAllString(text, "")
	if runes := []rune(text); maxLength >= 0 && len(runes) > maxLength {
		text = string(runes[:maxLength])
		// A cut landing inside an entity leaves a fragment like "&#3"
		// that would re-escape differently on the next pass.
		text = partialEntityPattern.ReplaceAllString(text, "")
	}
	return strings.TrimSpace(text)
}
