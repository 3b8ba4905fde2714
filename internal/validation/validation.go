// Package validation applies field-level rules to user input and returns
// typed, field-scoped failures.
package validation

import (
	"regexp"
	"strings"

	"github.com/Angelito-Alit/comments-api/internal/sanitize"
)

// Kind classifies a validation failure.
type Kind string

const (
	KindEmptyField       Kind = "empty_field"
	KindTooLong          Kind = "too_long"
	KindForbiddenContent Kind = "forbidden_content"
	KindInvalidFormat    Kind = "invalid_format"
)

// Error carries the failed field, the failure kind and a human-readable
// message so callers can report all three without re-deriving them.
type Error struct {
	Field   string
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Field + ": " + e.Message
}

func newError(field string, kind Kind, message string) *Error {
	return &Error{Field: field, Kind: kind, Message: message}
}

const (
	MaxAuthorLength  = 100
	MaxCommentLength = 1000
	MaxCityLength    = 50
)

// Coarse deny-list checked against lowercased raw input. Best-effort,
// not a markup parser.
var forbiddenTokens = []string{"script", "javascript", "vbscript", "onload", "onerror"}

// Letters (including accented Latin), spaces, hyphens and apostrophes.
var cityPattern = regexp.MustCompile(`^[a-zA-Z\x{00C0}-\x{00FF}\s\-']+$`)

// Author validates and sanitizes an author name. Length and deny-list checks
// run on the raw input, before sanitization, so shrinking during
// sanitization cannot be used to slip past them.
func Author(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", newError("author", KindEmptyField, "author name cannot be empty")
	}
	if len([]rune(raw)) > MaxAuthorLength {
		return "", newError("author", KindTooLong, "author name too long (max 100 characters)")
	}
	lowered := strings.ToLower(raw)
	for _, token := range forbiddenTokens {
		if strings.Contains(lowered, token) {
			return "", newError("author", KindForbiddenContent, "author name contains invalid content")
		}
	}
	return sanitize.Clean(raw, MaxAuthorLength), nil
}

// Comment validates and sanitizes a comment body.
func Comment(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", newError("comment", KindEmptyField, "comment cannot be empty")
	}
	if len([]rune(raw)) > MaxCommentLength {
		return "", newError("comment", KindTooLong, "comment too long (max 1000 characters)")
	}
	return sanitize.Clean(raw, MaxCommentLength), nil
}

// CityName validates a city path parameter against an allow-list pattern.
func CityName(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", newError("city", KindEmptyField, "city name cannot be empty")
	}
	if !cityPattern.MatchString(raw) {
		return "", newError("city", KindInvalidFormat, "invalid city name format")
	}
	return sanitize.Clean(raw, MaxCityLength), nil
}
