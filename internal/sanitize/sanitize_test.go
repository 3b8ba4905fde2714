package sanitize

import (
	"strings"
	"testing"
)

func TestCleanStripsMarkup(t *testing.T) {
	cases := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"plain", "hello world", 100, "hello world"},
		{"angle brackets escaped", "<script>alert(1)</script>", 100, "&lt;script&gt;alert(1)&lt;/script&gt;"},
		{"quotes escaped", `say "hi"`, 100, "say &#34;hi&#34;"},
		{"backtick stripped", "a`b`c", 100, "abc"},
		{"whitespace trimmed", "   padded   ", 100, "padded"},
		{"empty", "", 100, ""},
		{"only whitespace", " \t\n ", 100, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Clean(tc.in, tc.max); got != tc.want {
				t.Fatalf("Clean(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
			}
		})
	}
}

func TestCleanTruncates(t *testing.T) {
	got := Clean(strings.Repeat("a", 600), 500)
	if len(got) != 500 {
		t.Fatalf("expected 500 chars, got %d", len(got))
	}

	// Mid-word truncation is expected; no boundary awareness.
	if got := Clean("abcdef", 3); got != "abc" {
		t.Fatalf("expected %q, got %q", "abc", got)
	}

	// Trim runs after truncation: a cut landing in whitespace is trimmed.
	if got := Clean("ab cdef", 3); got != "ab" {
		t.Fatalf("expected %q, got %q", "ab", got)
	}

	// A cut landing inside an escape entity drops the fragment.
	if got := Clean(`aaa"bbb`, 6); got != "aaa" {
		t.Fatalf("expected %q, got %q", "aaa", got)
	}
	if got := Clean(`"`, 3); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestCleanZeroLength(t *testing.T) {
	if got := Clean("anything", 0); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestCleanIdempotent(t *testing.T) {
	inputs := []string{
		"plain text",
		"<b>bold</b> & \"quoted\"",
		"fish & chips",
		"&amp; already escaped",
		"  <script>alert('x')</script>  ",
		"`tick` and 'quote'",
		strings.Repeat("& ", 300),
		"  a&b cd",
		"café con leche",
		`"`,
		`aaa"bbb`,
	}
	for _, in := range inputs {
		for _, max := range []int{3, 5, 6, 50, 1000} {
			once := Clean(in, max)
			twice := Clean(once, max)
			if once != twice {
				t.Fatalf("Clean not idempotent for %q max %d: first %q, second %q", in, max, once, twice)
			}
		}
	}
}

func TestCleanTruncatesRunesNotBytes(t *testing.T) {
	got := Clean("éééé", 2)
	if got != "éé" {
		t.Fatalf("expected 2 runes, got %q", got)
	}
}
