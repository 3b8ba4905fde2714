package logger

import (
	"net/http"
	"testing"
)

func TestMaskAuthorization(t *testing.T) {
	got := MaskAuthorization("Bearer abcdef1234")
	want := "Bearer ****1234"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestMaskCookie(t *testing.T) {
	got := MaskCookie("session=abcdef1234; other=xyz")
	want := "session=****1234; other=****xyz"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestMaskHeaders(t *testing.T) {
	headers := http.Header{}
	headers.Set("Authorization", "Bearer abcdef1234")
	headers.Set("Content-Type", "application/json")

	masked := MaskHeaders(headers)
	if masked["Authorization"] != "Bearer ****1234" {
		t.Fatalf("expected masked authorization, got %q", masked["Authorization"])
	}
	if masked["Content-Type"] != "application/json" {
		t.Fatalf("expected content type untouched, got %q", masked["Content-Type"])
	}
}
