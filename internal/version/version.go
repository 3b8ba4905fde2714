// Package version pins the identifiers reported in banners and headers.
package version

const (
	ServiceName = "comments-api"
	Version     = "1.0.0"
)
