// Package comment holds the in-memory comment collection the API serves.
package comment

import "errors"

// ErrNotFound is returned when no comment carries the requested id.
var ErrNotFound = errors.New("comment not found")

// Comment is an immutable user-submitted record. Fields are stored already
// sanitized; the store never transforms them.
type Comment struct {
	ID        int64  `json:"id"`
	Author    string `json:"author"`
	Body      string `json:"comment"`
	Timestamp string `json:"timestamp"`
}
