package domain

import (
	"time"
)

// Event is one immutable record in the workspace event log. Events are
// ordered by append position; Seq is the 1-based position in the log and is
// derived from file order, never persisted.
type Event struct {
	Seq       int       `json:"seq"`
	Timestamp time.Time `json:"timestamp"`
	Content   string    `json:"content"`
}

// Record renders the event the way it is stored on disk. Hand-written
// records without a timestamp render as bare content.
func (e Event) Record() string {
	if e.Timestamp.IsZero() {
		return e.Content
	}
	return "[" + e.Timestamp.UTC().Format(time.RFC3339) + "] " + e.Content
}
