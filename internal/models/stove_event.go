package models

import "time"

// Event types recorded in the stove event log.
const (
	EventStale   = "STALE"
	EventTimeout = "TIMEOUT"
	EventError   = "ERROR"
	EventCommand = "COMMAND"
)

// StoveEvent is a single log entry.
type StoveEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // STALE | TIMEOUT | ERROR | COMMAND
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
