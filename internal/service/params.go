package service

import "time"

// SetValueParams addresses one writable data point.
type SetValueParams struct {
	PointID string
	Value   int64
}

// LogFilter supports history filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "STALE", "TIMEOUT", "ERROR", "COMMAND"
}
