package models

import "time"

// Reading is a single data point reported by the stove.
type Reading struct {
	Value int64  `json:"value"`
	Type  string `json:"type"` // single-character type tag, e.g. "J", "I", "B"
}

// Snapshot maps 5-character data-point keys to readings.
// A nil Snapshot means no data is available.
type Snapshot map[string]Reading

// Clone returns a copy of s. A nil snapshot stays nil.
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return nil
	}
	out := make(Snapshot, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// StoredReading is the persisted latest value of one data point.
type StoredReading struct {
	Key       string    `json:"key"`
	Value     int64     `json:"value"`
	Type      string    `json:"type"`
	UpdatedAt time.Time `json:"updated_at"`
}
