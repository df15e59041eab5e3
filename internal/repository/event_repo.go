package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"fourheat/internal/models"

	"github.com/google/uuid"
)

type EventSQLite struct {
	db *sql.DB
}

func NewEventSQLite(db *sql.DB) *EventSQLite { return &EventSQLite{db: db} }

const (
	// sqliteTimeLayout is used for both writes and range filters so that
	// text comparison in SQLite matches time order.
	sqliteTimeLayout = "2006-01-02 15:04:05.000"

	maxEventsPerList = 1000

	insertEventSQL = `
		INSERT INTO stove_events (id, occurred_at, type, message, meta)
		VALUES (?, ?, ?, ?, ?)
	`
)

func sqliteTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

// marshalMeta returns nil for absent or unencodable metadata.
func marshalMeta(meta any) *string {
	if meta == nil {
		return nil
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return nil
	}
	s := string(b)
	return &s
}

// Append inserts a new event. If EventID or OccurredAt are empty, they’re set.
func (r *EventSQLite) Append(ctx context.Context, e models.StoveEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, insertEventSQL,
		e.EventID,
		sqliteTime(e.OccurredAt),
		strings.ToUpper(strings.TrimSpace(e.Type)),
		e.Description,
		marshalMeta(e.Metadata),
	)
	return err
}

// List returns events filtered by [from, to] (inclusive) and/or type,
// oldest first, capped at maxEventsPerList.
func (r *EventSQLite) List(ctx context.Context, from, to time.Time, typ string) ([]models.StoveEvent, error) {
	var (
		conds []string
		args  []any
	)

	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, sqliteTime(from))
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, sqliteTime(to))
	}
	if typ = strings.ToUpper(strings.TrimSpace(typ)); typ != "" {
		conds = append(conds, "type = ?")
		args = append(args, typ)
	}

	q := `SELECT id, occurred_at, type, message, meta FROM stove_events`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY occurred_at ASC LIMIT ?"
	args = append(args, maxEventsPerList)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.StoveEvent, 0, 64)
	for rows.Next() {
		var (
			ev      models.StoveEvent
			at      string
			metaStr sql.NullString
		)
		if err := rows.Scan(&ev.EventID, &at, &ev.Type, &ev.Description, &metaStr); err != nil {
			return nil, err
		}
		if ev.OccurredAt, err = time.Parse(sqliteTimeLayout, at); err != nil {
			return nil, err
		}

		if metaStr.Valid && metaStr.String != "" {
			var v any
			if err := json.Unmarshal([]byte(metaStr.String), &v); err == nil {
				ev.Metadata = v
			} else {
				ev.Metadata = metaStr.String // keep raw if malformed
			}
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
