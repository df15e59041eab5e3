package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"fourheat/internal/models"
)

type ReadingSQLite struct {
	db *sql.DB
}

func NewReadingSQLite(db *sql.DB) *ReadingSQLite {
	return &ReadingSQLite{db: db}
}

const (
	upsertReadingSQL = `
		INSERT INTO stove_readings (key, value, type_tag, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value=excluded.value,
			type_tag=excluded.type_tag,
			updated_at=excluded.updated_at
	`

	selectReadingsSQL = `
		SELECT key, value, type_tag, updated_at
		FROM stove_readings ORDER BY key ASC
	`
)

// sortedKeys gives a stable write order.
func sortedKeys(snap models.Snapshot) []string {
	keys := make([]string, 0, len(snap))
	for k := range snap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SaveSnapshot upserts every point of snap in one transaction. Points not
// in snap keep their stored value.
func (r *ReadingSQLite) SaveSnapshot(ctx context.Context, snap models.Snapshot, at time.Time) error {
	if len(snap) == 0 {
		return nil
	}
	if at.IsZero() {
		at = time.Now()
	}
	ts := sqliteTime(at)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin readings transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsertReadingSQL)
	if err != nil {
		return fmt.Errorf("prepare reading upsert: %w", err)
	}
	defer stmt.Close()

	for _, key := range sortedKeys(snap) {
		rd := snap[key]
		if _, err := stmt.ExecContext(ctx, key, rd.Value, rd.Type, ts); err != nil {
			return fmt.Errorf("upsert reading %q: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit readings: %w", err)
	}
	return nil
}

// List returns all stored readings ordered by key.
func (r *ReadingSQLite) List(ctx context.Context) ([]models.StoredReading, error) {
	rows, err := r.db.QueryContext(ctx, selectReadingsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.StoredReading, 0, 64)
	for rows.Next() {
		var (
			rd models.StoredReading
			at string
		)
		if err := rows.Scan(&rd.Key, &rd.Value, &rd.Type, &at); err != nil {
			return nil, err
		}
		if rd.UpdatedAt, err = time.Parse(sqliteTimeLayout, at); err != nil {
			return nil, fmt.Errorf("parse updated_at of %q: %w", rd.Key, err)
		}
		out = append(out, rd)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
