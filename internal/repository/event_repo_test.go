package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"fourheat/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func ctx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return c
}

func newEventRepo(t *testing.T) (*EventSQLite, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("mock expectations: %v", err)
		}
		_ = db.Close()
	})
	return NewEventSQLite(db), mock
}

func TestAppend_Success_WithDefaults(t *testing.T) {
	t.Parallel()
	repo, mock := newEventRepo(t)

	// generated id and timestamp are unknown; type must be normalized
	mock.ExpectExec(regexp.QuoteMeta(insertEventSQL)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "TIMEOUT", "stove timed out", `{"timeouts":2}`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Append(ctx(t), models.StoveEvent{
		Type:        "  timeout ",
		Description: "stove timed out",
		Metadata:    map[string]any{"timeouts": 2},
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
}

func TestAppend_KeepsGivenIDAndFormatsTimeUTC(t *testing.T) {
	t.Parallel()
	repo, mock := newEventRepo(t)

	loc := time.FixedZone("CET", 3600)
	at := time.Date(2025, 1, 2, 11, 30, 0, 0, loc)

	mock.ExpectExec(regexp.QuoteMeta(insertEventSQL)).
		WithArgs("ev-1", "2025-01-02 10:30:00.000", "COMMAND", "on", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Append(ctx(t), models.StoveEvent{
		EventID:     "ev-1",
		OccurredAt:  at,
		Type:        models.EventCommand,
		Description: "on",
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
}

func TestAppend_DBError(t *testing.T) {
	t.Parallel()
	repo, mock := newEventRepo(t)

	mock.ExpectExec("INSERT INTO stove_events").
		WillReturnError(errors.New("down"))

	err := repo.Append(ctx(t), models.StoveEvent{
		Type:        "error",
		Description: "x",
		Metadata:    map[string]string{"k": "v"},
	})
	if err == nil || !strings.Contains(err.Error(), "down") {
		t.Fatalf("expected error, got %v", err)
	}
}

func TestList_NoFilters_And_MetadataParsing(t *testing.T) {
	t.Parallel()
	repo, mock := newEventRepo(t)

	js, _ := json.Marshal(map[string]any{"a": "b"})

	rows := sqlmock.NewRows([]string{"id", "occurred_at", "type", "message", "meta"}).
		AddRow("1", "2025-01-01 10:00:00.000", "TIMEOUT", "m1", string(js)).
		AddRow("2", "2025-01-01 11:00:00.250", "ERROR", "m2", nil).
		AddRow("3", "2025-01-01 12:00:00.000", "ERROR", "m3", "{broken")

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, occurred_at, type, message, meta FROM stove_events ORDER BY occurred_at ASC LIMIT ?`)).
		WithArgs(maxEventsPerList).
		WillReturnRows(rows)

	got, err := repo.List(ctx(t), time.Time{}, time.Time{}, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("want 3, got %d", len(got))
	}
	want := time.Date(2025, 1, 1, 11, 0, 0, 250_000_000, time.UTC)
	if !got[1].OccurredAt.Equal(want) || got[1].OccurredAt.Location() != time.UTC {
		t.Fatalf("occurred_at: want %v, got %v", want, got[1].OccurredAt)
	}
	b1, _ := json.Marshal(got[0].Metadata)
	if string(b1) != string(js) {
		t.Fatalf("metadata mismatch: %s vs %s", string(b1), string(js))
	}
	if got[1].Metadata != nil {
		t.Fatalf("expected nil meta, got %#v", got[1].Metadata)
	}
	if got[2].Metadata != "{broken" {
		t.Fatalf("expected raw meta kept, got %#v", got[2].Metadata)
	}
}

func TestList_WithFilters_OrderAndArgs(t *testing.T) {
	t.Parallel()
	repo, mock := newEventRepo(t)

	from := time.Date(2025, 1, 1, 11, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	query := `SELECT id, occurred_at, type, message, meta FROM stove_events WHERE occurred_at >= ? AND occurred_at <= ? AND type = ? ORDER BY occurred_at ASC LIMIT ?`

	rows := sqlmock.NewRows([]string{"id", "occurred_at", "type", "message", "meta"}).
		AddRow("2", "2025-01-01 11:00:00.000", "ERROR", "b", nil).
		AddRow("3", "2025-01-01 12:00:00.000", "ERROR", "c", nil)

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs("2025-01-01 11:00:00.000", "2025-01-01 12:00:00.000", "ERROR", maxEventsPerList).
		WillReturnRows(rows)

	got, err := repo.List(ctx(t), from, to, " error ")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].EventID != "2" || got[1].EventID != "3" {
		t.Fatalf("unexpected results: %+v", got)
	}
}

func TestList_BadTimestamp(t *testing.T) {
	t.Parallel()
	repo, mock := newEventRepo(t)

	rows := sqlmock.NewRows([]string{"id", "occurred_at", "type", "message", "meta"}).
		AddRow("x", "yesterday", "ERROR", "msg", nil)

	mock.ExpectQuery("SELECT id, occurred_at").
		WillReturnRows(rows)

	if _, err := repo.List(ctx(t), time.Time{}, time.Time{}, ""); err == nil {
		t.Fatalf("expected parse error, got nil")
	}
}

func TestList_QueryError(t *testing.T) {
	t.Parallel()
	repo, mock := newEventRepo(t)

	mock.ExpectQuery("SELECT id, occurred_at").
		WillReturnError(sql.ErrConnDone)

	if _, err := repo.List(ctx(t), time.Time{}, time.Time{}, ""); !errors.Is(err, sql.ErrConnDone) {
		t.Fatalf("expected ErrConnDone, got %v", err)
	}
}
