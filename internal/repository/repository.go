package repository

import (
	"context"
	"database/sql"
	"time"

	"fourheat/internal/models"
)

type Authorization interface {
	Create(ctx context.Context, username, hash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// ReadingRepo persists the latest value of every data point.
type ReadingRepo interface {
	SaveSnapshot(ctx context.Context, snap models.Snapshot, at time.Time) error
	List(ctx context.Context) ([]models.StoredReading, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.StoveEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.StoveEvent, error)
}

type Repository struct {
	ReadingRepo ReadingRepo
	EventRepo   EventRepo
	Auth        Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		ReadingRepo: NewReadingSQLite(db),
		EventRepo:   NewEventSQLite(db),
		Auth:        NewUserRepository(db),
	}
}
