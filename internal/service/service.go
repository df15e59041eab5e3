package service

import (
	"context"
	"time"

	"fourheat/internal/logger"
	"fourheat/internal/models"
	"fourheat/internal/repository"
)

type Authorization interface {
	SignUp(ctx context.Context, username, password string) (int, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Monitoring exposes the cached snapshot and explicit refreshes.
type Monitoring interface {
	Current(ctx context.Context) (models.Snapshot, error)
	Refresh(ctx context.Context) (models.Snapshot, error)
	Stored(ctx context.Context) ([]models.StoredReading, error)
}

// Stove relays commands to the device. Only argument validation can fail;
// delivery problems end up in the logs.
type Stove interface {
	TurnOn(ctx context.Context)
	TurnOff(ctx context.Context)
	Unblock(ctx context.Context)
	SetValue(ctx context.Context, p SetValueParams) error
}

// EventLog exposes append-only logs with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.StoveEvent, error)
}

// Poller refreshes on a fixed interval and fans fresh snapshots out to
// subscribers. Stop via context cancellation in main().
type Poller interface {
	Run(ctx context.Context, interval time.Duration)
	Subscribe() (<-chan models.Snapshot, func())
}

type Service struct {
	Monitoring
	Stove
	EventLog
	Poller
	Authorization
}

// Deps groups what NewService needs besides the repositories.
type Deps struct {
	Coordinator *Coordinator
	Dispatcher  *Dispatcher
	Auth        AuthConfig
	Log         *logger.Logger
}

// NewService wires the repository layer and the stove client into concrete services.
func NewService(repos *repository.Repository, d Deps) *Service {
	monitoring := NewMonitoringService(d.Coordinator, repos.ReadingRepo, repos.EventRepo, d.Log)
	return &Service{
		Monitoring:    monitoring,
		Stove:         NewStoveService(d.Dispatcher, repos.EventRepo, d.Log),
		EventLog:      NewEventLogService(repos.EventRepo),
		Poller:        NewPollerService(monitoring, d.Log),
		Authorization: NewAuthService(repos.Auth, d.Auth),
	}
}
