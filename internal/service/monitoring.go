package service

import (
	"context"
	"errors"
	"time"

	"fourheat/internal/logger"
	"fourheat/internal/models"
	"fourheat/internal/repository"

	"github.com/google/uuid"
)

// ErrNoData means the stove has not produced a usable snapshot yet, or the
// cached one expired after repeated timeouts.
var ErrNoData = errors.New("no stove data available")

// snapshotSource is the part of *Coordinator monitoring depends on.
type snapshotSource interface {
	Poll(ctx context.Context) (models.Snapshot, Outcome, error)
	Snapshot() models.Snapshot
}

type MonitoringService struct {
	source      snapshotSource
	readingRepo repository.ReadingRepo
	eventRepo   repository.EventRepo
	log         *logger.Logger
	now         func() time.Time
}

func NewMonitoringService(source snapshotSource, readingRepo repository.ReadingRepo, eventRepo repository.EventRepo, log *logger.Logger) *MonitoringService {
	if log == nil {
		log = logger.NewNop()
	}
	return &MonitoringService{
		source:      source,
		readingRepo: readingRepo,
		eventRepo:   eventRepo,
		log:         log,
		now:         time.Now,
	}
}

// Current returns the cached snapshot without touching the network.
func (s *MonitoringService) Current(ctx context.Context) (models.Snapshot, error) {
	snap := s.source.Snapshot()
	if snap == nil {
		return nil, ErrNoData
	}
	return snap, nil
}

// Refresh polls the stove. Fresh data is persisted; anything other than a
// clean fetch is recorded in the event log. Persistence problems are logged
// and never fail the refresh.
func (s *MonitoringService) Refresh(ctx context.Context) (models.Snapshot, error) {
	snap, outcome, err := s.source.Poll(ctx)
	now := s.now().UTC()

	switch outcome {
	case OutcomeOK:
		if perr := s.readingRepo.SaveSnapshot(ctx, snap, now); perr != nil {
			s.log.Errorw("stove_readings_save_failed", "err", perr)
		}
	case OutcomeStale:
		s.record(ctx, now, models.EventStale, "Update in flight; served cached data", nil)
	case OutcomeTimeout:
		s.record(ctx, now, models.EventTimeout, "Stove did not answer in time", map[string]any{
			"cached": snap != nil,
		})
	case OutcomeExpired:
		s.record(ctx, now, models.EventTimeout, "Timeout budget exhausted; cached data dropped", map[string]any{
			"cached": false,
		})
	case OutcomeFailed:
		s.record(ctx, now, models.EventError, "Stove update failed", map[string]any{
			"err": errString(err),
		})
	}

	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, ErrNoData
	}
	return snap, nil
}

// Stored returns the persisted readings, including points the stove has
// not reported since the last restart.
func (s *MonitoringService) Stored(ctx context.Context) ([]models.StoredReading, error) {
	return s.readingRepo.List(ctx)
}

func (s *MonitoringService) record(ctx context.Context, at time.Time, typ, desc string, meta map[string]any) {
	ev := models.StoveEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  at,
		Type:        typ,
		Description: desc,
	}
	if meta != nil {
		ev.Metadata = meta
	}
	if err := s.eventRepo.Append(ctx, ev); err != nil {
		s.log.Errorw("stove_event_append_failed", "type", typ, "err", err)
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
