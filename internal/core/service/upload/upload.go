package upload

import (
	"context"
	"log/slog"
	"time"

	"triphoto/internal/config"
	"triphoto/internal/core/domain"
	"triphoto/internal/core/port"
	"triphoto/internal/core/service/imaging"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

type uploadService struct {
	uow        port.UnitOfWork
	storage    port.FileStorage
	normalizer *imaging.Normalizer
	events     port.EventPublisher
	logger     *slog.Logger
	cfg        config.UploadConfig
	sem        *semaphore.Weighted
	stagingDir string
}

// NewUploadService creates a new upload service. events may be nil, in which
// case event publication is disabled.
func NewUploadService(
	uow port.UnitOfWork,
	storage port.FileStorage,
	normalizer *imaging.Normalizer,
	events port.EventPublisher,
	cfg config.UploadConfig,
	stagingDir string,
	logger *slog.Logger,
) port.UploadService {
	return &uploadService{
		uow:        uow,
		storage:    storage,
		normalizer: normalizer,
		events:     events,
		logger:     logger,
		cfg:        cfg,
		sem:        semaphore.NewWeighted(cfg.MaxConcurrent),
		stagingDir: stagingDir,
	}
}

// recountSession recomputes session counters and status from the child logs.
// Must run inside a unit of work; the session row is locked for the duration
// so concurrent terminal transitions serialize.
func (s *uploadService) recountSession(ctx context.Context, uow port.UnitOfWork, sessionID uuid.UUID, now time.Time) (*domain.UploadSession, error) {
	session, err := uow.UploadSessionRepo().FindByIDForUpdate(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	completed, failed, err := uow.UploadLogRepo().CountOutcomes(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	status := domain.DeriveSessionStatus(session.TotalFiles, completed, failed)

	completedAt := session.CompletedAt
	if status == domain.SessionStatusInProgress {
		// A retry reopened the session.
		completedAt = nil
	} else if completedAt == nil {
		completedAt = &now
	}

	if err := uow.UploadSessionRepo().UpdateCounters(ctx, session.ID, completed, failed, status, completedAt); err != nil {
		return nil, err
	}

	session.CompletedFiles = completed
	session.FailedFiles = failed
	session.Status = status
	session.CompletedAt = completedAt
	return session, nil
}

// publishEvent publishes best-effort: a broker outage never fails an upload.
func (s *uploadService) publishEvent(ctx context.Context, event domain.UploadEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishUploadEvent(ctx, event); err != nil {
		s.logger.Warn("failed to publish upload event",
			"type", event.Type,
			"log_id", event.LogID,
			"error", err,
		)
	}
}
