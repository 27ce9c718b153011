// Package reconcile times out uploads whose client went away mid-transfer.
package reconcile

import (
	"context"
	"log/slog"
	"time"

	"triphoto/internal/core/domain"
	"triphoto/internal/core/port"
)

type reconcileService struct {
	uow    port.UnitOfWork
	events port.EventPublisher
	logger *slog.Logger
}

// NewReconcileService creates a new reconciliation service. events may be nil.
func NewReconcileService(uow port.UnitOfWork, events port.EventPublisher, logger *slog.Logger) port.ReconciliationService {
	return &reconcileService{
		uow:    uow,
		events: events,
		logger: logger,
	}
}

// ReconcileStuckLogs fails every log stuck in uploading since before olderThan
// and recounts the owning sessions. Returns how many logs were resolved; a
// failure on one log does not stop the pass.
func (r *reconcileService) ReconcileStuckLogs(ctx context.Context, olderThan time.Time) (int, error) {
	stuck, err := r.uow.UploadLogRepo().FindStuckUploading(ctx, olderThan)
	if err != nil {
		return 0, err
	}

	resolved := 0
	for _, logRecord := range stuck {
		now := time.Now()
		reconciled := false
		txErr := r.uow.Execute(ctx, func(uow port.UnitOfWork) error {
			// Re-read under the transaction; the upload may have finished
			// between the listing and now.
			current, err := uow.UploadLogRepo().FindByID(ctx, logRecord.ID)
			if err != nil {
				return err
			}
			if current.Status != domain.LogStatusUploading {
				return nil
			}
			reconciled = true

			if err := current.MarkFailed("upload abandoned: no completion before deadline", now); err != nil {
				return err
			}
			if err := uow.UploadLogRepo().Update(ctx, *current); err != nil {
				return err
			}

			session, err := uow.UploadSessionRepo().FindByIDForUpdate(ctx, current.SessionID)
			if err != nil {
				return err
			}
			completed, failed, err := uow.UploadLogRepo().CountOutcomes(ctx, session.ID)
			if err != nil {
				return err
			}
			status := domain.DeriveSessionStatus(session.TotalFiles, completed, failed)
			completedAt := session.CompletedAt
			if status != domain.SessionStatusInProgress && completedAt == nil {
				completedAt = &now
			}
			return uow.UploadSessionRepo().UpdateCounters(ctx, session.ID, completed, failed, status, completedAt)
		})
		if txErr != nil {
			r.logger.Error("failed to reconcile stuck upload log", "log_id", logRecord.ID, "error", txErr)
			continue
		}
		if !reconciled {
			continue
		}
		resolved++

		r.publishFailed(ctx, logRecord, now)
	}

	if resolved > 0 {
		r.logger.Info("reconciled stuck upload logs", "count", resolved)
	}
	return resolved, nil
}

func (r *reconcileService) publishFailed(ctx context.Context, logRecord domain.UploadLog, now time.Time) {
	if r.events == nil {
		return
	}
	err := r.events.PublishUploadEvent(ctx, domain.UploadEvent{
		Type:       domain.UploadEventFailed,
		SessionID:  logRecord.SessionID,
		LogID:      logRecord.ID,
		RoomID:     logRecord.RoomID,
		Error:      "upload abandoned: no completion before deadline",
		OccurredAt: now,
	})
	if err != nil {
		r.logger.Warn("failed to publish reconcile event", "log_id", logRecord.ID, "error", err)
	}
}
