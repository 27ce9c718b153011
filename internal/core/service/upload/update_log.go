package upload

import (
	"context"
	"fmt"
	"time"

	"triphoto/internal/core/domain"
	"triphoto/internal/core/port"

	"github.com/google/uuid"
)

// UpdateLog applies a client-reported status transition to an upload log.
// Terminal transitions and retry resets trigger a session recount inside the
// same transaction.
func (s *uploadService) UpdateLog(ctx context.Context, logID uuid.UUID, to domain.LogStatus, photoID *uuid.UUID, errorMessage string) (*domain.UploadLog, error) {
	var updated *domain.UploadLog

	err := s.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		logRecord, err := uow.UploadLogRepo().FindByID(ctx, logID)
		if err != nil {
			return err
		}

		now := time.Now()
		switch to {
		case domain.LogStatusUploading:
			err = logRecord.MarkUploading(now)
		case domain.LogStatusSuccess:
			if photoID == nil {
				return fmt.Errorf("%w: success requires a photo id", domain.ErrInvalidTransition)
			}
			err = logRecord.MarkSuccess(*photoID, now)
		case domain.LogStatusFailed:
			err = logRecord.MarkFailed(errorMessage, now)
		case domain.LogStatusPending:
			err = logRecord.ResetForRetry()
		case domain.LogStatusRetrying:
			if !logRecord.Status.CanTransition(domain.LogStatusRetrying) {
				return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, logRecord.Status, to)
			}
			// Retrying is a reset with a different label for progress reporting.
			if err = logRecord.ResetForRetry(); err == nil {
				logRecord.Status = domain.LogStatusRetrying
			}
		default:
			return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidTransition, to)
		}
		if err != nil {
			return err
		}

		if err := uow.UploadLogRepo().Update(ctx, *logRecord); err != nil {
			return err
		}

		// Recount unconditionally: terminal transitions change the counters and
		// resets from failed reopen the session.
		if _, err := s.recountSession(ctx, uow, logRecord.SessionID, now); err != nil {
			return err
		}

		updated = logRecord
		return nil
	})
	if err != nil {
		return nil, err
	}

	if to.IsTerminal() {
		eventType := domain.UploadEventCompleted
		var eventErr string
		if to == domain.LogStatusFailed {
			eventType = domain.UploadEventFailed
			eventErr = errorMessage
		}
		s.publishEvent(ctx, domain.UploadEvent{
			Type:       eventType,
			SessionID:  updated.SessionID,
			LogID:      updated.ID,
			RoomID:     updated.RoomID,
			PhotoID:    updated.PhotoID,
			Error:      eventErr,
			OccurredAt: time.Now(),
		})
	}

	return updated, nil
}
