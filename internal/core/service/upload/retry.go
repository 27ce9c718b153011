package upload

import (
	"context"
	"errors"
	"fmt"
	"time"

	"triphoto/internal/core/domain"
	"triphoto/internal/core/port"

	"github.com/google/uuid"
)

// Retry resets the given failed logs back to pending so they can be uploaded
// again. Unknown ids and logs not in failed status are skipped rather than
// failing the batch. The summary reflects the first referenced session after
// the resets.
func (s *uploadService) Retry(ctx context.Context, logIDs []uuid.UUID) (*domain.RetrySummary, error) {
	if len(logIDs) == 0 {
		return nil, fmt.Errorf("%w: no log ids given", domain.ErrInvalidBatchSize)
	}

	now := time.Now()
	var primarySession uuid.UUID
	var resetLogs []domain.UploadLog

	err := s.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		sessions := make(map[uuid.UUID]struct{})

		for _, id := range logIDs {
			logRecord, err := uow.UploadLogRepo().FindByID(ctx, id)
			if err != nil {
				if errors.Is(err, domain.ErrLogNotFound) {
					continue
				}
				return err
			}

			if primarySession == uuid.Nil {
				primarySession = logRecord.SessionID
			}
			if logRecord.Status != domain.LogStatusFailed {
				continue
			}

			if err := logRecord.ResetForRetry(); err != nil {
				return err
			}
			if err := uow.UploadLogRepo().Update(ctx, *logRecord); err != nil {
				return err
			}
			sessions[logRecord.SessionID] = struct{}{}
			resetLogs = append(resetLogs, *logRecord)
		}

		if primarySession == uuid.Nil {
			return fmt.Errorf("%w: no known log in retry batch", domain.ErrLogNotFound)
		}

		// Resets reopen their sessions; recount every affected one.
		for sessionID := range sessions {
			if _, err := s.recountSession(ctx, uow, sessionID, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, logRecord := range resetLogs {
		s.publishEvent(ctx, domain.UploadEvent{
			Type:       domain.UploadEventRetried,
			SessionID:  logRecord.SessionID,
			LogID:      logRecord.ID,
			RoomID:     logRecord.RoomID,
			OccurredAt: now,
		})
	}

	logs, err := s.uow.UploadLogRepo().ListBySession(ctx, primarySession)
	if err != nil {
		return nil, err
	}

	summary := &domain.RetrySummary{
		SessionID:  primarySession,
		TotalFiles: len(logs),
		Logs:       logs,
	}
	for _, logRecord := range logs {
		switch logRecord.Status {
		case domain.LogStatusSuccess:
			summary.SuccessfulUploads++
		case domain.LogStatusFailed:
			summary.FailedUploads++
		case domain.LogStatusPending, domain.LogStatusRetrying, domain.LogStatusUploading:
			// Just-reset logs are awaiting their new attempt, not failed.
			summary.PendingUploads++
		}
	}

	return summary, nil
}
