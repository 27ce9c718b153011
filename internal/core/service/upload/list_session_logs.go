package upload

import (
	"context"

	"triphoto/internal/core/domain"

	"github.com/google/uuid"
)

func (s *uploadService) ListSessionLogs(ctx context.Context, sessionID uuid.UUID) ([]domain.UploadLog, error) {
	// Session existence check first so an unknown id is a 404, not an empty list.
	if _, err := s.uow.UploadSessionRepo().FindByID(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.uow.UploadLogRepo().ListBySession(ctx, sessionID)
}
