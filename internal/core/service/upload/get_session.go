package upload

import (
	"context"

	"triphoto/internal/core/domain"

	"github.com/google/uuid"
)

func (s *uploadService) GetSession(ctx context.Context, sessionID uuid.UUID) (*domain.UploadSession, error) {
	return s.uow.UploadSessionRepo().FindByID(ctx, sessionID)
}
