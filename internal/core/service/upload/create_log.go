package upload

import (
	"context"
	"time"

	"triphoto/internal/core/domain"

	"github.com/google/uuid"
)

func (s *uploadService) CreateLog(ctx context.Context, sessionID uuid.UUID, originalFilename string, fileSize int64, mimeType string) (*domain.UploadLog, error) {
	session, err := s.uow.UploadSessionRepo().FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	log := domain.UploadLog{
		ID:               uuid.New(),
		SessionID:        session.ID,
		RoomID:           session.RoomID,
		OriginalFilename: originalFilename,
		FileSize:         fileSize,
		MimeType:         mimeType,
		UploaderName:     session.UserName,
		Status:           domain.LogStatusPending,
		StartedAt:        time.Now(),
	}

	if err := s.uow.UploadLogRepo().Create(ctx, log); err != nil {
		return nil, err
	}

	return &log, nil
}
