package upload

import (
	"context"
	"fmt"
	"time"

	"triphoto/internal/core/domain"

	"github.com/google/uuid"
)

func (s *uploadService) CreateSession(ctx context.Context, roomID uuid.UUID, userName string, totalFiles int) (*domain.UploadSession, error) {
	if totalFiles < 1 || totalFiles > s.cfg.MaxSessionFiles {
		return nil, fmt.Errorf("%w: total files must be between 1 and %d, got %d", domain.ErrInvalidBatchSize, s.cfg.MaxSessionFiles, totalFiles)
	}

	exists, err := s.uow.RoomRepo().ExistsActive(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrRoomNotFound, roomID)
	}

	session := domain.UploadSession{
		ID:         uuid.New(),
		RoomID:     roomID,
		UserName:   userName,
		TotalFiles: totalFiles,
		Status:     domain.SessionStatusInProgress,
		StartedAt:  time.Now(),
	}

	if err := s.uow.UploadSessionRepo().Create(ctx, session); err != nil {
		return nil, err
	}

	return &session, nil
}
