package upload

import (
	"context"
	"fmt"

	"triphoto/internal/core/domain"

	"github.com/google/uuid"
)

func (s *uploadService) GetPhoto(ctx context.Context, roomID, photoID uuid.UUID) (*domain.Photo, error) {
	photo, err := s.uow.PhotoRepo().FindByID(ctx, photoID)
	if err != nil {
		return nil, err
	}

	// Photos are room-scoped; never leak one through another room's URL.
	if photo.RoomID != roomID {
		return nil, fmt.Errorf("%w: %s", domain.ErrPhotoNotFound, photoID)
	}

	return photo, nil
}
