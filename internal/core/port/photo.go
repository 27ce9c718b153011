package port

import (
	"context"
	"triphoto/internal/core/domain"

	"github.com/google/uuid"
)

// PhotoRepository is an interface to define photo repository interactions
type PhotoRepository interface {
	// Insert persists a photo. A violation of the (roomID, uploaderName,
	// contentHash) uniqueness constraint surfaces as domain.ErrDuplicateUpload,
	// distinct from other storage errors.
	Insert(ctx context.Context, photo domain.Photo) error
	// FindDuplicate returns the photo matching the dedup key, or
	// domain.ErrPhotoNotFound when none exists.
	FindDuplicate(ctx context.Context, roomID uuid.UUID, uploaderName, contentHash string) (*domain.Photo, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Photo, error)
}

// RoomRepository is an interface to check room existence; room CRUD is owned
// by another layer.
type RoomRepository interface {
	ExistsActive(ctx context.Context, id uuid.UUID) (bool, error)
}
