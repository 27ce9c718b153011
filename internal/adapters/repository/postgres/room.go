package postgres

import (
	"context"

	"triphoto/internal/core/port"

	"github.com/google/uuid"
)

type sqlRoomRepository struct {
	db SQLQuerier
}

// NewSQLRoomRepository creates sqlRoomRepository that implements port.RoomRepository
func NewSQLRoomRepository(db SQLQuerier) port.RoomRepository {
	return &sqlRoomRepository{
		db: db,
	}
}

// ExistsActive reports whether an active room with this id exists
func (s *sqlRoomRepository) ExistsActive(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM rooms WHERE id = $1 AND is_active)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
