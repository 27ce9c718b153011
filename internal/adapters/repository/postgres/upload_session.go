package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"triphoto/internal/core/domain"
	"triphoto/internal/core/port"

	"github.com/google/uuid"
)

type sqlUploadSessionRepository struct {
	db SQLQuerier
}

// NewSQLUploadSessionRepository creates sqlUploadSessionRepository that implements port.UploadSessionRepository
func NewSQLUploadSessionRepository(db SQLQuerier) port.UploadSessionRepository {
	return &sqlUploadSessionRepository{
		db: db,
	}
}

// Create creates a new upload session
func (s *sqlUploadSessionRepository) Create(ctx context.Context, session domain.UploadSession) error {
	query := `
		INSERT INTO upload_sessions (
			id, room_id, user_name, total_files, completed_files,
			failed_files, status, started_at, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := s.db.ExecContext(ctx, query,
		session.ID,
		session.RoomID,
		session.UserName,
		session.TotalFiles,
		session.CompletedFiles,
		session.FailedFiles,
		session.Status,
		session.StartedAt,
		session.CompletedAt,
	)
	return err
}

const selectSession = `
	SELECT id, room_id, user_name, total_files, completed_files,
	       failed_files, status, started_at, completed_at
	FROM upload_sessions`

// FindByID finds an upload session by id
func (s *sqlUploadSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.UploadSession, error) {
	return s.scanOne(s.db.QueryRowContext(ctx, selectSession+` WHERE id = $1`, id))
}

// FindByIDForUpdate locks the session row until the enclosing transaction ends
func (s *sqlUploadSessionRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.UploadSession, error) {
	return s.scanOne(s.db.QueryRowContext(ctx, selectSession+` WHERE id = $1 FOR UPDATE`, id))
}

// UpdateCounters writes the recomputed counters and derived status
func (s *sqlUploadSessionRepository) UpdateCounters(ctx context.Context, id uuid.UUID, completedFiles, failedFiles int, status domain.SessionStatus, completedAt *time.Time) error {
	query := `
		UPDATE upload_sessions
		SET completed_files = $2, failed_files = $3, status = $4, completed_at = $5
		WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id, completedFiles, failedFiles, status, completedAt)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (s *sqlUploadSessionRepository) scanOne(row *sql.Row) (*domain.UploadSession, error) {
	var sessionDB dbUploadSession
	err := row.Scan(
		&sessionDB.ID,
		&sessionDB.RoomID,
		&sessionDB.UserName,
		&sessionDB.TotalFiles,
		&sessionDB.CompletedFiles,
		&sessionDB.FailedFiles,
		&sessionDB.Status,
		&sessionDB.StartedAt,
		&sessionDB.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	return sessionDB.ToDomain(), nil
}

// dbUploadSession represents an upload session in DB
type dbUploadSession struct {
	ID             uuid.UUID    `db:"id"`
	RoomID         uuid.UUID    `db:"room_id"`
	UserName       string       `db:"user_name"`
	TotalFiles     int          `db:"total_files"`
	CompletedFiles int          `db:"completed_files"`
	FailedFiles    int          `db:"failed_files"`
	Status         string       `db:"status"`
	StartedAt      time.Time    `db:"started_at"`
	CompletedAt    sql.NullTime `db:"completed_at"`
}

// ToDomain converts to domain.UploadSession
func (s *dbUploadSession) ToDomain() *domain.UploadSession {
	session := &domain.UploadSession{
		ID:             s.ID,
		RoomID:         s.RoomID,
		UserName:       s.UserName,
		TotalFiles:     s.TotalFiles,
		CompletedFiles: s.CompletedFiles,
		FailedFiles:    s.FailedFiles,
		Status:         domain.SessionStatus(s.Status),
		StartedAt:      s.StartedAt,
	}
	if s.CompletedAt.Valid {
		session.CompletedAt = &s.CompletedAt.Time
	}
	return session
}
