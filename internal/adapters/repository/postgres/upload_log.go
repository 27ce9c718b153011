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

type sqlUploadLogRepository struct {
	db SQLQuerier
}

// NewSQLUploadLogRepository creates sqlUploadLogRepository that implements port.UploadLogRepository
func NewSQLUploadLogRepository(db SQLQuerier) port.UploadLogRepository {
	return &sqlUploadLogRepository{
		db: db,
	}
}

// Create creates a new upload log
func (s *sqlUploadLogRepository) Create(ctx context.Context, log domain.UploadLog) error {
	query := `
		INSERT INTO upload_logs (
			id, session_id, room_id, original_filename, file_size,
			mime_type, uploader_name, status, photo_id, error_message,
			retry_count, started_at, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := s.db.ExecContext(ctx, query,
		log.ID,
		log.SessionID,
		log.RoomID,
		log.OriginalFilename,
		log.FileSize,
		log.MimeType,
		log.UploaderName,
		log.Status,
		log.PhotoID,
		log.ErrorMessage,
		log.RetryCount,
		log.StartedAt,
		log.CompletedAt,
	)
	return err
}

const selectLog = `
	SELECT id, session_id, room_id, original_filename, file_size,
	       mime_type, uploader_name, status, photo_id, error_message,
	       retry_count, started_at, completed_at
	FROM upload_logs`

// FindByID finds an upload log by id
func (s *sqlUploadLogRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.UploadLog, error) {
	var logDB dbUploadLog
	err := scanLog(s.db.QueryRowContext(ctx, selectLog+` WHERE id = $1`, id), &logDB)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrLogNotFound
		}
		return nil, err
	}
	return logDB.ToDomain(), nil
}

// Update rewrites the mutable fields of an upload log
func (s *sqlUploadLogRepository) Update(ctx context.Context, log domain.UploadLog) error {
	query := `
		UPDATE upload_logs
		SET status = $2, photo_id = $3, error_message = $4,
		    retry_count = $5, started_at = $6, completed_at = $7
		WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query,
		log.ID,
		log.Status,
		log.PhotoID,
		log.ErrorMessage,
		log.RetryCount,
		log.StartedAt,
		log.CompletedAt,
	)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrLogNotFound
	}
	return nil
}

// ListBySession lists all logs of a session ordered by creation
func (s *sqlUploadLogRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.UploadLog, error) {
	query := selectLog + ` WHERE session_id = $1 ORDER BY started_at, id`

	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []domain.UploadLog
	for rows.Next() {
		var logDB dbUploadLog
		if err := scanLog(rows, &logDB); err != nil {
			return nil, err
		}
		logs = append(logs, *logDB.ToDomain())
	}
	return logs, rows.Err()
}

// CountOutcomes counts terminal logs of a session grouped by outcome
func (s *sqlUploadLogRepository) CountOutcomes(ctx context.Context, sessionID uuid.UUID) (int, int, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'success'),
			COUNT(*) FILTER (WHERE status = 'failed')
		FROM upload_logs
		WHERE session_id = $1`

	var completed, failed int
	if err := s.db.QueryRowContext(ctx, query, sessionID).Scan(&completed, &failed); err != nil {
		return 0, 0, err
	}
	return completed, failed, nil
}

// FindStuckUploading lists logs still uploading since before the deadline
func (s *sqlUploadLogRepository) FindStuckUploading(ctx context.Context, olderThan time.Time) ([]domain.UploadLog, error) {
	query := selectLog + ` WHERE status = 'uploading' AND started_at < $1`

	rows, err := s.db.QueryContext(ctx, query, olderThan)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []domain.UploadLog
	for rows.Next() {
		var logDB dbUploadLog
		if err := scanLog(rows, &logDB); err != nil {
			return nil, err
		}
		logs = append(logs, *logDB.ToDomain())
	}
	return logs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLog(row rowScanner, logDB *dbUploadLog) error {
	return row.Scan(
		&logDB.ID,
		&logDB.SessionID,
		&logDB.RoomID,
		&logDB.OriginalFilename,
		&logDB.FileSize,
		&logDB.MimeType,
		&logDB.UploaderName,
		&logDB.Status,
		&logDB.PhotoID,
		&logDB.ErrorMessage,
		&logDB.RetryCount,
		&logDB.StartedAt,
		&logDB.CompletedAt,
	)
}

// dbUploadLog represents an upload log in DB
type dbUploadLog struct {
	ID               uuid.UUID      `db:"id"`
	SessionID        uuid.UUID      `db:"session_id"`
	RoomID           uuid.UUID      `db:"room_id"`
	OriginalFilename string         `db:"original_filename"`
	FileSize         int64          `db:"file_size"`
	MimeType         string         `db:"mime_type"`
	UploaderName     string         `db:"uploader_name"`
	Status           string         `db:"status"`
	PhotoID          uuid.NullUUID  `db:"photo_id"`
	ErrorMessage     sql.NullString `db:"error_message"`
	RetryCount       int            `db:"retry_count"`
	StartedAt        time.Time      `db:"started_at"`
	CompletedAt      sql.NullTime   `db:"completed_at"`
}

// ToDomain converts to domain.UploadLog
func (l *dbUploadLog) ToDomain() *domain.UploadLog {
	log := &domain.UploadLog{
		ID:               l.ID,
		SessionID:        l.SessionID,
		RoomID:           l.RoomID,
		OriginalFilename: l.OriginalFilename,
		FileSize:         l.FileSize,
		MimeType:         l.MimeType,
		UploaderName:     l.UploaderName,
		Status:           domain.LogStatus(l.Status),
		RetryCount:       l.RetryCount,
		StartedAt:        l.StartedAt,
	}
	if l.PhotoID.Valid {
		log.PhotoID = &l.PhotoID.UUID
	}
	if l.ErrorMessage.Valid {
		log.ErrorMessage = &l.ErrorMessage.String
	}
	if l.CompletedAt.Valid {
		log.CompletedAt = &l.CompletedAt.Time
	}
	return log
}
