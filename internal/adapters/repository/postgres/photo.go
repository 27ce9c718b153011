package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"triphoto/internal/core/domain"
	"triphoto/internal/core/port"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type sqlPhotoRepository struct {
	db SQLQuerier
}

// NewSQLPhotoRepository creates sqlPhotoRepository that implements port.PhotoRepository
func NewSQLPhotoRepository(db SQLQuerier) port.PhotoRepository {
	return &sqlPhotoRepository{
		db: db,
	}
}

// Insert persists a photo. The photos_dedup_key constraint makes this the
// authoritative duplicate check under concurrency.
func (s *sqlPhotoRepository) Insert(ctx context.Context, photo domain.Photo) error {
	query := `
		INSERT INTO photos (
			id, room_id, filename, original_filename, uploader_name,
			file_path, thumbnail_path, file_size, mime_type, content_hash,
			width, height, taken_at, uploaded_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := s.db.ExecContext(ctx, query,
		photo.ID,
		photo.RoomID,
		photo.Filename,
		photo.OriginalFilename,
		photo.UploaderName,
		photo.FilePath,
		photo.ThumbnailPath,
		photo.FileSize,
		photo.MimeType,
		photo.ContentHash,
		photo.Width,
		photo.Height,
		photo.TakenAt,
		photo.UploadedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" {
				return fmt.Errorf("photo %s: %w", photo.OriginalFilename, domain.ErrDuplicateUpload)
			}
		}
		return err
	}
	return nil
}

// FindDuplicate finds the photo already stored under the dedup key
func (s *sqlPhotoRepository) FindDuplicate(ctx context.Context, roomID uuid.UUID, uploaderName, contentHash string) (*domain.Photo, error) {
	query := selectPhoto + ` WHERE room_id = $1 AND uploader_name = $2 AND content_hash = $3`
	return s.scanOne(s.db.QueryRowContext(ctx, query, roomID, uploaderName, contentHash))
}

// FindByID finds a photo by id
func (s *sqlPhotoRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Photo, error) {
	query := selectPhoto + ` WHERE id = $1`
	return s.scanOne(s.db.QueryRowContext(ctx, query, id))
}

const selectPhoto = `
	SELECT id, room_id, filename, original_filename, uploader_name,
	       file_path, thumbnail_path, file_size, mime_type, content_hash,
	       width, height, taken_at, uploaded_at
	FROM photos`

func (s *sqlPhotoRepository) scanOne(row *sql.Row) (*domain.Photo, error) {
	var photoDB dbPhoto
	err := row.Scan(
		&photoDB.ID,
		&photoDB.RoomID,
		&photoDB.Filename,
		&photoDB.OriginalFilename,
		&photoDB.UploaderName,
		&photoDB.FilePath,
		&photoDB.ThumbnailPath,
		&photoDB.FileSize,
		&photoDB.MimeType,
		&photoDB.ContentHash,
		&photoDB.Width,
		&photoDB.Height,
		&photoDB.TakenAt,
		&photoDB.UploadedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPhotoNotFound
		}
		return nil, err
	}
	return photoDB.ToDomain(), nil
}

// dbPhoto represents a photo in DB
type dbPhoto struct {
	ID               uuid.UUID      `db:"id"`
	RoomID           uuid.UUID      `db:"room_id"`
	Filename         string         `db:"filename"`
	OriginalFilename string         `db:"original_filename"`
	UploaderName     string         `db:"uploader_name"`
	FilePath         string         `db:"file_path"`
	ThumbnailPath    sql.NullString `db:"thumbnail_path"`
	FileSize         int64          `db:"file_size"`
	MimeType         string         `db:"mime_type"`
	ContentHash      string         `db:"content_hash"`
	Width            sql.NullInt32  `db:"width"`
	Height           sql.NullInt32  `db:"height"`
	TakenAt          sql.NullTime   `db:"taken_at"`
	UploadedAt       time.Time      `db:"uploaded_at"`
}

// ToDomain converts to domain.Photo
func (p *dbPhoto) ToDomain() *domain.Photo {
	photo := &domain.Photo{
		ID:               p.ID,
		RoomID:           p.RoomID,
		Filename:         p.Filename,
		OriginalFilename: p.OriginalFilename,
		UploaderName:     p.UploaderName,
		FilePath:         p.FilePath,
		FileSize:         p.FileSize,
		MimeType:         p.MimeType,
		ContentHash:      p.ContentHash,
		UploadedAt:       p.UploadedAt,
	}
	if p.ThumbnailPath.Valid {
		photo.ThumbnailPath = &p.ThumbnailPath.String
	}
	if p.Width.Valid {
		w := int(p.Width.Int32)
		photo.Width = &w
	}
	if p.Height.Valid {
		h := int(p.Height.Int32)
		photo.Height = &h
	}
	if p.TakenAt.Valid {
		photo.TakenAt = &p.TakenAt.Time
	}
	return photo
}
