package port

import (
	"context"
	"io"
	"time"
	"triphoto/internal/core/domain"

	"github.com/google/uuid"
)

// UploadSessionRepository is an interface to interact with upload session records
type UploadSessionRepository interface {
	Create(ctx context.Context, session domain.UploadSession) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.UploadSession, error)
	// FindByIDForUpdate locks the session row for the duration of the
	// enclosing unit of work, so counter recomputation is a serialized
	// read-modify-write.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.UploadSession, error)
	UpdateCounters(ctx context.Context, id uuid.UUID, completedFiles, failedFiles int, status domain.SessionStatus, completedAt *time.Time) error
}

// UploadLogRepository is an interface to interact with upload log records.
// Logs are never deleted; there is no delete operation.
type UploadLogRepository interface {
	Create(ctx context.Context, log domain.UploadLog) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.UploadLog, error)
	Update(ctx context.Context, log domain.UploadLog) error
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.UploadLog, error)
	// CountOutcomes returns the number of child logs in success and failed
	// status for the given session.
	CountOutcomes(ctx context.Context, sessionID uuid.UUID) (completed int, failed int, err error)
	// FindStuckUploading returns logs left in uploading since before the
	// given deadline, for the reconciliation pass.
	FindStuckUploading(ctx context.Context, olderThan time.Time) ([]domain.UploadLog, error)
}

// UploadService is an interface to define the upload core exposed to the HTTP layer
type UploadService interface {
	CreateSession(ctx context.Context, roomID uuid.UUID, userName string, totalFiles int) (*domain.UploadSession, error)
	GetSession(ctx context.Context, sessionID uuid.UUID) (*domain.UploadSession, error)
	CreateLog(ctx context.Context, sessionID uuid.UUID, originalFilename string, fileSize int64, mimeType string) (*domain.UploadLog, error)
	UpdateLog(ctx context.Context, logID uuid.UUID, to domain.LogStatus, photoID *uuid.UUID, errorMessage string) (*domain.UploadLog, error)
	ListSessionLogs(ctx context.Context, sessionID uuid.UUID) ([]domain.UploadLog, error)
	AcceptFile(ctx context.Context, logID *uuid.UUID, roomID uuid.UUID, uploaderName string, file io.Reader, declaredFilename, declaredMimeType string, declaredSize int64) (*domain.Photo, error)
	Retry(ctx context.Context, logIDs []uuid.UUID) (*domain.RetrySummary, error)
	GetPhoto(ctx context.Context, roomID, photoID uuid.UUID) (*domain.Photo, error)
}

// ReconciliationService is an interface for the pass that times out abandoned uploads
type ReconciliationService interface {
	ReconcileStuckLogs(ctx context.Context, olderThan time.Time) (int, error)
}
