package domain

import (
	"time"

	"github.com/google/uuid"
)

// Photo represents a persisted photo within a room. FilePath and ThumbnailPath
// are relative to the configured upload root, never absolute.
type Photo struct {
	ID               uuid.UUID
	RoomID           uuid.UUID
	Filename         string
	OriginalFilename string
	UploaderName     string
	FilePath         string
	ThumbnailPath    *string
	FileSize         int64
	MimeType         string
	ContentHash      string
	Width            *int
	Height           *int
	TakenAt          *time.Time
	UploadedAt       time.Time
}

// Room represents a named photo collection. The upload core only checks
// existence; room CRUD lives elsewhere.
type Room struct {
	ID          uuid.UUID
	Name        string
	CreatorName string
	IsActive    bool
	CreatedAt   time.Time
}

// ContentIdentity holds the dedup identity of a stored file. Width and Height
// are nil when the image decoder could not introspect the file.
type ContentIdentity struct {
	Size        int64
	MimeType    string
	Width       *int
	Height      *int
	ContentHash string
}
