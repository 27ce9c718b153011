package domain

import (
	"time"

	"github.com/google/uuid"
)

// UploadEventType is a type that represents the type of an upload event
type UploadEventType string

const (
	UploadEventCompleted UploadEventType = "upload.completed"
	UploadEventFailed    UploadEventType = "upload.failed"
	UploadEventRetried   UploadEventType = "upload.retried"
)

// UploadEvent is published after a terminal log transition or a retry reset.
type UploadEvent struct {
	Type       UploadEventType `json:"type"`
	SessionID  uuid.UUID       `json:"session_id"`
	LogID      uuid.UUID       `json:"log_id"`
	RoomID     uuid.UUID       `json:"room_id"`
	PhotoID    *uuid.UUID      `json:"photo_id,omitempty"`
	Error      string          `json:"error,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}
