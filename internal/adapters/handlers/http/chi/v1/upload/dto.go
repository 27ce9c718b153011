package upload

import (
	"time"

	"triphoto/internal/core/domain"

	"github.com/google/uuid"
)

// V1SessionResponse is the wire form of an upload session
type V1SessionResponse struct {
	ID             uuid.UUID  `json:"id"`
	RoomID         uuid.UUID  `json:"room_id"`
	UserName       string     `json:"user_name"`
	TotalFiles     int        `json:"total_files"`
	CompletedFiles int        `json:"completed_files"`
	FailedFiles    int        `json:"failed_files"`
	Status         string     `json:"status"`
	StartedAt      time.Time  `json:"started_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

func toSessionResponse(session *domain.UploadSession) V1SessionResponse {
	return V1SessionResponse{
		ID:             session.ID,
		RoomID:         session.RoomID,
		UserName:       session.UserName,
		TotalFiles:     session.TotalFiles,
		CompletedFiles: session.CompletedFiles,
		FailedFiles:    session.FailedFiles,
		Status:         string(session.Status),
		StartedAt:      session.StartedAt,
		CompletedAt:    session.CompletedAt,
	}
}

// V1LogResponse is the wire form of an upload log
type V1LogResponse struct {
	ID               uuid.UUID  `json:"id"`
	SessionID        uuid.UUID  `json:"session_id"`
	RoomID           uuid.UUID  `json:"room_id"`
	OriginalFilename string     `json:"original_filename"`
	FileSize         int64      `json:"file_size"`
	MimeType         string     `json:"mime_type"`
	UploaderName     string     `json:"uploader_name"`
	Status           string     `json:"status"`
	PhotoID          *uuid.UUID `json:"photo_id,omitempty"`
	ErrorMessage     *string    `json:"error_message,omitempty"`
	RetryCount       int        `json:"retry_count"`
	StartedAt        time.Time  `json:"started_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}

func toLogResponse(log *domain.UploadLog) V1LogResponse {
	return V1LogResponse{
		ID:               log.ID,
		SessionID:        log.SessionID,
		RoomID:           log.RoomID,
		OriginalFilename: log.OriginalFilename,
		FileSize:         log.FileSize,
		MimeType:         log.MimeType,
		UploaderName:     log.UploaderName,
		Status:           string(log.Status),
		PhotoID:          log.PhotoID,
		ErrorMessage:     log.ErrorMessage,
		RetryCount:       log.RetryCount,
		StartedAt:        log.StartedAt,
		CompletedAt:      log.CompletedAt,
	}
}

func toLogResponses(logs []domain.UploadLog) []V1LogResponse {
	out := make([]V1LogResponse, 0, len(logs))
	for i := range logs {
		out = append(out, toLogResponse(&logs[i]))
	}
	return out
}
