package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SessionStatus represents the derived status of an upload session
type SessionStatus string

const (
	SessionStatusInProgress      SessionStatus = "in_progress"
	SessionStatusCompleted       SessionStatus = "completed"
	SessionStatusPartiallyFailed SessionStatus = "partially_failed"
	SessionStatusFailed          SessionStatus = "failed"
)

// LogStatus represents the status of an upload log
type LogStatus string

const (
	LogStatusPending   LogStatus = "pending"
	LogStatusUploading LogStatus = "uploading"
	LogStatusSuccess   LogStatus = "success"
	LogStatusFailed    LogStatus = "failed"
	// LogStatusRetrying marks a failed log selected for a retry batch but not
	// yet picked up by the coordinator. Equivalent to pending for processing,
	// distinguishable for progress reporting.
	LogStatusRetrying LogStatus = "retrying"
)

// MaxErrorMessageLen bounds the error message stored on a failed log.
const MaxErrorMessageLen = 500

// UploadSession tracks a batch of intended uploads declared together by one
// client action. Counters and status are derived from child logs, never set
// arbitrarily.
type UploadSession struct {
	ID             uuid.UUID
	RoomID         uuid.UUID
	UserName       string
	TotalFiles     int
	CompletedFiles int
	FailedFiles    int
	Status         SessionStatus
	StartedAt      time.Time
	CompletedAt    *time.Time
}

// UploadLog tracks the lifecycle of one file within a session. Logs are an
// audit trail and are never deleted.
type UploadLog struct {
	ID               uuid.UUID
	SessionID        uuid.UUID
	RoomID           uuid.UUID
	OriginalFilename string
	FileSize         int64
	MimeType         string
	UploaderName     string
	Status           LogStatus
	PhotoID          *uuid.UUID
	ErrorMessage     *string
	RetryCount       int
	StartedAt        time.Time
	CompletedAt      *time.Time
}

// RetrySummary describes the post-retry state of the affected batch.
type RetrySummary struct {
	SessionID         uuid.UUID
	TotalFiles        int
	SuccessfulUploads int
	FailedUploads     int
	PendingUploads    int
	Logs              []UploadLog
}

var legalLogTransitions = map[LogStatus][]LogStatus{
	LogStatusPending:   {LogStatusUploading},
	LogStatusRetrying:  {LogStatusUploading},
	LogStatusUploading: {LogStatusSuccess, LogStatusFailed},
	LogStatusFailed:    {LogStatusPending, LogStatusRetrying},
}

// CanTransition reports whether moving from s to the given status is legal.
func (s LogStatus) CanTransition(to LogStatus) bool {
	for _, next := range legalLogTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status is a terminal outcome.
func (s LogStatus) IsTerminal() bool {
	return s == LogStatusSuccess || s == LogStatusFailed
}

// MarkUploading moves the log into uploading and re-stamps startedAt.
func (l *UploadLog) MarkUploading(now time.Time) error {
	if !l.Status.CanTransition(LogStatusUploading) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, l.Status, LogStatusUploading)
	}
	l.Status = LogStatusUploading
	l.StartedAt = now
	return nil
}

// MarkSuccess resolves the log with a persisted photo. Exactly one of photoID
// and errorMessage holds in terminal states.
func (l *UploadLog) MarkSuccess(photoID uuid.UUID, now time.Time) error {
	if !l.Status.CanTransition(LogStatusSuccess) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, l.Status, LogStatusSuccess)
	}
	l.Status = LogStatusSuccess
	l.PhotoID = &photoID
	l.ErrorMessage = nil
	l.CompletedAt = &now
	return nil
}

// MarkFailed resolves the log with a bounded error message.
func (l *UploadLog) MarkFailed(message string, now time.Time) error {
	if !l.Status.CanTransition(LogStatusFailed) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, l.Status, LogStatusFailed)
	}
	if len(message) > MaxErrorMessageLen {
		message = message[:MaxErrorMessageLen]
	}
	l.Status = LogStatusFailed
	l.PhotoID = nil
	l.ErrorMessage = &message
	l.CompletedAt = &now
	return nil
}

// ResetForRetry moves a failed log back to pending, incrementing the retry
// count and clearing the previous outcome.
func (l *UploadLog) ResetForRetry() error {
	if !l.Status.CanTransition(LogStatusPending) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, l.Status, LogStatusPending)
	}
	l.Status = LogStatusPending
	l.RetryCount++
	l.ErrorMessage = nil
	l.CompletedAt = nil
	return nil
}

// DeriveSessionStatus computes the session status as a pure function of its
// counters.
func DeriveSessionStatus(totalFiles, completedFiles, failedFiles int) SessionStatus {
	switch {
	case completedFiles == totalFiles:
		return SessionStatusCompleted
	case failedFiles == totalFiles:
		return SessionStatusFailed
	case failedFiles > 0 && completedFiles+failedFiles == totalFiles:
		return SessionStatusPartiallyFailed
	default:
		return SessionStatusInProgress
	}
}
