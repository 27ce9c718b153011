package domain_test

import (
	"strings"
	"testing"
	"time"

	"triphoto/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPendingLog() domain.UploadLog {
	return domain.UploadLog{
		ID:               uuid.New(),
		SessionID:        uuid.New(),
		RoomID:           uuid.New(),
		OriginalFilename: "photo.jpg",
		FileSize:         1024,
		MimeType:         "image/jpeg",
		UploaderName:     "alice",
		Status:           domain.LogStatusPending,
		StartedAt:        time.Now(),
	}
}

func TestUploadLog_HappyPath(t *testing.T) {
	log := newPendingLog()
	now := time.Now()
	photoID := uuid.New()

	require.NoError(t, log.MarkUploading(now))
	assert.Equal(t, domain.LogStatusUploading, log.Status)
	assert.Equal(t, now, log.StartedAt)

	require.NoError(t, log.MarkSuccess(photoID, now))
	assert.Equal(t, domain.LogStatusSuccess, log.Status)
	require.NotNil(t, log.PhotoID)
	assert.Equal(t, photoID, *log.PhotoID)
	assert.Nil(t, log.ErrorMessage)
	require.NotNil(t, log.CompletedAt)
}

func TestUploadLog_FailurePath(t *testing.T) {
	log := newPendingLog()
	now := time.Now()

	require.NoError(t, log.MarkUploading(now))
	require.NoError(t, log.MarkFailed("disk full", now))

	assert.Equal(t, domain.LogStatusFailed, log.Status)
	assert.Nil(t, log.PhotoID)
	require.NotNil(t, log.ErrorMessage)
	assert.Equal(t, "disk full", *log.ErrorMessage)
	require.NotNil(t, log.CompletedAt)
}

func TestUploadLog_ErrorMessageTruncated(t *testing.T) {
	log := newPendingLog()
	now := time.Now()
	require.NoError(t, log.MarkUploading(now))

	long := strings.Repeat("x", 2000)
	require.NoError(t, log.MarkFailed(long, now))

	require.NotNil(t, log.ErrorMessage)
	assert.Len(t, *log.ErrorMessage, domain.MaxErrorMessageLen)
}

func TestUploadLog_ResetForRetry(t *testing.T) {
	log := newPendingLog()
	now := time.Now()
	require.NoError(t, log.MarkUploading(now))
	require.NoError(t, log.MarkFailed("timeout", now))

	require.NoError(t, log.ResetForRetry())

	assert.Equal(t, domain.LogStatusPending, log.Status)
	assert.Equal(t, 1, log.RetryCount)
	assert.Nil(t, log.ErrorMessage)
	assert.Nil(t, log.CompletedAt)

	// A retried log can be processed again.
	require.NoError(t, log.MarkUploading(now))
	require.NoError(t, log.MarkSuccess(uuid.New(), now))
}

func TestUploadLog_IllegalTransitions(t *testing.T) {
	now := time.Now()

	t.Run("pending cannot succeed directly", func(t *testing.T) {
		log := newPendingLog()
		err := log.MarkSuccess(uuid.New(), now)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		assert.Equal(t, domain.LogStatusPending, log.Status)
	})

	t.Run("pending cannot fail directly", func(t *testing.T) {
		log := newPendingLog()
		err := log.MarkFailed("boom", now)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("success is terminal", func(t *testing.T) {
		log := newPendingLog()
		require.NoError(t, log.MarkUploading(now))
		require.NoError(t, log.MarkSuccess(uuid.New(), now))

		assert.ErrorIs(t, log.MarkUploading(now), domain.ErrInvalidTransition)
		assert.ErrorIs(t, log.MarkFailed("boom", now), domain.ErrInvalidTransition)
		assert.ErrorIs(t, log.ResetForRetry(), domain.ErrInvalidTransition)
	})

	t.Run("only failed logs can be retried", func(t *testing.T) {
		log := newPendingLog()
		require.NoError(t, log.MarkUploading(now))
		assert.ErrorIs(t, log.ResetForRetry(), domain.ErrInvalidTransition)
	})
}

func TestLogStatus_RetryingEquivalentToPending(t *testing.T) {
	log := newPendingLog()
	now := time.Now()
	require.NoError(t, log.MarkUploading(now))
	require.NoError(t, log.MarkFailed("boom", now))

	assert.True(t, domain.LogStatusFailed.CanTransition(domain.LogStatusRetrying))
	assert.True(t, domain.LogStatusRetrying.CanTransition(domain.LogStatusUploading))
	assert.False(t, domain.LogStatusRetrying.CanTransition(domain.LogStatusSuccess))
}

func TestDeriveSessionStatus(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		completed int
		failed    int
		want      domain.SessionStatus
	}{
		{"fresh session", 3, 0, 0, domain.SessionStatusInProgress},
		{"partially done", 3, 1, 0, domain.SessionStatusInProgress},
		{"some failed but not settled", 3, 1, 1, domain.SessionStatusInProgress},
		{"all completed", 3, 3, 0, domain.SessionStatusCompleted},
		{"all failed", 3, 0, 3, domain.SessionStatusFailed},
		{"mixed outcome", 3, 2, 1, domain.SessionStatusPartiallyFailed},
		{"single file success", 1, 1, 0, domain.SessionStatusCompleted},
		{"single file failure", 1, 0, 1, domain.SessionStatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.DeriveSessionStatus(tt.total, tt.completed, tt.failed))
		})
	}
}

func TestDeriveSessionStatus_PureOverAllCounterStates(t *testing.T) {
	// Exhaustively check the invariant mapping for a small batch: the status
	// must be a pure function of the counters with no other legal outcomes.
	total := 5
	for completed := 0; completed <= total; completed++ {
		for failed := 0; completed+failed <= total; failed++ {
			got := domain.DeriveSessionStatus(total, completed, failed)
			switch {
			case completed == total:
				assert.Equal(t, domain.SessionStatusCompleted, got)
			case failed == total:
				assert.Equal(t, domain.SessionStatusFailed, got)
			case failed > 0 && completed+failed == total:
				assert.Equal(t, domain.SessionStatusPartiallyFailed, got)
			default:
				assert.Equal(t, domain.SessionStatusInProgress, got)
			}
		}
	}
}
