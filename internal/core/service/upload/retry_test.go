package upload_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"triphoto/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedMixedSession builds a session with one successful and one failed upload.
func seedMixedSession(t *testing.T, env *testEnv) (sessionID uuid.UUID, successLogID, failedLogID uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	roomID := env.seedRoom(t)

	session, err := env.svc.CreateSession(ctx, roomID, "alice", 2)
	require.NoError(t, err)

	okLog, err := env.svc.CreateLog(ctx, session.ID, "good.png", 0, "image/png")
	require.NoError(t, err)
	content := pngBytes(t, 42)
	_, err = env.svc.AcceptFile(ctx, &okLog.ID, roomID, "alice", bytes.NewReader(content), "good.png", "image/png", int64(len(content)))
	require.NoError(t, err)

	badLog, err := env.svc.CreateLog(ctx, session.ID, "bad.heic", 0, "image/heic")
	require.NoError(t, err)
	_, err = env.svc.AcceptFile(ctx, &badLog.ID, roomID, "alice", strings.NewReader("heic"), "bad.heic", "image/heic", 4)
	require.Error(t, err)

	return session.ID, okLog.ID, badLog.ID
}

func TestUploadService_Retry_ResetsFailedLogAndReopensSession(t *testing.T) {
	// Arrange
	ctx := context.Background()
	env := newTestEnv(t, defaultUploadCfg())
	sessionID, _, failedLogID := seedMixedSession(t, env)

	before, err := env.svc.GetSession(ctx, sessionID)
	require.NoError(t, err)
	require.Equal(t, domain.SessionStatusPartiallyFailed, before.Status)
	require.NotNil(t, before.CompletedAt)

	// Act
	summary, err := env.svc.Retry(ctx, []uuid.UUID{failedLogID})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, sessionID, summary.SessionID)
	assert.Equal(t, 2, summary.TotalFiles)
	assert.Equal(t, 1, summary.SuccessfulUploads)
	assert.Zero(t, summary.FailedUploads, "a just-reset log awaits its retry, it has not failed")
	assert.Equal(t, 1, summary.PendingUploads)

	logs, err := env.svc.ListSessionLogs(ctx, sessionID)
	require.NoError(t, err)
	for _, log := range logs {
		if log.ID == failedLogID {
			assert.Equal(t, domain.LogStatusPending, log.Status)
			assert.Equal(t, 1, log.RetryCount)
			assert.Nil(t, log.ErrorMessage)
			assert.Nil(t, log.CompletedAt)
		}
	}

	after, err := env.svc.GetSession(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionStatusInProgress, after.Status)
	assert.Equal(t, 0, after.FailedFiles)
	assert.Nil(t, after.CompletedAt)
}

func TestUploadService_Retry_SkipsNonFailedAndUnknownLogs(t *testing.T) {
	// Arrange
	ctx := context.Background()
	env := newTestEnv(t, defaultUploadCfg())
	sessionID, successLogID, failedLogID := seedMixedSession(t, env)

	// Act
	summary, err := env.svc.Retry(ctx, []uuid.UUID{successLogID, uuid.New(), failedLogID})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, sessionID, summary.SessionID)

	logs, err := env.svc.ListSessionLogs(ctx, sessionID)
	require.NoError(t, err)
	for _, log := range logs {
		switch log.ID {
		case successLogID:
			// Untouched: success is terminal and not retryable.
			assert.Equal(t, domain.LogStatusSuccess, log.Status)
			assert.Zero(t, log.RetryCount)
		case failedLogID:
			assert.Equal(t, domain.LogStatusPending, log.Status)
		}
	}
}

func TestUploadService_Retry_IsIdempotentOnPendingLogs(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, defaultUploadCfg())
	_, _, failedLogID := seedMixedSession(t, env)

	_, err := env.svc.Retry(ctx, []uuid.UUID{failedLogID})
	require.NoError(t, err)

	// Second retry finds the log already pending and leaves it alone.
	summary, err := env.svc.Retry(ctx, []uuid.UUID{failedLogID})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.PendingUploads)
	assert.Zero(t, summary.FailedUploads)

	logs, err := env.svc.ListSessionLogs(ctx, summary.SessionID)
	require.NoError(t, err)
	for _, log := range logs {
		if log.ID == failedLogID {
			assert.Equal(t, 1, log.RetryCount, "retry count must not grow for an already pending log")
		}
	}
}

func TestUploadService_Retry_EmptyBatch(t *testing.T) {
	env := newTestEnv(t, defaultUploadCfg())

	_, err := env.svc.Retry(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrInvalidBatchSize)
}

func TestUploadService_Retry_AllUnknownIDs(t *testing.T) {
	env := newTestEnv(t, defaultUploadCfg())

	_, err := env.svc.Retry(context.Background(), []uuid.UUID{uuid.New(), uuid.New()})

	assert.ErrorIs(t, err, domain.ErrLogNotFound)
}
