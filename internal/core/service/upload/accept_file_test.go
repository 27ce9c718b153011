package upload_test

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"triphoto/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadService_AcceptFile_StandalonePNG(t *testing.T) {
	// Arrange
	ctx := context.Background()
	env := newTestEnv(t, defaultUploadCfg())
	roomID := env.seedRoom(t)
	content := pngBytes(t, 1)

	// Act
	photo, err := env.svc.AcceptFile(ctx, nil, roomID, "alice", bytes.NewReader(content), "beach.png", "image/png", int64(len(content)))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, roomID, photo.RoomID)
	assert.Equal(t, "beach.png", photo.OriginalFilename)
	assert.Equal(t, "alice", photo.UploaderName)
	assert.Equal(t, "image/png", photo.MimeType)
	assert.Equal(t, int64(len(content)), photo.FileSize)
	assert.NotEmpty(t, photo.ContentHash)
	require.NotNil(t, photo.Width)
	assert.Equal(t, 16, *photo.Width)
	require.NotNil(t, photo.TakenAt)

	exists, err := env.storage.Exists(ctx, photo.FilePath)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NotNil(t, photo.ThumbnailPath)
	exists, err = env.storage.Exists(ctx, *photo.ThumbnailPath)
	require.NoError(t, err)
	assert.True(t, exists)

	stored, err := env.svc.GetPhoto(ctx, roomID, photo.ID)
	require.NoError(t, err)
	assert.Equal(t, photo.ContentHash, stored.ContentHash)
}

func TestUploadService_AcceptFile_WithLogUpdatesSession(t *testing.T) {
	// Arrange
	ctx := context.Background()
	env := newTestEnv(t, defaultUploadCfg())
	roomID := env.seedRoom(t)
	session, err := env.svc.CreateSession(ctx, roomID, "alice", 2)
	require.NoError(t, err)
	log, err := env.svc.CreateLog(ctx, session.ID, "one.png", 0, "image/png")
	require.NoError(t, err)
	content := pngBytes(t, 2)

	// Act
	photo, err := env.svc.AcceptFile(ctx, &log.ID, roomID, "alice", bytes.NewReader(content), "one.png", "image/png", int64(len(content)))

	// Assert
	require.NoError(t, err)

	logs, err := env.svc.ListSessionLogs(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.LogStatusSuccess, logs[0].Status)
	require.NotNil(t, logs[0].PhotoID)
	assert.Equal(t, photo.ID, *logs[0].PhotoID)
	assert.Nil(t, logs[0].ErrorMessage)
	require.NotNil(t, logs[0].CompletedAt)

	updated, err := env.svc.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.CompletedFiles)
	assert.Equal(t, 0, updated.FailedFiles)
	assert.Equal(t, domain.SessionStatusInProgress, updated.Status)
	assert.Nil(t, updated.CompletedAt)
}

func TestUploadService_AcceptFile_DuplicateLeavesNoOrphans(t *testing.T) {
	// Arrange
	ctx := context.Background()
	env := newTestEnv(t, defaultUploadCfg())
	roomID := env.seedRoom(t)
	content := pngBytes(t, 3)

	_, err := env.svc.AcceptFile(ctx, nil, roomID, "alice", bytes.NewReader(content), "dup.png", "image/png", int64(len(content)))
	require.NoError(t, err)
	storedBefore := countStoredFiles(t, env.storageRoot)

	// Act
	_, err = env.svc.AcceptFile(ctx, nil, roomID, "alice", bytes.NewReader(content), "dup-again.png", "image/png", int64(len(content)))

	// Assert
	assert.ErrorIs(t, err, domain.ErrDuplicateUpload)
	assert.Equal(t, storedBefore, countStoredFiles(t, env.storageRoot))
}

func TestUploadService_AcceptFile_SameContentDifferentUploaderIsAllowed(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, defaultUploadCfg())
	roomID := env.seedRoom(t)
	content := pngBytes(t, 4)

	_, err := env.svc.AcceptFile(ctx, nil, roomID, "alice", bytes.NewReader(content), "shared.png", "image/png", int64(len(content)))
	require.NoError(t, err)

	_, err = env.svc.AcceptFile(ctx, nil, roomID, "bob", bytes.NewReader(content), "shared.png", "image/png", int64(len(content)))
	assert.NoError(t, err)
}

func TestUploadService_AcceptFile_UnknownRoom(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, defaultUploadCfg())
	content := pngBytes(t, 5)

	_, err := env.svc.AcceptFile(ctx, nil, uuid.New(), "alice", bytes.NewReader(content), "a.png", "image/png", int64(len(content)))

	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestUploadService_AcceptFile_RejectsDisallowedExtension(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, defaultUploadCfg())
	roomID := env.seedRoom(t)

	_, err := env.svc.AcceptFile(ctx, nil, roomID, "alice", strings.NewReader("binary"), "tool.exe", "application/octet-stream", 6)

	assert.ErrorIs(t, err, domain.ErrInvalidFileType)
}

func TestUploadService_AcceptFile_RejectsOversizedDeclaration(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, defaultUploadCfg())
	roomID := env.seedRoom(t)

	_, err := env.svc.AcceptFile(ctx, nil, roomID, "alice", strings.NewReader("x"), "big.jpg", "image/jpeg", 11<<20)

	assert.ErrorIs(t, err, domain.ErrFileSizeTooBig)
}

func TestUploadService_AcceptFile_SizeCeilingChecksStagedBytes(t *testing.T) {
	// The declared size passes the cap but the actual body exceeds the hard
	// ceiling; the staged bytes decide.
	ctx := context.Background()
	cfg := defaultUploadCfg()
	cfg.ScanMaxSize = 10
	env := newTestEnv(t, cfg)
	roomID := env.seedRoom(t)

	_, err := env.svc.AcceptFile(ctx, nil, roomID, "alice", strings.NewReader("twenty bytes or more"), "sneaky.jpg", "image/jpeg", 5)

	assert.ErrorIs(t, err, domain.ErrSecurityRejected)
	assert.Zero(t, countStoredFiles(t, env.storageRoot))
}

func TestUploadService_AcceptFile_RejectsScriptContent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, defaultUploadCfg())
	roomID := env.seedRoom(t)
	payload := "<?php system($_GET['cmd']); ?>"

	_, err := env.svc.AcceptFile(ctx, nil, roomID, "alice", strings.NewReader(payload), "innocent.jpg", "image/jpeg", int64(len(payload)))

	assert.ErrorIs(t, err, domain.ErrSecurityRejected)
	assert.Zero(t, countStoredFiles(t, env.storageRoot))
}

func TestUploadService_AcceptFile_HeicWithoutCodecFailsLog(t *testing.T) {
	// Arrange
	ctx := context.Background()
	env := newTestEnv(t, defaultUploadCfg())
	roomID := env.seedRoom(t)
	session, err := env.svc.CreateSession(ctx, roomID, "alice", 1)
	require.NoError(t, err)
	log, err := env.svc.CreateLog(ctx, session.ID, "live.heic", 0, "image/heic")
	require.NoError(t, err)

	// Act
	_, err = env.svc.AcceptFile(ctx, &log.ID, roomID, "alice", strings.NewReader("heic bytes"), "live.heic", "image/heic", 10)

	// Assert
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	assert.Zero(t, countStoredFiles(t, env.storageRoot))

	logs, err := env.svc.ListSessionLogs(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.LogStatusFailed, logs[0].Status)
	require.NotNil(t, logs[0].ErrorMessage)
	assert.NotEmpty(t, *logs[0].ErrorMessage)

	updated, err := env.svc.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.FailedFiles)
	assert.Equal(t, domain.SessionStatusFailed, updated.Status)
	require.NotNil(t, updated.CompletedAt)
}

func TestUploadService_AcceptFile_UndecodableImageStillAccepted(t *testing.T) {
	// A file with an allowed extension but unreadable pixel data keeps its
	// bytes; it just loses dimensions and mime detection.
	ctx := context.Background()
	env := newTestEnv(t, defaultUploadCfg())
	roomID := env.seedRoom(t)
	payload := "looks like nothing the decoders know"

	photo, err := env.svc.AcceptFile(ctx, nil, roomID, "alice", strings.NewReader(payload), "odd.gif", "image/gif", int64(len(payload)))

	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", photo.MimeType)
	assert.Nil(t, photo.Width)
	assert.Nil(t, photo.Height)
	assert.Nil(t, photo.ThumbnailPath)
}

func TestUploadService_AcceptFile_ConcurrentBatchCompletesSession(t *testing.T) {
	// Arrange
	ctx := context.Background()
	env := newTestEnv(t, defaultUploadCfg())
	roomID := env.seedRoom(t)

	const total = 8
	session, err := env.svc.CreateSession(ctx, roomID, "alice", total)
	require.NoError(t, err)

	logIDs := make([]uuid.UUID, total)
	payloads := make([][]byte, total)
	for i := 0; i < total; i++ {
		log, err := env.svc.CreateLog(ctx, session.ID, "batch.png", 0, "image/png")
		require.NoError(t, err)
		logIDs[i] = log.ID
		payloads[i] = pngBytes(t, 100+i)
	}

	// Act
	var wg sync.WaitGroup
	errs := make([]error, total)
	for i := 0; i < total; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.svc.AcceptFile(ctx, &logIDs[i], roomID, "alice", bytes.NewReader(payloads[i]), "batch.png", "image/png", int64(len(payloads[i])))
		}(i)
	}
	wg.Wait()

	// Assert
	for i, err := range errs {
		require.NoError(t, err, "upload %d", i)
	}

	updated, err := env.svc.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, total, updated.CompletedFiles)
	assert.Equal(t, 0, updated.FailedFiles)
	assert.Equal(t, domain.SessionStatusCompleted, updated.Status)
	require.NotNil(t, updated.CompletedAt)
}

func TestUploadService_GetPhoto_WrongRoomIsNotFound(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, defaultUploadCfg())
	roomID := env.seedRoom(t)
	otherRoom := env.seedRoom(t)
	content := pngBytes(t, 6)

	photo, err := env.svc.AcceptFile(ctx, nil, roomID, "alice", bytes.NewReader(content), "scoped.png", "image/png", int64(len(content)))
	require.NoError(t, err)

	_, err = env.svc.GetPhoto(ctx, otherRoom, photo.ID)
	assert.ErrorIs(t, err, domain.ErrPhotoNotFound)
}
