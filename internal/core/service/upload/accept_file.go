package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"triphoto/internal/core/domain"
	"triphoto/internal/core/port"
	"triphoto/internal/core/service/identity"

	"github.com/google/uuid"
)

// stageChunkSize bounds the memory held per in-flight upload while spooling
// the request body to disk.
const stageChunkSize = 32 * 1024

// AcceptFile runs the full intake pipeline for one file: stage, scan,
// normalize, fingerprint, dedup, thumbnail, store, persist. When logID is
// given the outcome is recorded on that log and the owning session is
// recounted; without it the file is processed standalone.
func (s *uploadService) AcceptFile(
	ctx context.Context,
	logID *uuid.UUID,
	roomID uuid.UUID,
	uploaderName string,
	file io.Reader,
	declaredFilename, declaredMimeType string,
	declaredSize int64,
) (*domain.Photo, error) {
	exists, err := s.uow.RoomRepo().ExistsActive(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrRoomNotFound, roomID)
	}

	var logRecord *domain.UploadLog
	if logID != nil {
		logRecord, err = s.beginLog(ctx, *logID)
		if err != nil {
			return nil, err
		}
	}

	photo, procErr := s.processFile(ctx, roomID, uploaderName, file, declaredFilename, declaredMimeType, declaredSize)

	if logRecord != nil {
		if procErr != nil {
			s.failLog(ctx, logRecord, procErr)
		} else if err := s.completeLog(ctx, logRecord, photo.ID); err != nil {
			// The photo is persisted but the log is stuck in uploading; the
			// reconciliation pass will time it out.
			return nil, err
		}
	}

	return photo, procErr
}

// beginLog moves the log into uploading before any bytes are read, so an
// abandoned connection leaves a visible in-flight record.
func (s *uploadService) beginLog(ctx context.Context, logID uuid.UUID) (*domain.UploadLog, error) {
	var logRecord *domain.UploadLog
	err := s.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		found, err := uow.UploadLogRepo().FindByID(ctx, logID)
		if err != nil {
			return err
		}
		if err := found.MarkUploading(time.Now()); err != nil {
			return err
		}
		if err := uow.UploadLogRepo().Update(ctx, *found); err != nil {
			return err
		}
		logRecord = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return logRecord, nil
}

func (s *uploadService) completeLog(ctx context.Context, logRecord *domain.UploadLog, photoID uuid.UUID) error {
	now := time.Now()
	err := s.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		if err := logRecord.MarkSuccess(photoID, now); err != nil {
			return err
		}
		if err := uow.UploadLogRepo().Update(ctx, *logRecord); err != nil {
			return err
		}
		_, err := s.recountSession(ctx, uow, logRecord.SessionID, now)
		return err
	})
	if err != nil {
		return err
	}

	s.publishEvent(ctx, domain.UploadEvent{
		Type:       domain.UploadEventCompleted,
		SessionID:  logRecord.SessionID,
		LogID:      logRecord.ID,
		RoomID:     logRecord.RoomID,
		PhotoID:    &photoID,
		OccurredAt: now,
	})
	return nil
}

// failLog records a processing failure. It runs on a cancellation-free context
// because the failure being recorded is often the cancellation itself.
func (s *uploadService) failLog(ctx context.Context, logRecord *domain.UploadLog, cause error) {
	ctx = context.WithoutCancel(ctx)
	now := time.Now()
	err := s.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		if err := logRecord.MarkFailed(cause.Error(), now); err != nil {
			return err
		}
		if err := uow.UploadLogRepo().Update(ctx, *logRecord); err != nil {
			return err
		}
		_, err := s.recountSession(ctx, uow, logRecord.SessionID, now)
		return err
	})
	if err != nil {
		s.logger.Error("failed to record upload failure",
			"log_id", logRecord.ID,
			"cause", cause,
			"error", err,
		)
		return
	}

	s.publishEvent(ctx, domain.UploadEvent{
		Type:       domain.UploadEventFailed,
		SessionID:  logRecord.SessionID,
		LogID:      logRecord.ID,
		RoomID:     logRecord.RoomID,
		Error:      cause.Error(),
		OccurredAt: now,
	})
}

func (s *uploadService) processFile(
	ctx context.Context,
	roomID uuid.UUID,
	uploaderName string,
	file io.Reader,
	declaredFilename, declaredMimeType string,
	declaredSize int64,
) (*domain.Photo, error) {
	ext := strings.ToLower(filepath.Ext(declaredFilename))
	if _, ok := s.cfg.AllowedExtensionSet()[ext]; !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidFileType, ext)
	}
	if declaredSize > s.cfg.MaxFileSize {
		return nil, fmt.Errorf("%w: declared %d bytes, limit is %d", domain.ErrFileSizeTooBig, declaredSize, s.cfg.MaxFileSize)
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.sem.Release(1)

	fileID := uuid.New()
	stageDir := filepath.Join(s.stagingDir, fileID.String())
	if err := os.MkdirAll(stageDir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	// Everything written during processing lives under stageDir; this is the
	// single cleanup point for all intermediate artifacts.
	defer os.RemoveAll(stageDir)

	stagedPath := filepath.Join(stageDir, fileID.String()+ext)
	if err := stageFile(stagedPath, file); err != nil {
		return nil, err
	}

	if err := s.scanStagedFile(stagedPath); err != nil {
		return nil, err
	}

	normalized, err := s.normalizer.Normalize(stagedPath, declaredFilename, declaredMimeType)
	if err != nil {
		return nil, err
	}

	id, err := identity.Inspect(normalized.Path)
	if err != nil {
		return nil, err
	}
	mimeType := id.MimeType
	if normalized.Converted {
		mimeType = normalized.MimeType
	}

	// Capture time comes from the untouched source; conversion may strip EXIF.
	takenAt := s.normalizer.TakenAt(stagedPath)

	if existing, err := s.uow.PhotoRepo().FindDuplicate(ctx, roomID, uploaderName, id.ContentHash); err == nil {
		return nil, fmt.Errorf("%w: already uploaded as %q", domain.ErrDuplicateUpload, existing.OriginalFilename)
	} else if !errors.Is(err, domain.ErrPhotoNotFound) {
		return nil, err
	}

	finalName := fileID.String() + normalized.Extension
	relPath := path.Join(roomID.String(), finalName)
	thumbName := "thumb_" + fileID.String() + ".jpg"

	var thumbRel *string
	thumbStaged := filepath.Join(stageDir, thumbName)
	if err := s.normalizer.Thumbnail(normalized.Path, thumbStaged); err != nil {
		// Thumbnails are best-effort; the photo is still accepted.
		s.logger.Warn("thumbnail generation failed", "file_id", fileID, "error", err)
	} else {
		rel := path.Join(roomID.String(), thumbName)
		thumbRel = &rel
	}

	if err := s.putFile(ctx, relPath, normalized.Path); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}
	if thumbRel != nil {
		if err := s.putFile(ctx, *thumbRel, thumbStaged); err != nil {
			s.logger.Warn("thumbnail store failed", "file_id", fileID, "error", err)
			thumbRel = nil
		}
	}

	photo := domain.Photo{
		ID:               fileID,
		RoomID:           roomID,
		Filename:         finalName,
		OriginalFilename: declaredFilename,
		UploaderName:     uploaderName,
		FilePath:         relPath,
		ThumbnailPath:    thumbRel,
		FileSize:         id.Size,
		MimeType:         mimeType,
		ContentHash:      id.ContentHash,
		Width:            id.Width,
		Height:           id.Height,
		TakenAt:          &takenAt,
		UploadedAt:       time.Now(),
	}

	err = s.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		return uow.PhotoRepo().Insert(ctx, photo)
	})
	if err != nil {
		// Losing the race on the dedup key or any other insert failure must
		// not leave orphaned files behind.
		s.removeStored(ctx, relPath, thumbRel)
		return nil, err
	}

	return &photo, nil
}

func stageFile(path string, r io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create staged file: %w", err)
	}
	defer f.Close()

	buf := make([]byte, stageChunkSize)
	if _, err := io.CopyBuffer(f, r, buf); err != nil {
		return fmt.Errorf("stage upload: %w", err)
	}
	return nil
}

func (s *uploadService) putFile(ctx context.Context, relPath, localPath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return s.storage.Put(ctx, relPath, f)
}

func (s *uploadService) removeStored(ctx context.Context, relPath string, thumbRel *string) {
	ctx = context.WithoutCancel(ctx)
	if err := s.storage.Delete(ctx, relPath); err != nil {
		s.logger.Warn("failed to remove stored file after insert failure", "path", relPath, "error", err)
	}
	if thumbRel != nil {
		if err := s.storage.Delete(ctx, *thumbRel); err != nil {
			s.logger.Warn("failed to remove stored thumbnail after insert failure", "path", *thumbRel, "error", err)
		}
	}
}
