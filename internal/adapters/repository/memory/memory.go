// Package memory provides a map-backed unit of work. It backs service tests
// and single-node development runs where postgres is overkill.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"triphoto/internal/core/domain"
	"triphoto/internal/core/port"

	"github.com/google/uuid"
)

type store struct {
	mu       sync.RWMutex
	txMu     sync.Mutex
	rooms    map[uuid.UUID]domain.Room
	photos   map[uuid.UUID]domain.Photo
	sessions map[uuid.UUID]domain.UploadSession
	logs     map[uuid.UUID]domain.UploadLog
}

// UnitOfWork is an in-memory implementation of port.UnitOfWork. Execute
// serializes transactions on a single lock, which is the strongest isolation
// level and therefore a valid stand-in for the postgres implementation.
type UnitOfWork struct {
	store *store
}

func NewUnitOfWork() *UnitOfWork {
	return &UnitOfWork{store: &store{
		rooms:    make(map[uuid.UUID]domain.Room),
		photos:   make(map[uuid.UUID]domain.Photo),
		sessions: make(map[uuid.UUID]domain.UploadSession),
		logs:     make(map[uuid.UUID]domain.UploadLog),
	}}
}

func (u *UnitOfWork) Execute(ctx context.Context, fn func(uow port.UnitOfWork) error) error {
	u.store.txMu.Lock()
	defer u.store.txMu.Unlock()
	return fn(u)
}

func (u *UnitOfWork) RoomRepo() port.RoomRepository                 { return &roomRepo{store: u.store} }
func (u *UnitOfWork) PhotoRepo() port.PhotoRepository               { return &photoRepo{store: u.store} }
func (u *UnitOfWork) UploadSessionRepo() port.UploadSessionRepository {
	return &sessionRepo{store: u.store}
}
func (u *UnitOfWork) UploadLogRepo() port.UploadLogRepository { return &logRepo{store: u.store} }

// AddRoom seeds a room directly. Room CRUD is out of scope for the upload
// core, so there is no repository operation for it.
func (u *UnitOfWork) AddRoom(room domain.Room) {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	u.store.rooms[room.ID] = room
}

type roomRepo struct {
	store *store
}

func (r *roomRepo) ExistsActive(ctx context.Context, id uuid.UUID) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	room, ok := r.store.rooms[id]
	return ok && room.IsActive, nil
}

type photoRepo struct {
	store *store
}

func (r *photoRepo) Insert(ctx context.Context, photo domain.Photo) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.photos {
		if existing.RoomID == photo.RoomID &&
			existing.UploaderName == photo.UploaderName &&
			existing.ContentHash == photo.ContentHash {
			return fmt.Errorf("%w: content already present", domain.ErrDuplicateUpload)
		}
	}
	r.store.photos[photo.ID] = photo
	return nil
}

func (r *photoRepo) FindDuplicate(ctx context.Context, roomID uuid.UUID, uploaderName, contentHash string) (*domain.Photo, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, photo := range r.store.photos {
		if photo.RoomID == roomID && photo.UploaderName == uploaderName && photo.ContentHash == contentHash {
			found := photo
			return &found, nil
		}
	}
	return nil, domain.ErrPhotoNotFound
}

func (r *photoRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Photo, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	photo, ok := r.store.photos[id]
	if !ok {
		return nil, domain.ErrPhotoNotFound
	}
	return &photo, nil
}

type sessionRepo struct {
	store *store
}

func (r *sessionRepo) Create(ctx context.Context, session domain.UploadSession) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.sessions[session.ID] = session
	return nil
}

func (r *sessionRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.UploadSession, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	session, ok := r.store.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &session, nil
}

func (r *sessionRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.UploadSession, error) {
	// Row locking is a no-op here; Execute already serializes transactions.
	return r.FindByID(ctx, id)
}

func (r *sessionRepo) UpdateCounters(ctx context.Context, id uuid.UUID, completedFiles, failedFiles int, status domain.SessionStatus, completedAt *time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	session, ok := r.store.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.CompletedFiles = completedFiles
	session.FailedFiles = failedFiles
	session.Status = status
	session.CompletedAt = completedAt
	r.store.sessions[id] = session
	return nil
}

type logRepo struct {
	store *store
}

func (r *logRepo) Create(ctx context.Context, log domain.UploadLog) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.logs[log.ID] = log
	return nil
}

func (r *logRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.UploadLog, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	log, ok := r.store.logs[id]
	if !ok {
		return nil, domain.ErrLogNotFound
	}
	return &log, nil
}

func (r *logRepo) Update(ctx context.Context, log domain.UploadLog) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.logs[log.ID]; !ok {
		return domain.ErrLogNotFound
	}
	r.store.logs[log.ID] = log
	return nil
}

func (r *logRepo) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.UploadLog, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var logs []domain.UploadLog
	for _, log := range r.store.logs {
		if log.SessionID == sessionID {
			logs = append(logs, log)
		}
	}
	sort.Slice(logs, func(i, j int) bool {
		if logs[i].StartedAt.Equal(logs[j].StartedAt) {
			return logs[i].ID.String() < logs[j].ID.String()
		}
		return logs[i].StartedAt.Before(logs[j].StartedAt)
	})
	return logs, nil
}

func (r *logRepo) CountOutcomes(ctx context.Context, sessionID uuid.UUID) (int, int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var completed, failed int
	for _, log := range r.store.logs {
		if log.SessionID != sessionID {
			continue
		}
		switch log.Status {
		case domain.LogStatusSuccess:
			completed++
		case domain.LogStatusFailed:
			failed++
		}
	}
	return completed, failed, nil
}

func (r *logRepo) FindStuckUploading(ctx context.Context, olderThan time.Time) ([]domain.UploadLog, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var stuck []domain.UploadLog
	for _, log := range r.store.logs {
		if log.Status == domain.LogStatusUploading && log.StartedAt.Before(olderThan) {
			stuck = append(stuck, log)
		}
	}
	return stuck, nil
}
