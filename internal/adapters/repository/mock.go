package repository

import (
	"context"
	"time"

	"triphoto/internal/core/domain"
	"triphoto/internal/core/port"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockRoomRepository struct {
	mock.Mock
}

func NewMockRoomRepository() *MockRoomRepository {
	return &MockRoomRepository{}
}

func (m *MockRoomRepository) ExistsActive(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockPhotoRepository struct {
	mock.Mock
}

func NewMockPhotoRepository() *MockPhotoRepository {
	return &MockPhotoRepository{}
}

func (m *MockPhotoRepository) Insert(ctx context.Context, photo domain.Photo) error {
	args := m.Called(ctx, photo)
	return args.Error(0)
}

func (m *MockPhotoRepository) FindDuplicate(ctx context.Context, roomID uuid.UUID, uploaderName, contentHash string) (*domain.Photo, error) {
	args := m.Called(ctx, roomID, uploaderName, contentHash)
	return args.Get(0).(*domain.Photo), args.Error(1)
}

func (m *MockPhotoRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Photo, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.Photo), args.Error(1)
}

type MockUploadSessionRepository struct {
	mock.Mock
}

func NewMockUploadSessionRepository() *MockUploadSessionRepository {
	return &MockUploadSessionRepository{}
}

func (m *MockUploadSessionRepository) Create(ctx context.Context, session domain.UploadSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockUploadSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.UploadSession, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.UploadSession), args.Error(1)
}

func (m *MockUploadSessionRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.UploadSession, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.UploadSession), args.Error(1)
}

func (m *MockUploadSessionRepository) UpdateCounters(ctx context.Context, id uuid.UUID, completedFiles, failedFiles int, status domain.SessionStatus, completedAt *time.Time) error {
	args := m.Called(ctx, id, completedFiles, failedFiles, status, completedAt)
	return args.Error(0)
}

type MockUploadLogRepository struct {
	mock.Mock
}

func NewMockUploadLogRepository() *MockUploadLogRepository {
	return &MockUploadLogRepository{}
}

func (m *MockUploadLogRepository) Create(ctx context.Context, log domain.UploadLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockUploadLogRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.UploadLog, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.UploadLog), args.Error(1)
}

func (m *MockUploadLogRepository) Update(ctx context.Context, log domain.UploadLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockUploadLogRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.UploadLog, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).([]domain.UploadLog), args.Error(1)
}

func (m *MockUploadLogRepository) CountOutcomes(ctx context.Context, sessionID uuid.UUID) (int, int, error) {
	args := m.Called(ctx, sessionID)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockUploadLogRepository) FindStuckUploading(ctx context.Context, olderThan time.Time) ([]domain.UploadLog, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).([]domain.UploadLog), args.Error(1)
}

type MockUnitOfWork struct {
	mock.Mock
	roomRepo          *MockRoomRepository
	photoRepo         *MockPhotoRepository
	uploadSessionRepo *MockUploadSessionRepository
	uploadLogRepo     *MockUploadLogRepository
}

func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		roomRepo:          &MockRoomRepository{},
		photoRepo:         &MockPhotoRepository{},
		uploadSessionRepo: &MockUploadSessionRepository{},
		uploadLogRepo:     &MockUploadLogRepository{},
	}
}

func (m *MockUnitOfWork) RoomRepo() port.RoomRepository {
	return m.roomRepo
}

func (m *MockUnitOfWork) PhotoRepo() port.PhotoRepository {
	return m.photoRepo
}

func (m *MockUnitOfWork) UploadSessionRepo() port.UploadSessionRepository {
	return m.uploadSessionRepo
}

func (m *MockUnitOfWork) UploadLogRepo() port.UploadLogRepository {
	return m.uploadLogRepo
}

func (m *MockUnitOfWork) Execute(ctx context.Context, fn func(uow port.UnitOfWork) error) error {
	args := m.Called(ctx, fn)

	if err := fn(m); err != nil {
		return err
	}

	return args.Error(0)
}

func (m *MockUnitOfWork) GetRoomRepoMock() *MockRoomRepository {
	return m.roomRepo
}

func (m *MockUnitOfWork) GetPhotoRepoMock() *MockPhotoRepository {
	return m.photoRepo
}

func (m *MockUnitOfWork) GetUploadSessionRepoMock() *MockUploadSessionRepository {
	return m.uploadSessionRepo
}

func (m *MockUnitOfWork) GetUploadLogRepoMock() *MockUploadLogRepository {
	return m.uploadLogRepo
}
