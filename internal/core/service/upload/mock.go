package upload

import (
	"context"
	"io"

	"triphoto/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUploadService is a mock implementation of UploadService
type MockUploadService struct {
	mock.Mock
}

// NewMockUploadService creates a new MockUploadService
func NewMockUploadService() *MockUploadService {
	return &MockUploadService{}
}

func (m *MockUploadService) CreateSession(ctx context.Context, roomID uuid.UUID, userName string, totalFiles int) (*domain.UploadSession, error) {
	args := m.Called(ctx, roomID, userName, totalFiles)
	return args.Get(0).(*domain.UploadSession), args.Error(1)
}

func (m *MockUploadService) GetSession(ctx context.Context, sessionID uuid.UUID) (*domain.UploadSession, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(*domain.UploadSession), args.Error(1)
}

func (m *MockUploadService) CreateLog(ctx context.Context, sessionID uuid.UUID, originalFilename string, fileSize int64, mimeType string) (*domain.UploadLog, error) {
	args := m.Called(ctx, sessionID, originalFilename, fileSize, mimeType)
	return args.Get(0).(*domain.UploadLog), args.Error(1)
}

func (m *MockUploadService) UpdateLog(ctx context.Context, logID uuid.UUID, to domain.LogStatus, photoID *uuid.UUID, errorMessage string) (*domain.UploadLog, error) {
	args := m.Called(ctx, logID, to, photoID, errorMessage)
	return args.Get(0).(*domain.UploadLog), args.Error(1)
}

func (m *MockUploadService) ListSessionLogs(ctx context.Context, sessionID uuid.UUID) ([]domain.UploadLog, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).([]domain.UploadLog), args.Error(1)
}

func (m *MockUploadService) AcceptFile(ctx context.Context, logID *uuid.UUID, roomID uuid.UUID, uploaderName string, file io.Reader, declaredFilename, declaredMimeType string, declaredSize int64) (*domain.Photo, error) {
	args := m.Called(ctx, logID, roomID, uploaderName, file, declaredFilename, declaredMimeType, declaredSize)
	return args.Get(0).(*domain.Photo), args.Error(1)
}

func (m *MockUploadService) Retry(ctx context.Context, logIDs []uuid.UUID) (*domain.RetrySummary, error) {
	args := m.Called(ctx, logIDs)
	return args.Get(0).(*domain.RetrySummary), args.Error(1)
}

func (m *MockUploadService) GetPhoto(ctx context.Context, roomID, photoID uuid.UUID) (*domain.Photo, error) {
	args := m.Called(ctx, roomID, photoID)
	return args.Get(0).(*domain.Photo), args.Error(1)
}
