package upload_test

import (
	"bytes"
	"encoding/json"
	httpgo "net/http"
	"net/http/httptest"
	"testing"

	uploadhandler "triphoto/internal/adapters/handlers/http/chi/v1/upload"
	"triphoto/internal/core/domain"
	uploadservice "triphoto/internal/core/service/upload"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRetryV1_Success(t *testing.T) {

	//Arrange
	sessionID := uuid.New()
	logID := uuid.New()
	summary := &domain.RetrySummary{
		SessionID:         sessionID,
		TotalFiles:        3,
		SuccessfulUploads: 2,
		PendingUploads:    1,
		Logs: []domain.UploadLog{
			{ID: logID, SessionID: sessionID, Status: domain.LogStatusPending},
		},
	}
	mockService := uploadservice.NewMockUploadService()
	mockService.On("Retry", mock.Anything, []uuid.UUID{logID}).Return(summary, nil)

	h := newTestRouter(mockService)
	w := httptest.NewRecorder()

	requestBody := uploadhandler.V1RetryRequest{LogIDs: []uuid.UUID{logID}}
	jsonBody, err := json.Marshal(requestBody)
	require.NoError(t, err)
	req := httptest.NewRequest(httpgo.MethodPost, "/api/v1/uploads/retry", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	//Act
	h.ServeHTTP(w, req)

	//Assert
	assert.Equal(t, httpgo.StatusOK, w.Code)
	var resp uploadhandler.V1RetryResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, sessionID, resp.SessionID)
	assert.Equal(t, 3, resp.TotalFiles)
	assert.Equal(t, 2, resp.SuccessfulUploads)
	assert.Zero(t, resp.FailedUploads)
	assert.Equal(t, 1, resp.PendingUploads)
	require.Len(t, resp.Logs, 1)
	assert.Equal(t, "pending", resp.Logs[0].Status)
	mockService.AssertExpectations(t)
}

func TestRetryV1_Error(t *testing.T) {

	t.Run("No known logs", func(t *testing.T) {

		//Arrange
		logID := uuid.New()
		mockService := uploadservice.NewMockUploadService()
		mockService.On("Retry", mock.Anything, []uuid.UUID{logID}).
			Return((*domain.RetrySummary)(nil), domain.ErrLogNotFound)

		h := newTestRouter(mockService)
		w := httptest.NewRecorder()

		requestBody := uploadhandler.V1RetryRequest{LogIDs: []uuid.UUID{logID}}
		jsonBody, err := json.Marshal(requestBody)
		require.NoError(t, err)
		req := httptest.NewRequest(httpgo.MethodPost, "/api/v1/uploads/retry", bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")

		//Act
		h.ServeHTTP(w, req)

		//Assert
		assert.Equal(t, httpgo.StatusNotFound, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Empty batch", func(t *testing.T) {

		//Arrange
		mockService := uploadservice.NewMockUploadService()
		mockService.On("Retry", mock.Anything, []uuid.UUID(nil)).
			Return((*domain.RetrySummary)(nil), domain.ErrInvalidBatchSize)

		h := newTestRouter(mockService)
		w := httptest.NewRecorder()

		req := httptest.NewRequest(httpgo.MethodPost, "/api/v1/uploads/retry", bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Content-Type", "application/json")

		//Act
		h.ServeHTTP(w, req)

		//Assert
		assert.Equal(t, httpgo.StatusBadRequest, w.Code)
		mockService.AssertExpectations(t)
	})
}
