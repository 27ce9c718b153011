package upload

import (
	"errors"
	"log/slog"
	"net/http"

	"triphoto/internal/core/domain"
	"triphoto/internal/core/port"

	"github.com/go-chi/chi/v5"
)

// HandlerV1 is the handler for v1 upload routes
type HandlerV1 struct {
	uploadService port.UploadService
	logger        *slog.Logger
}

// NewUploadHandlerV1 creates HandlerV1
func NewUploadHandlerV1(service port.UploadService, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		uploadService: service,
		logger:        logger,
	}
}

// Routes exposes handler routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/sessions", h.CreateSessionV1)
	router.Get("/sessions/{sessionID}", h.GetSessionV1)
	router.Get("/sessions/{sessionID}/logs", h.ListSessionLogsV1)
	router.Post("/logs", h.CreateLogV1)
	router.Patch("/logs/{logID}", h.UpdateLogV1)
	router.Post("/retry", h.RetryV1)

	return router
}

// writeServiceError maps domain errors onto http statuses
func (h *HandlerV1) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound),
		errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrLogNotFound),
		errors.Is(err, domain.ErrPhotoNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidBatchSize),
		errors.Is(err, domain.ErrInvalidFileType),
		errors.Is(err, domain.ErrFileSizeTooBig),
		errors.Is(err, domain.ErrUnsupportedFormat),
		errors.Is(err, domain.ErrSecurityRejected),
		errors.Is(err, domain.ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrDuplicateUpload):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrStorageFailure):
		h.logger.Error("storage failure", "error", err)
		http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
	default:
		h.logger.Error("internal error", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
