package photo

import (
	"errors"
	"log/slog"
	"net/http"

	"triphoto/internal/core/domain"
	"triphoto/internal/core/port"

	"github.com/go-chi/chi/v5"
)

// HandlerV1 is the handler for v1 room photo routes
type HandlerV1 struct {
	uploadService port.UploadService
	storage       port.FileStorage
	logger        *slog.Logger
}

// NewPhotoHandlerV1 creates HandlerV1
func NewPhotoHandlerV1(service port.UploadService, storage port.FileStorage, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		uploadService: service,
		storage:       storage,
		logger:        logger,
	}
}

// Routes exposes handler routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/{roomID}/photos", h.UploadPhotoV1)
	router.Get("/{roomID}/photos/{photoID}/download", h.DownloadPhotoV1)

	return router
}

func (h *HandlerV1) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound),
		errors.Is(err, domain.ErrLogNotFound),
		errors.Is(err, domain.ErrPhotoNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidFileType),
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
