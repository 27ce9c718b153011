package upload

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

// V1CreateLogRequest is the request to register one intended file in a session
type V1CreateLogRequest struct {
	SessionID        uuid.UUID `json:"session_id"`
	OriginalFilename string    `json:"original_filename"`
	FileSize         int64     `json:"file_size"`
	MimeType         string    `json:"mime_type"`
}

func (h *HandlerV1) CreateLogV1(w http.ResponseWriter, r *http.Request) {

	var req V1CreateLogRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("error decoding create log request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.SessionID == uuid.Nil || req.OriginalFilename == "" {
		http.Error(w, "missing param", http.StatusBadRequest)
		return
	}

	log, err := h.uploadService.CreateLog(r.Context(), req.SessionID, req.OriginalFilename, req.FileSize, req.MimeType)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(toLogResponse(log)); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}
