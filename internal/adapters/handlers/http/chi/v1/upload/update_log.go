package upload

import (
	"encoding/json"
	"net/http"

	"triphoto/internal/core/domain"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// V1UpdateLogRequest is the request to report a log status transition
type V1UpdateLogRequest struct {
	Status       string     `json:"status"`
	PhotoID      *uuid.UUID `json:"photo_id,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
}

func (h *HandlerV1) UpdateLogV1(w http.ResponseWriter, r *http.Request) {

	logID, err := uuid.Parse(chi.URLParam(r, "logID"))
	if err != nil {
		http.Error(w, "invalid log id", http.StatusBadRequest)
		return
	}

	var req V1UpdateLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("error decoding update log request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Status == "" {
		http.Error(w, "missing param", http.StatusBadRequest)
		return
	}

	log, err := h.uploadService.UpdateLog(r.Context(), logID, domain.LogStatus(req.Status), req.PhotoID, req.ErrorMessage)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(toLogResponse(log)); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}
