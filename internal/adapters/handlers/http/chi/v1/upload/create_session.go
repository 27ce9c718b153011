package upload

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// V1CreateSessionRequest is the request to declare an upload batch
type V1CreateSessionRequest struct {
	RoomID     uuid.UUID `json:"room_id"`
	UserName   string    `json:"user_name"`
	TotalFiles int       `json:"total_files"`
}

func (h *HandlerV1) CreateSessionV1(w http.ResponseWriter, r *http.Request) {

	var req V1CreateSessionRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("error decoding create session request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.RoomID == uuid.Nil || strings.TrimSpace(req.UserName) == "" {
		http.Error(w, "missing param", http.StatusBadRequest)
		return
	}

	session, err := h.uploadService.CreateSession(r.Context(), req.RoomID, req.UserName, req.TotalFiles)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(toSessionResponse(session)); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}
