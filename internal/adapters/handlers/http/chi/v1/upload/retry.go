package upload

import (
	"encoding/json"
	"net/http"

	"triphoto/internal/core/domain"

	"github.com/google/uuid"
)

// V1RetryRequest is the request to re-queue failed uploads
type V1RetryRequest struct {
	LogIDs []uuid.UUID `json:"log_ids"`
}

// V1RetryResponse is the post-retry state of the affected session
type V1RetryResponse struct {
	SessionID         uuid.UUID       `json:"session_id"`
	TotalFiles        int             `json:"total_files"`
	SuccessfulUploads int             `json:"successful_uploads"`
	FailedUploads     int             `json:"failed_uploads"`
	PendingUploads    int             `json:"pending_uploads"`
	Logs              []V1LogResponse `json:"logs"`
}

func (h *HandlerV1) RetryV1(w http.ResponseWriter, r *http.Request) {

	var req V1RetryRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("error decoding retry request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	summary, err := h.uploadService.Retry(r.Context(), req.LogIDs)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	resp := toRetryResponse(summary)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}

func toRetryResponse(summary *domain.RetrySummary) V1RetryResponse {
	return V1RetryResponse{
		SessionID:         summary.SessionID,
		TotalFiles:        summary.TotalFiles,
		SuccessfulUploads: summary.SuccessfulUploads,
		FailedUploads:     summary.FailedUploads,
		PendingUploads:    summary.PendingUploads,
		Logs:              toLogResponses(summary.Logs),
	}
}
