package photo

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"triphoto/internal/core/domain"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// maxMultipartMemory bounds how much of the form is held in memory before
// net/http spills to temp files.
const maxMultipartMemory = 8 << 20

// V1PhotoResponse is the wire form of a stored photo
type V1PhotoResponse struct {
	ID               uuid.UUID  `json:"id"`
	RoomID           uuid.UUID  `json:"room_id"`
	Filename         string     `json:"filename"`
	OriginalFilename string     `json:"original_filename"`
	UploaderName     string     `json:"uploader_name"`
	FileSize         int64      `json:"file_size"`
	MimeType         string     `json:"mime_type"`
	ContentHash      string     `json:"content_hash"`
	Width            *int       `json:"width,omitempty"`
	Height           *int       `json:"height,omitempty"`
	HasThumbnail     bool       `json:"has_thumbnail"`
	TakenAt          *time.Time `json:"taken_at,omitempty"`
	UploadedAt       time.Time  `json:"uploaded_at"`
}

func toPhotoResponse(photo *domain.Photo) V1PhotoResponse {
	return V1PhotoResponse{
		ID:               photo.ID,
		RoomID:           photo.RoomID,
		Filename:         photo.Filename,
		OriginalFilename: photo.OriginalFilename,
		UploaderName:     photo.UploaderName,
		FileSize:         photo.FileSize,
		MimeType:         photo.MimeType,
		ContentHash:      photo.ContentHash,
		Width:            photo.Width,
		Height:           photo.Height,
		HasThumbnail:     photo.ThumbnailPath != nil,
		TakenAt:          photo.TakenAt,
		UploadedAt:       photo.UploadedAt,
	}
}

// UploadPhotoV1 accepts one multipart photo upload. Fields: file (required),
// uploader_name (required), log_id (optional, ties the upload to a session).
func (h *HandlerV1) UploadPhotoV1(w http.ResponseWriter, r *http.Request) {

	roomID, err := uuid.Parse(chi.URLParam(r, "roomID"))
	if err != nil {
		http.Error(w, "invalid room id", http.StatusBadRequest)
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	uploaderName := strings.TrimSpace(r.FormValue("uploader_name"))
	if uploaderName == "" {
		http.Error(w, "missing param", http.StatusBadRequest)
		return
	}

	var logID *uuid.UUID
	if raw := r.FormValue("log_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "invalid log id", http.StatusBadRequest)
			return
		}
		logID = &parsed
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	photo, err := h.uploadService.AcceptFile(
		r.Context(),
		logID,
		roomID,
		uploaderName,
		file,
		header.Filename,
		header.Header.Get("Content-Type"),
		header.Size,
	)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(toPhotoResponse(photo)); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}
