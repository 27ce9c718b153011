package photo

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// DownloadPhotoV1 streams the original photo bytes. ?thumbnail=true serves
// the thumbnail instead.
func (h *HandlerV1) DownloadPhotoV1(w http.ResponseWriter, r *http.Request) {

	roomID, err := uuid.Parse(chi.URLParam(r, "roomID"))
	if err != nil {
		http.Error(w, "invalid room id", http.StatusBadRequest)
		return
	}
	photoID, err := uuid.Parse(chi.URLParam(r, "photoID"))
	if err != nil {
		http.Error(w, "invalid photo id", http.StatusBadRequest)
		return
	}

	photo, err := h.uploadService.GetPhoto(r.Context(), roomID, photoID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	path := photo.FilePath
	mimeType := photo.MimeType
	if r.URL.Query().Get("thumbnail") == "true" {
		if photo.ThumbnailPath == nil {
			http.Error(w, "no thumbnail for this photo", http.StatusNotFound)
			return
		}
		path = *photo.ThumbnailPath
		mimeType = "image/jpeg"
	}

	stream, err := h.storage.ReadStream(r.Context(), path)
	if err != nil {
		h.logger.Error("failed to open photo stream", "path", path, "error", err)
		http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
		return
	}
	defer stream.Close()

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", photo.OriginalFilename))
	if _, err := io.Copy(w, stream); err != nil {
		h.logger.Error("error streaming photo", "photo_id", photoID, "error", err)
	}
}
