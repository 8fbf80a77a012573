package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/stagecall/internal/service"
)

// MediaHandler manages media link records.
type MediaHandler struct {
	media  *service.MediaService
	logger *slog.Logger
}

func NewMediaHandler(media *service.MediaService, logger *slog.Logger) *MediaHandler {
	return &MediaHandler{media: media, logger: logger}
}

type mediaRequest struct {
	URL string `json:"url"`
}

// HandleCreate stores a media link for the caller after validation and
// host normalization.
//
// HTTP: POST /api/media
func (h *MediaHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req mediaRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	media, err := h.media.Create(r.Context(), userID, req.URL)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, media)
}

// HandleGet returns one media record.
//
// HTTP: GET /api/media/{id}
func (h *MediaHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	media, err := h.media.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, media)
}

// HandleDelete removes the caller's media record.
//
// HTTP: DELETE /api/media/{id}
func (h *MediaHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.media.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
