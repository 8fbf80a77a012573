package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/stagecall/internal/service"
)

// TagHandler manages tags. The tagged user, not the tagger, receives
// the applause movement on both creation and removal.
type TagHandler struct {
	tags     *service.TagService
	applause *service.ApplauseService
	logger   *slog.Logger
}

func NewTagHandler(tags *service.TagService, applause *service.ApplauseService, logger *slog.Logger) *TagHandler {
	return &TagHandler{tags: tags, applause: applause, logger: logger}
}

func (h *TagHandler) applaud(r *http.Request, userID string, delta float64) {
	if _, err := h.applause.Update(r.Context(), userID, delta); err != nil {
		h.logger.Error("applause update failed",
			slog.String("userID", userID),
			slog.Float64("delta", delta),
			slog.String("error", err.Error()),
		)
	}
}

type tagRequest struct {
	TaggedID string `json:"taggedId"`
	PostID   string `json:"postId"`
}

// HandleCreate tags a user on a post and rewards the tagged user.
//
// HTTP: POST /api/tags
func (h *TagHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req tagRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	tag, err := h.tags.Create(r.Context(), userID, req.TaggedID, req.PostID)
	if err != nil {
		writeError(w, err)
		return
	}

	h.applaud(r, tag.TaggedID, service.ApplauseTagged)
	writeJSON(w, http.StatusCreated, tag)
}

// HandleListByPost returns the tags on a post.
//
// HTTP: GET /api/posts/{id}/tags
func (h *TagHandler) HandleListByPost(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tags.ListByPost(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

// HandleListByTagged returns every tag naming a user.
//
// HTTP: GET /api/users/{id}/tags
func (h *TagHandler) HandleListByTagged(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tags.ListByTagged(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

// HandleDelete removes a tag by its (tagged, post) pair and reverses
// the tagged user's reward. Only the original tagger may remove it.
//
// HTTP: DELETE /api/tags?tagged={userId}&post={postId}
func (h *TagHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	tag, err := h.tags.Delete(r.Context(), userID, r.URL.Query().Get("tagged"), r.URL.Query().Get("post"))
	if err != nil {
		writeError(w, err)
		return
	}

	h.applaud(r, tag.TaggedID, service.ApplauseUntagged)
	w.WriteHeader(http.StatusNoContent)
}
