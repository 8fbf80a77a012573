package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/stagecall/internal/service"
)

// CommentHandler manages comments and their applause side effects.
type CommentHandler struct {
	comments *service.CommentService
	applause *service.ApplauseService
	logger   *slog.Logger
}

func NewCommentHandler(comments *service.CommentService, applause *service.ApplauseService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{comments: comments, applause: applause, logger: logger}
}

func (h *CommentHandler) applaud(r *http.Request, userID string, delta float64) {
	if _, err := h.applause.Update(r.Context(), userID, delta); err != nil {
		h.logger.Error("applause update failed",
			slog.String("userID", userID),
			slog.Float64("delta", delta),
			slog.String("error", err.Error()),
		)
	}
}

type commentRequest struct {
	ParentID string `json:"parentId"`
	Content  string `json:"content"`
}

// HandleCreate posts a comment under a post or another comment and
// rewards the author.
//
// HTTP: POST /api/comments
func (h *CommentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	comment, err := h.comments.Create(r.Context(), userID, req.ParentID, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	h.applaud(r, userID, service.ApplauseCommentCreated)
	writeJSON(w, http.StatusCreated, comment)
}

// HandleListByParent returns the comments under a post or comment.
//
// HTTP: GET /api/comments?parent={id}
func (h *CommentHandler) HandleListByParent(w http.ResponseWriter, r *http.Request) {
	comments, err := h.comments.ListByParent(r.Context(), r.URL.Query().Get("parent"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

type commentUpdateRequest struct {
	Content string `json:"content"`
}

// HandleUpdate edits the caller's comment.
//
// HTTP: PUT /api/comments/{id}
func (h *CommentHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req commentUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	comment, err := h.comments.Update(r.Context(), userID, r.PathValue("id"), req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

// HandleDelete removes the caller's comment and reverses its reward.
//
// HTTP: DELETE /api/comments/{id}
func (h *CommentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	comment, err := h.comments.Delete(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	h.applaud(r, comment.AuthorID, service.ApplauseCommentDeleted)
	w.WriteHeader(http.StatusNoContent)
}
