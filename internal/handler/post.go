package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/stagecall/internal/model"
	"github.com/sakif/stagecall/internal/service"
)

// PostHandler manages categories and focused posts, applying the
// applause side effects that post activity carries. Applause updates
// are fire and forget: a failed update is logged, never rolled back.
type PostHandler struct {
	posts        *service.PostService
	comments     *service.CommentService
	tags         *service.TagService
	votes        *service.VoteService
	applause     *service.ApplauseService
	restrictions *service.RestrictionService
	media        *service.MediaService
	logger       *slog.Logger
}

func NewPostHandler(
	posts *service.PostService,
	comments *service.CommentService,
	tags *service.TagService,
	votes *service.VoteService,
	applause *service.ApplauseService,
	restrictions *service.RestrictionService,
	media *service.MediaService,
	logger *slog.Logger,
) *PostHandler {
	return &PostHandler{
		posts:        posts,
		comments:     comments,
		tags:         tags,
		votes:        votes,
		applause:     applause,
		restrictions: restrictions,
		media:        media,
		logger:       logger,
	}
}

func (h *PostHandler) applaud(r *http.Request, userID string, delta float64) {
	if _, err := h.applause.Update(r.Context(), userID, delta); err != nil {
		h.logger.Error("applause update failed",
			slog.String("userID", userID),
			slog.Float64("delta", delta),
			slog.String("error", err.Error()),
		)
	}
}

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// HandleCreateCategory adds a category. Admin only.
//
// HTTP: POST /api/categories
func (h *PostHandler) HandleCreateCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.restrictions.Check(r.Context(), userID, model.RoleAdmin); err != nil {
		writeError(w, err)
		return
	}

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	category, err := h.posts.CreateCategory(r.Context(), req.Name, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

// HandleListCategories returns every category.
//
// HTTP: GET /api/categories
func (h *PostHandler) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.posts.ListCategories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// HandleCategoryPosts lists a category's posts.
//
// HTTP: GET /api/categories/{id}/posts
func (h *PostHandler) HandleCategoryPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.PostsInCategory(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// HandleDeleteCategory removes a category and every post in it, each
// post taking its tags, votes, comments, and author applause along.
// Admin only.
//
// HTTP: DELETE /api/categories/{id}
func (h *PostHandler) HandleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.restrictions.Check(r.Context(), userID, model.RoleAdmin); err != nil {
		writeError(w, err)
		return
	}

	categoryID := r.PathValue("id")
	posts, err := h.posts.PostsInCategory(r.Context(), categoryID)
	if err != nil {
		writeError(w, err)
		return
	}

	for _, p := range posts {
		h.cascadePostDelete(r, &p)
		if err := h.posts.DeleteAsSystem(r.Context(), p.ID); err != nil {
			h.logger.Error("category cascade: post delete failed",
				slog.String("postID", p.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		h.applaud(r, p.AuthorID, service.ApplausePostDeleted)
	}

	if err := h.posts.DeleteCategory(r.Context(), categoryID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type postRequest struct {
	Content    string   `json:"content"`
	CategoryID string   `json:"categoryId"`
	MediaIDs   []string `json:"mediaIds"`
}

// HandleCreate publishes a post and rewards the author.
//
// HTTP: POST /api/posts
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req postRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	post, err := h.posts.Create(r.Context(), userID, req.Content, req.CategoryID, req.MediaIDs)
	if err != nil {
		writeError(w, err)
		return
	}

	h.applaud(r, userID, service.ApplausePostCreated)
	writeJSON(w, http.StatusCreated, post)
}

// HandleGet returns one post.
//
// HTTP: GET /api/posts/{id}
func (h *PostHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// HandleList returns a page of posts, newest first.
//
// HTTP: GET /api/posts?limit=20&offset=0
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	posts, err := h.posts.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// HandleListByAuthor returns every post by one author.
//
// HTTP: GET /api/users/{id}/posts
func (h *PostHandler) HandleListByAuthor(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.ListByAuthor(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// HandleUpdate edits the caller's post. No applause movement; the post
// already earned its creation reward.
//
// HTTP: PUT /api/posts/{id}
func (h *PostHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req postRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	post, err := h.posts.Update(r.Context(), userID, r.PathValue("id"), req.Content, req.CategoryID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// HandleDelete removes the caller's post, cascades its tags, votes, and
// comments, and reverses the creation reward.
//
// HTTP: DELETE /api/posts/{id}
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	post, err := h.posts.Delete(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	h.cascadePostDelete(r, post)
	h.applaud(r, post.AuthorID, service.ApplausePostDeleted)
	w.WriteHeader(http.StatusNoContent)
}

// cascadePostDelete removes everything hanging off a post: tagged users
// give back their tag applause, then tags, votes, the comment thread,
// and the post's media go.
func (h *PostHandler) cascadePostDelete(r *http.Request, post *model.FocusedPost) {
	tags, err := h.tags.ListByPost(r.Context(), post.ID)
	if err != nil {
		h.logger.Error("post cascade: listing tags failed",
			slog.String("postID", post.ID),
			slog.String("error", err.Error()),
		)
	}
	for _, t := range tags {
		h.applaud(r, t.TaggedID, service.ApplauseUntagged)
	}

	logStep := func(step string, err error) {
		if err != nil {
			h.logger.Error("post cascade step failed",
				slog.String("postID", post.ID),
				slog.String("step", step),
				slog.String("error", err.Error()),
			)
		}
	}
	logStep("tags", h.tags.DeleteByPost(r.Context(), post.ID))
	logStep("votes", h.votes.DeleteByParent(r.Context(), post.ID))
	logStep("comments", h.comments.DeleteByParent(r.Context(), post.ID))
	for _, mediaID := range post.MediaIDs {
		logStep("media "+mediaID, h.media.Release(r.Context(), mediaID))
	}
}
