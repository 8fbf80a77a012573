package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/stagecall/internal/service"
)

// VoteHandler applies the vote toggle and forwards the resulting delta
// to the post author's applause.
type VoteHandler struct {
	votes    *service.VoteService
	posts    *service.PostService
	applause *service.ApplauseService
	logger   *slog.Logger
}

func NewVoteHandler(votes *service.VoteService, posts *service.PostService, applause *service.ApplauseService, logger *slog.Logger) *VoteHandler {
	return &VoteHandler{votes: votes, posts: posts, applause: applause, logger: logger}
}

type voteRequest struct {
	ParentID string `json:"parentId"`
	Upvote   bool   `json:"upvote"`
}

// HandleVote casts, retracts, or flips the caller's vote on a post. The
// outcome's delta lands on the post author's applause, so voting twice
// with the same polarity is a clean no-op overall.
//
// HTTP: POST /api/votes
func (h *VoteHandler) HandleVote(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req voteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	outcome, err := h.votes.Vote(r.Context(), userID, req.ParentID, req.Upvote)
	if err != nil {
		writeError(w, err)
		return
	}

	post, err := h.posts.GetByID(r.Context(), req.ParentID)
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := h.applause.Update(r.Context(), post.AuthorID, outcome.Delta); err != nil {
		h.logger.Error("applause update failed",
			slog.String("userID", post.AuthorID),
			slog.Float64("delta", outcome.Delta),
			slog.String("error", err.Error()),
		)
	}

	writeJSON(w, http.StatusOK, outcome)
}
