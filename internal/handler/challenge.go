package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/stagecall/internal/model"
	"github.com/sakif/stagecall/internal/service"
)

// ChallengeHandler manages the proposal pool and the posted list.
// Accepting a posted challenge rewards its challenger.
type ChallengeHandler struct {
	challenges   *service.ChallengeService
	applause     *service.ApplauseService
	restrictions *service.RestrictionService
	logger       *slog.Logger
}

func NewChallengeHandler(
	challenges *service.ChallengeService,
	applause *service.ApplauseService,
	restrictions *service.RestrictionService,
	logger *slog.Logger,
) *ChallengeHandler {
	return &ChallengeHandler{
		challenges:   challenges,
		applause:     applause,
		restrictions: restrictions,
		logger:       logger,
	}
}

type challengeRequest struct {
	Prompt string `json:"prompt"`
}

// HandlePropose adds a challenge to the proposal pool.
//
// HTTP: POST /api/challenges
func (h *ChallengeHandler) HandlePropose(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req challengeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	challenge, err := h.challenges.Propose(r.Context(), userID, req.Prompt)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, challenge)
}

// HandleListProposed returns the pool of unposted challenges. Admin
// only, since proposals are unreviewed content.
//
// HTTP: GET /api/challenges/proposed
func (h *ChallengeHandler) HandleListProposed(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.restrictions.Check(r.Context(), userID, model.RoleAdmin); err != nil {
		writeError(w, err)
		return
	}

	challenges, err := h.challenges.ListProposed(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, challenges)
}

// HandleListPosted returns the posted challenges.
//
// HTTP: GET /api/challenges
func (h *ChallengeHandler) HandleListPosted(w http.ResponseWriter, r *http.Request) {
	challenges, err := h.challenges.ListPosted(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, challenges)
}

// HandlePostRandom draws one challenge at random from the pool and
// posts it. Admin only.
//
// HTTP: POST /api/challenges/post
func (h *ChallengeHandler) HandlePostRandom(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.restrictions.Check(r.Context(), userID, model.RoleAdmin); err != nil {
		writeError(w, err)
		return
	}

	challenge, err := h.challenges.PostRandom(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, challenge)
}

// HandleAccept records the caller's participation and rewards the
// challenger.
//
// HTTP: POST /api/challenges/{id}/accept
func (h *ChallengeHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(w, r); !ok {
		return
	}

	challenge, err := h.challenges.Accept(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	if _, err := h.applause.Update(r.Context(), challenge.ChallengerID, service.ApplauseChallengeAccepted); err != nil {
		h.logger.Error("applause update failed",
			slog.String("userID", challenge.ChallengerID),
			slog.String("error", err.Error()),
		)
	}
	writeJSON(w, http.StatusOK, challenge)
}

// HandleReject backs out a previously recorded participation.
//
// HTTP: POST /api/challenges/{id}/reject
func (h *ChallengeHandler) HandleReject(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(w, r); !ok {
		return
	}

	challenge, err := h.challenges.Reject(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, challenge)
}
