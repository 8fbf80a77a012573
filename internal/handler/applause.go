package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/stagecall/internal/service"
)

// ApplauseHandler exposes read access to reputation scores. Scores are
// never written directly over HTTP; they move only as side effects of
// other operations.
type ApplauseHandler struct {
	applause *service.ApplauseService
	users    *service.UserService
	logger   *slog.Logger
}

func NewApplauseHandler(applause *service.ApplauseService, users *service.UserService, logger *slog.Logger) *ApplauseHandler {
	return &ApplauseHandler{applause: applause, users: users, logger: logger}
}

// HandleGet returns a single user's score.
//
// HTTP: GET /api/users/{id}/applause
func (h *ApplauseHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	value, err := h.applause.Value(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, service.RankedUser{UserID: userID, Value: value})
}

// HandleLeaderboard ranks every registered user by score, descending.
//
// HTTP: GET /api/applause/leaderboard
func (h *ApplauseHandler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context(), service.MaxListLimit, 0)
	if err != nil {
		writeError(w, err)
		return
	}

	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}

	ranked, err := h.applause.Rank(r.Context(), ids)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ranked)
}
