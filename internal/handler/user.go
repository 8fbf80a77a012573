package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/stagecall/internal/service"
)

// UserHandler manages profiles, role restrictions, and the account
// deletion cascade. Deletion touches nearly every concept, so this
// handler holds the widest dependency set in the package.
type UserHandler struct {
	users         *service.UserService
	applause      *service.ApplauseService
	restrictions  *service.RestrictionService
	posts         *service.PostService
	comments      *service.CommentService
	tags          *service.TagService
	votes         *service.VoteService
	connections   *service.ConnectionService
	challenges    *service.ChallengeService
	opportunities *service.OpportunityService
	applications  *service.ApplicationService
	queues        *service.QueueService
	portfolios    *service.PortfolioService
	folders       *service.FolderService
	media         *service.MediaService
	logger        *slog.Logger
}

func NewUserHandler(
	users *service.UserService,
	applause *service.ApplauseService,
	restrictions *service.RestrictionService,
	posts *service.PostService,
	comments *service.CommentService,
	tags *service.TagService,
	votes *service.VoteService,
	connections *service.ConnectionService,
	challenges *service.ChallengeService,
	opportunities *service.OpportunityService,
	applications *service.ApplicationService,
	queues *service.QueueService,
	portfolios *service.PortfolioService,
	folders *service.FolderService,
	media *service.MediaService,
	logger *slog.Logger,
) *UserHandler {
	return &UserHandler{
		users:         users,
		applause:      applause,
		restrictions:  restrictions,
		posts:         posts,
		comments:      comments,
		tags:          tags,
		votes:         votes,
		connections:   connections,
		challenges:    challenges,
		opportunities: opportunities,
		applications:  applications,
		queues:        queues,
		portfolios:    portfolios,
		folders:       folders,
		media:         media,
		logger:        logger,
	}
}

// HandleGet returns a user's public profile.
//
// HTTP: GET /api/users/{id}
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleList returns a page of users.
//
// HTTP: GET /api/users?limit=20&offset=0
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	users, err := h.users.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

type userUpdateRequest struct {
	Email        *string `json:"email"`
	Password     *string `json:"password"`
	Name         *string `json:"name"`
	ProfileMedia *string `json:"profileMedia"`
	BirthDate    *string `json:"birthDate"`
	City         *string `json:"city"`
	State        *string `json:"state"`
	Country      *string `json:"country"`
}

// HandleUpdate applies a partial update to the caller's own profile.
// Absent fields are left unchanged.
//
// HTTP: PUT /api/users/me
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req userUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.Update(r.Context(), userID, service.UserUpdate{
		Email:        req.Email,
		Password:     req.Password,
		Name:         req.Name,
		ProfileMedia: req.ProfileMedia,
		BirthDate:    req.BirthDate,
		City:         req.City,
		State:        req.State,
		Country:      req.Country,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleGetRoles returns a user's restriction flags.
//
// HTTP: GET /api/users/{id}/roles
func (h *UserHandler) HandleGetRoles(w http.ResponseWriter, r *http.Request) {
	restriction, err := h.restrictions.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, restriction)
}

type rolesRequest struct {
	Roles []string `json:"roles"`
}

// HandleEditRoles replaces the caller's role list.
//
// HTTP: PUT /api/users/me/roles
func (h *UserHandler) HandleEditRoles(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req rolesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	restriction, err := h.restrictions.Edit(r.Context(), userID, req.Roles)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, restriction)
}

// HandleDelete removes the caller's account and everything reachable
// from it. The account record goes last so a crash mid-cascade leaves a
// retriable user rather than orphaned rows. Individual cascade steps
// are best effort: a failed step is logged and the cascade continues.
//
// HTTP: DELETE /api/users/me
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	logStep := func(step string, err error) {
		if err != nil {
			h.logger.Error("account deletion step failed",
				slog.String("userID", userID),
				slog.String("step", step),
				slog.String("error", err.Error()),
			)
		}
	}

	// Authored posts take their tags, votes, comment threads, and media
	// along. Releasing post media here also covers references the later
	// owner-wide media sweep would miss.
	posts, err := h.posts.ListByAuthor(ctx, userID)
	logStep("list posts", err)
	for _, p := range posts {
		logStep("post tags", h.tags.DeleteByPost(ctx, p.ID))
		logStep("post votes", h.votes.DeleteByParent(ctx, p.ID))
		logStep("post comments", h.comments.DeleteByParent(ctx, p.ID))
		for _, mediaID := range p.MediaIDs {
			logStep("post media "+mediaID, h.media.Release(ctx, mediaID))
		}
		logStep("post", h.posts.DeleteAsSystem(ctx, p.ID))
	}

	logStep("comments", h.comments.DeleteByAuthor(ctx, userID))
	logStep("tags", h.tags.DeleteByUser(ctx, userID))
	logStep("votes", h.votes.DeleteByUser(ctx, userID))
	logStep("connections", h.connections.DeleteAllForUser(ctx, userID))
	logStep("challenges", h.challenges.DeleteByChallenger(ctx, userID))
	logStep("opportunities", h.opportunities.DeactivateAllForOwner(ctx, userID))
	logStep("applications", h.applications.WithdrawAll(ctx, userID))
	logStep("queues", h.queues.DeleteAllForManager(ctx, userID))
	logStep("portfolio", h.portfolios.Delete(ctx, userID))
	logStep("folders", h.folders.DeleteAllForOwner(ctx, userID))
	logStep("media", h.media.DeleteByOwner(ctx, userID))
	logStep("applause", h.applause.Delete(ctx, userID))
	logStep("restrictions", h.restrictions.Delete(ctx, userID))

	if err := h.users.Delete(ctx, userID); err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("account deleted", slog.String("userID", userID))
	w.WriteHeader(http.StatusNoContent)
}
