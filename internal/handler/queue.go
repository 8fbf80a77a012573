package handler

import (
	"net/http"
	"time"

	"log/slog"

	"github.com/sakif/stagecall/internal/apperror"
	"github.com/sakif/stagecall/internal/model"
	"github.com/sakif/stagecall/internal/service"
)

// QueueHandler manages audition queues. Building a queue orders the
// opportunity's pending applicants by applause, highest first, and
// freezes that order for the life of the queue.
type QueueHandler struct {
	queues       *service.QueueService
	applications *service.ApplicationService
	applause     *service.ApplauseService
	restrictions *service.RestrictionService
	logger       *slog.Logger
}

func NewQueueHandler(
	queues *service.QueueService,
	applications *service.ApplicationService,
	applause *service.ApplauseService,
	restrictions *service.RestrictionService,
	logger *slog.Logger,
) *QueueHandler {
	return &QueueHandler{
		queues:       queues,
		applications: applications,
		applause:     applause,
		restrictions: restrictions,
		logger:       logger,
	}
}

type queueRequest struct {
	OpportunityID string `json:"opportunityId"`
	StartTime     string `json:"startTime"`
	MinutesPer    int    `json:"minutesPer"`
}

// HandleCreate builds the queue for the caller's opportunity from its
// pending applicants, ranked by applause. Casting directors only.
//
// HTTP: POST /api/queues
func (h *QueueHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.restrictions.Check(r.Context(), userID, model.RoleCastingDirector); err != nil {
		writeError(w, err)
		return
	}

	var req queueRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		writeError(w, apperror.ValidationFailed("startTime", "start time must be RFC 3339"))
		return
	}

	// ForOpportunity enforces that the caller owns the listing.
	applications, err := h.applications.ForOpportunity(r.Context(), userID, req.OpportunityID)
	if err != nil {
		writeError(w, err)
		return
	}

	pending := make([]string, 0, len(applications))
	for _, a := range applications {
		if a.Status == model.ApplicationPending {
			pending = append(pending, a.ApplicantID)
		}
	}

	ranked, err := h.applause.Rank(r.Context(), pending)
	if err != nil {
		writeError(w, err)
		return
	}
	ordered := make([]string, 0, len(ranked))
	for _, ru := range ranked {
		ordered = append(ordered, ru.UserID)
	}

	queue, err := h.queues.Create(r.Context(), userID, req.OpportunityID, ordered, startTime, req.MinutesPer)
	if err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("audition queue built",
		slog.String("opportunityID", req.OpportunityID),
		slog.Int("size", len(ordered)),
	)
	writeJSON(w, http.StatusCreated, queue)
}

// HandleGet returns an opportunity's queue.
//
// HTTP: GET /api/queues/{opportunityId}
func (h *QueueHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	queue, err := h.queues.GetByOpportunity(r.Context(), r.PathValue("opportunityId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, queue)
}

// HandleEstimatedTime returns when the caller's slot begins.
//
// HTTP: GET /api/queues/{opportunityId}/estimated-time
func (h *QueueHandler) HandleEstimatedTime(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	estimated, err := h.queues.EstimatedTime(r.Context(), r.PathValue("opportunityId"), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]time.Time{"estimatedTime": estimated})
}

// HandleProgress advances the queue by one. Manager only.
//
// HTTP: POST /api/queues/{opportunityId}/progress
func (h *QueueHandler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	progress, err := h.queues.Progress(r.Context(), userID, r.PathValue("opportunityId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

// HandleDelete removes the queue. Manager only.
//
// HTTP: DELETE /api/queues/{opportunityId}
func (h *QueueHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.queues.Delete(r.Context(), userID, r.PathValue("opportunityId")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
