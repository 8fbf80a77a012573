package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/stagecall/internal/apperror"
	"github.com/sakif/stagecall/internal/model"
	"github.com/sakif/stagecall/internal/service"
)

// OpportunityHandler manages casting listings. Creating one is gated on
// the casting director role; deleting one takes its applications and
// queue along.
type OpportunityHandler struct {
	opportunities *service.OpportunityService
	applications  *service.ApplicationService
	queues        *service.QueueService
	restrictions  *service.RestrictionService
	logger        *slog.Logger
}

func NewOpportunityHandler(
	opportunities *service.OpportunityService,
	applications *service.ApplicationService,
	queues *service.QueueService,
	restrictions *service.RestrictionService,
	logger *slog.Logger,
) *OpportunityHandler {
	return &OpportunityHandler{
		opportunities: opportunities,
		applications:  applications,
		queues:        queues,
		restrictions:  restrictions,
		logger:        logger,
	}
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, apperror.ValidationFailed(field, "date must be RFC 3339")
	}
	return t, nil
}

type opportunityRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Requirements string `json:"requirements"`
	StartOn      string `json:"startOn"`
	EndsOn       string `json:"endsOn"`
}

// HandleCreate publishes a listing. Casting directors only.
//
// HTTP: POST /api/opportunities
func (h *OpportunityHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.restrictions.Check(r.Context(), userID, model.RoleCastingDirector); err != nil {
		writeError(w, err)
		return
	}

	var req opportunityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	startOn, err := parseDate("startOn", req.StartOn)
	if err != nil {
		writeError(w, err)
		return
	}
	endsOn, err := parseDate("endsOn", req.EndsOn)
	if err != nil {
		writeError(w, err)
		return
	}

	opportunity, err := h.opportunities.Create(r.Context(), userID, req.Title, req.Description, req.Requirements, startOn, endsOn)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, opportunity)
}

// HandleGet returns one listing.
//
// HTTP: GET /api/opportunities/{id}
func (h *OpportunityHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	opportunity, err := h.opportunities.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, opportunity)
}

// HandleList returns listings, active ones only unless ?all=true.
//
// HTTP: GET /api/opportunities
func (h *OpportunityHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("all") != "true"
	opportunities, err := h.opportunities.List(r.Context(), activeOnly)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, opportunities)
}

// HandleListByOwner returns one casting director's listings.
//
// HTTP: GET /api/users/{id}/opportunities
func (h *OpportunityHandler) HandleListByOwner(w http.ResponseWriter, r *http.Request) {
	opportunities, err := h.opportunities.ListByOwner(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, opportunities)
}

type opportunityUpdateRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Requirements *string `json:"requirements"`
	StartOn      *string `json:"startOn"`
	EndsOn       *string `json:"endsOn"`
}

// HandleUpdate applies a partial update to the caller's listing.
//
// HTTP: PUT /api/opportunities/{id}
func (h *OpportunityHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req opportunityUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	upd := service.OpportunityUpdate{
		Title:        req.Title,
		Description:  req.Description,
		Requirements: req.Requirements,
	}
	if req.StartOn != nil {
		startOn, err := parseDate("startOn", *req.StartOn)
		if err != nil {
			writeError(w, err)
			return
		}
		upd.StartOn = &startOn
	}
	if req.EndsOn != nil {
		endsOn, err := parseDate("endsOn", *req.EndsOn)
		if err != nil {
			writeError(w, err)
			return
		}
		upd.EndsOn = &endsOn
	}

	opportunity, err := h.opportunities.Update(r.Context(), userID, r.PathValue("id"), upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, opportunity)
}

// HandleDeactivate turns the caller's listing off.
//
// HTTP: POST /api/opportunities/{id}/deactivate
func (h *OpportunityHandler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	opportunity, err := h.opportunities.Deactivate(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, opportunity)
}

// HandleReactivate turns the caller's listing back on and restarts its
// expiry clock.
//
// HTTP: POST /api/opportunities/{id}/reactivate
func (h *OpportunityHandler) HandleReactivate(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	opportunity, err := h.opportunities.Reactivate(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, opportunity)
}

// HandleInRange reports whether a listing's window fits inside the
// queried range.
//
// HTTP: GET /api/opportunities/{id}/in-range?start=...&end=...
func (h *OpportunityHandler) HandleInRange(w http.ResponseWriter, r *http.Request) {
	start, err := parseDate("start", r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, err)
		return
	}
	end, err := parseDate("end", r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, err)
		return
	}

	inRange, err := h.opportunities.DatesInRange(r.Context(), r.PathValue("id"), start, end)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"inRange": inRange})
}

// HandleDelete removes the caller's listing together with its
// applications and queue.
//
// HTTP: DELETE /api/opportunities/{id}
func (h *OpportunityHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	opportunityID := r.PathValue("id")

	if err := h.opportunities.Delete(r.Context(), userID, opportunityID); err != nil {
		writeError(w, err)
		return
	}

	if err := h.applications.DeleteByOpportunity(r.Context(), opportunityID); err != nil {
		h.logger.Error("opportunity cascade: applications delete failed",
			slog.String("opportunityID", opportunityID),
			slog.String("error", err.Error()),
		)
	}
	if err := h.queues.Delete(r.Context(), userID, opportunityID); err != nil && !apperror.IsNotFound(err) {
		h.logger.Error("opportunity cascade: queue delete failed",
			slog.String("opportunityID", opportunityID),
			slog.String("error", err.Error()),
		)
	}
	w.WriteHeader(http.StatusNoContent)
}
