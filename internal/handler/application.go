package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/stagecall/internal/model"
	"github.com/sakif/stagecall/internal/service"
)

// ApplicationHandler manages applications. Applying is gated on the
// actor role; withdrawing an application costs the applicant applause.
type ApplicationHandler struct {
	applications *service.ApplicationService
	applause     *service.ApplauseService
	restrictions *service.RestrictionService
	logger       *slog.Logger
}

func NewApplicationHandler(
	applications *service.ApplicationService,
	applause *service.ApplauseService,
	restrictions *service.RestrictionService,
	logger *slog.Logger,
) *ApplicationHandler {
	return &ApplicationHandler{
		applications: applications,
		applause:     applause,
		restrictions: restrictions,
		logger:       logger,
	}
}

type applicationRequest struct {
	OpportunityID string   `json:"opportunityId"`
	Text          string   `json:"text"`
	MediaIDs      []string `json:"mediaIds"`
}

// HandleCreate submits an application. Actors only.
//
// HTTP: POST /api/applications
func (h *ApplicationHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.restrictions.Check(r.Context(), userID, model.RoleActor); err != nil {
		writeError(w, err)
		return
	}

	var req applicationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	application, err := h.applications.Create(r.Context(), userID, req.OpportunityID, req.Text, req.MediaIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, application)
}

type statusRequest struct {
	Status string `json:"status"`
}

// HandleChangeStatus applies one state machine transition. Withdrawing
// costs the applicant applause; owner decisions move no applause.
//
// HTTP: PUT /api/applications/{id}/status
func (h *ApplicationHandler) HandleChangeStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	application, err := h.applications.ChangeStatus(r.Context(), userID, r.PathValue("id"), req.Status)
	if err != nil {
		writeError(w, err)
		return
	}

	if req.Status == model.ApplicationWithdrawn {
		if _, err := h.applause.Update(r.Context(), application.ApplicantID, service.ApplauseApplicationWithdrawn); err != nil {
			h.logger.Error("applause update failed",
				slog.String("userID", application.ApplicantID),
				slog.String("error", err.Error()),
			)
		}
	}
	writeJSON(w, http.StatusOK, application)
}

// HandleListForOpportunity lists a listing's applications for its
// owner. Withdrawn applications are hidden here.
//
// HTTP: GET /api/opportunities/{id}/applications
func (h *ApplicationHandler) HandleListForOpportunity(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	applications, err := h.applications.ForOpportunity(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, applications)
}

// HandleListMine lists the caller's own applications, all statuses.
//
// HTTP: GET /api/applications
func (h *ApplicationHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	applications, err := h.applications.ForApplicant(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, applications)
}
