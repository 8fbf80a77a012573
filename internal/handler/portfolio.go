package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/stagecall/internal/model"
	"github.com/sakif/stagecall/internal/service"
)

// PortfolioHandler manages the one-per-user showcase.
type PortfolioHandler struct {
	portfolios *service.PortfolioService
	logger     *slog.Logger
}

func NewPortfolioHandler(portfolios *service.PortfolioService, logger *slog.Logger) *PortfolioHandler {
	return &PortfolioHandler{portfolios: portfolios, logger: logger}
}

// HandleGet returns a user's portfolio.
//
// HTTP: GET /api/users/{id}/portfolio
func (h *PortfolioHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	portfolio, err := h.portfolios.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, portfolio)
}

type portfolioUpdateRequest struct {
	Style      *model.PortfolioStyle     `json:"style"`
	Intro      *string                   `json:"intro"`
	Info       *model.ProfessionalInfo   `json:"info"`
	HeadshotID *string                   `json:"headshotId"`
}

// HandleUpdate applies a partial update to the caller's portfolio.
//
// HTTP: PUT /api/portfolio
func (h *PortfolioHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req portfolioUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	portfolio, err := h.portfolios.Update(r.Context(), userID, service.PortfolioUpdate{
		Style:      req.Style,
		Intro:      req.Intro,
		Info:       req.Info,
		HeadshotID: req.HeadshotID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, portfolio)
}

type portfolioMediaRequest struct {
	MediaID string `json:"mediaId"`
}

// HandleAddMedia appends a media reference to the caller's portfolio.
//
// HTTP: POST /api/portfolio/media
func (h *PortfolioHandler) HandleAddMedia(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req portfolioMediaRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	portfolio, err := h.portfolios.AddMedia(r.Context(), userID, req.MediaID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, portfolio)
}

// HandleRemoveMedia removes a media reference from the caller's
// portfolio.
//
// HTTP: DELETE /api/portfolio/media/{mediaId}
func (h *PortfolioHandler) HandleRemoveMedia(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	portfolio, err := h.portfolios.RemoveMedia(r.Context(), userID, r.PathValue("mediaId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, portfolio)
}
