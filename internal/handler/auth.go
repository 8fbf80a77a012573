package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/stagecall/internal/auth"
	"github.com/sakif/stagecall/internal/service"
)

// AuthHandler manages registration, login, and the session cookie.
//
// Registration is a cascade: creating the account also provisions the
// user's applause counter, role restrictions, portfolio, and practice
// folder so every later operation can assume they exist.
type AuthHandler struct {
	users        *service.UserService
	applause     *service.ApplauseService
	restrictions *service.RestrictionService
	portfolios   *service.PortfolioService
	folders      *service.FolderService
	tokens       *auth.TokenService
	logger       *slog.Logger
}

func NewAuthHandler(
	users *service.UserService,
	applause *service.ApplauseService,
	restrictions *service.RestrictionService,
	portfolios *service.PortfolioService,
	folders *service.FolderService,
	tokens *auth.TokenService,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		users:        users,
		applause:     applause,
		restrictions: restrictions,
		portfolios:   portfolios,
		folders:      folders,
		tokens:       tokens,
		logger:       logger,
	}
}

type registerRequest struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Name     string   `json:"name"`
	Roles    []string `json:"roles"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates an account and its companion records, then
// issues a session cookie.
//
// HTTP: POST /auth/register
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.Create(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	// Companion records. The account exists at this point; a failure
	// here leaves a partially provisioned user, which the logs record.
	if _, err := h.applause.Initialize(r.Context(), user.ID); err != nil {
		h.logger.Error("register: applause init failed", slog.String("userID", user.ID), slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	if _, err := h.restrictions.Create(r.Context(), user.ID, req.Roles); err != nil {
		h.logger.Error("register: restriction init failed", slog.String("userID", user.ID), slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	if _, err := h.portfolios.Create(r.Context(), user.ID); err != nil {
		h.logger.Error("register: portfolio init failed", slog.String("userID", user.ID), slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	if _, err := h.folders.CreatePractice(r.Context(), user.ID); err != nil {
		h.logger.Error("register: practice folder init failed", slog.String("userID", user.ID), slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	if err := h.setSession(w, user.ID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// HandleLogin verifies credentials and issues a session cookie.
//
// HTTP: POST /auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.setSession(w, user.ID); err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("user logged in", slog.String("userID", user.ID))
	writeJSON(w, http.StatusOK, user)
}

// HandleLogout clears the session cookie. The token itself stays valid
// until expiry; without the cookie the browser cannot send it.
//
// HTTP: POST /auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// HandleMe returns the authenticated user's profile.
//
// HTTP: GET /api/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthenticated", Message: "you must be logged in"})
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) setSession(w http.ResponseWriter, userID string) error {
	tokenStr, err := h.tokens.Generate(userID)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    tokenStr,
		Path:     "/",
		MaxAge:   int((24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
