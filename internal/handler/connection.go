package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/stagecall/internal/service"
)

// ConnectionHandler manages requests and connections. Accepting a
// request rewards both parties; severing a connection reverses that
// for both.
type ConnectionHandler struct {
	connections *service.ConnectionService
	users       *service.UserService
	applause    *service.ApplauseService
	logger      *slog.Logger
}

func NewConnectionHandler(connections *service.ConnectionService, users *service.UserService, applause *service.ApplauseService, logger *slog.Logger) *ConnectionHandler {
	return &ConnectionHandler{connections: connections, users: users, applause: applause, logger: logger}
}

func (h *ConnectionHandler) applaud(r *http.Request, userID string, delta float64) {
	if _, err := h.applause.Update(r.Context(), userID, delta); err != nil {
		h.logger.Error("applause update failed",
			slog.String("userID", userID),
			slog.Float64("delta", delta),
			slog.String("error", err.Error()),
		)
	}
}

type connectionRequestBody struct {
	ToID string `json:"toId"`
}

// HandleSendRequest sends a connection request from the caller.
//
// HTTP: POST /api/connections/requests
func (h *ConnectionHandler) HandleSendRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req connectionRequestBody
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	request, err := h.connections.SendRequest(r.Context(), userID, req.ToID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, request)
}

type requestDecisionBody struct {
	FromID string `json:"fromId"`
}

// HandleAcceptRequest accepts the pending request sent to the caller
// and rewards both parties.
//
// HTTP: POST /api/connections/requests/accept
func (h *ConnectionHandler) HandleAcceptRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req requestDecisionBody
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	conn, err := h.connections.AcceptRequest(r.Context(), req.FromID, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	h.applaud(r, conn.User1ID, service.ApplauseConnectionAccepted)
	h.applaud(r, conn.User2ID, service.ApplauseConnectionAccepted)
	writeJSON(w, http.StatusCreated, conn)
}

// HandleRejectRequest declines the pending request sent to the caller.
// No applause moves; a fresh request may follow later.
//
// HTTP: POST /api/connections/requests/reject
func (h *ConnectionHandler) HandleRejectRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req requestDecisionBody
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.connections.RejectRequest(r.Context(), req.FromID, userID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleWithdrawRequest withdraws the pending request between the
// caller and the named user. Sender and recipient may both withdraw.
//
// HTTP: DELETE /api/connections/requests/{userId}
func (h *ConnectionHandler) HandleWithdrawRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.connections.RemoveRequest(r.Context(), userID, r.PathValue("userId")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListRequests returns every request touching the caller.
//
// HTTP: GET /api/connections/requests
func (h *ConnectionHandler) HandleListRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	requests, err := h.connections.Requests(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

type connectedUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// HandleListConnections returns the users the caller is connected to,
// with names resolved. A party whose account vanished mid-listing is
// returned with an empty name rather than failing the whole list.
//
// HTTP: GET /api/connections
func (h *ConnectionHandler) HandleListConnections(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	others, err := h.connections.Connections(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	resolved := make([]connectedUser, 0, len(others))
	for _, id := range others {
		entry := connectedUser{ID: id}
		if u, err := h.users.GetByID(r.Context(), id); err == nil {
			entry.Name = u.Name
		}
		resolved = append(resolved, entry)
	}
	writeJSON(w, http.StatusOK, resolved)
}

// HandleRemoveConnection severs the caller's connection with another
// user and reverses the acceptance reward for both.
//
// HTTP: DELETE /api/connections/{userId}
func (h *ConnectionHandler) HandleRemoveConnection(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	otherID := r.PathValue("userId")

	if err := h.connections.RemoveConnection(r.Context(), userID, otherID); err != nil {
		writeError(w, err)
		return
	}

	h.applaud(r, userID, service.ApplauseConnectionRemoved)
	h.applaud(r, otherID, service.ApplauseConnectionRemoved)
	w.WriteHeader(http.StatusNoContent)
}
