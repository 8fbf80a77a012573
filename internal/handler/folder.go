package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/stagecall/internal/model"
	"github.com/sakif/stagecall/internal/service"
)

// FolderHandler manages practice and repertoire folders. The practice
// capacity setting is an admin control.
type FolderHandler struct {
	folders      *service.FolderService
	restrictions *service.RestrictionService
	logger       *slog.Logger
}

func NewFolderHandler(folders *service.FolderService, restrictions *service.RestrictionService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{folders: folders, restrictions: restrictions, logger: logger}
}

// HandleGetPractice returns the caller's practice folder.
//
// HTTP: GET /api/practice
func (h *FolderHandler) HandleGetPractice(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	folder, err := h.folders.GetPractice(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, folder)
}

type folderContentRequest struct {
	ContentID string `json:"contentId"`
}

// HandleAddPractice adds a content reference to the caller's practice
// folder, subject to the capacity limit.
//
// HTTP: POST /api/practice/contents
func (h *FolderHandler) HandleAddPractice(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req folderContentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	folder, err := h.folders.AddPractice(r.Context(), userID, req.ContentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, folder)
}

// HandleRemovePractice removes a content reference from the caller's
// practice folder.
//
// HTTP: DELETE /api/practice/contents/{contentId}
func (h *FolderHandler) HandleRemovePractice(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	folder, err := h.folders.RemovePractice(r.Context(), userID, r.PathValue("contentId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, folder)
}

type capacityRequest struct {
	Capacity int `json:"capacity"`
}

// HandleSetCapacity changes the instance-wide practice capacity. Admin
// only; applies to future adds.
//
// HTTP: PUT /api/practice/capacity
func (h *FolderHandler) HandleSetCapacity(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.restrictions.Check(r.Context(), userID, model.RoleAdmin); err != nil {
		writeError(w, err)
		return
	}

	var req capacityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.folders.SetCapacity(req.Capacity); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"capacity": h.folders.Capacity()})
}

type repertoireRequest struct {
	Name string `json:"name"`
}

// HandleCreateRepertoire creates a named repertoire folder.
//
// HTTP: POST /api/repertoire
func (h *FolderHandler) HandleCreateRepertoire(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req repertoireRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	folder, err := h.folders.CreateRepertoire(r.Context(), userID, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, folder)
}

// HandleListRepertoire lists the caller's repertoire folders.
//
// HTTP: GET /api/repertoire
func (h *FolderHandler) HandleListRepertoire(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	folders, err := h.folders.ListRepertoire(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, folders)
}

// HandleAddRepertoire adds a content reference to one of the caller's
// repertoire folders.
//
// HTTP: POST /api/repertoire/{id}/contents
func (h *FolderHandler) HandleAddRepertoire(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req folderContentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	folder, err := h.folders.AddRepertoire(r.Context(), userID, r.PathValue("id"), req.ContentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, folder)
}

// HandleRemoveRepertoire removes a content reference from a repertoire
// folder.
//
// HTTP: DELETE /api/repertoire/{id}/contents/{contentId}
func (h *FolderHandler) HandleRemoveRepertoire(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	folder, err := h.folders.RemoveRepertoire(r.Context(), userID, r.PathValue("id"), r.PathValue("contentId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, folder)
}

// HandleDeleteRepertoire deletes a repertoire folder.
//
// HTTP: DELETE /api/repertoire/{id}
func (h *FolderHandler) HandleDeleteRepertoire(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.folders.DeleteRepertoire(r.Context(), userID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
