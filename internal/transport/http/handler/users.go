package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-office-api/internal/application/leave"
	"github.com/go-office-api/internal/application/user"
	"github.com/go-office-api/internal/domain"
)

// UserHandler handles directory endpoints.
type UserHandler struct {
	svc    user.Service
	leaves leave.Service
}

func NewUserHandler(svc user.Service, leaves leave.Service) *UserHandler {
	return &UserHandler{svc: svc, leaves: leaves}
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}
	u, err := h.svc.Create(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// List returns one page of users. ?limit= defaults to 50, ?cursor= continues a previous page.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	users, next, err := h.svc.List(r.Context(), limit, r.URL.Query().Get("cursor"))
	if err != nil {
		httpError(w, err)
		return
	}
	if users == nil {
		users = []domain.User{}
	}
	writeJSON(w, http.StatusOK, UsersPageEnvelope{Data: users, NextCursor: next})
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}
	targetID := chi.URLParam(r, "id")
	allowed, err := canView(r.Context(), h.svc, claims, targetID)
	if err != nil {
		httpError(w, err)
		return
	}
	if !allowed {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}
	u, err := h.svc.Get(r.Context(), targetID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// ListLeaves returns a user's leave history, newest first.
func (h *UserHandler) ListLeaves(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}
	targetID := chi.URLParam(r, "id")
	allowed, err := canView(r.Context(), h.svc, claims, targetID)
	if err != nil {
		httpError(w, err)
		return
	}
	if !allowed {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}
	ls, err := h.leaves.ListByRequester(r.Context(), targetID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeLeaves(w, ls)
}

// ListReports returns the user's active direct reports.
func (h *UserHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}
	targetID := chi.URLParam(r, "id")
	allowed, err := canView(r.Context(), h.svc, claims, targetID)
	if err != nil {
		httpError(w, err)
		return
	}
	if !allowed {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}
	users, err := h.svc.ListReports(r.Context(), targetID)
	if err != nil {
		httpError(w, err)
		return
	}
	if users == nil {
		users = []domain.User{}
	}
	writeJSON(w, http.StatusOK, UsersPageEnvelope{Data: users})
}

func (h *UserHandler) AssignManager(w http.ResponseWriter, r *http.Request) {
	var req domain.AssignManagerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	u, err := h.svc.AssignManager(r.Context(), chi.URLParam(r, "id"), req.ManagerID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *UserHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	var req domain.SetRoleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	u, err := h.svc.SetRole(r.Context(), chi.URLParam(r, "id"), req.Role)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *UserHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}
	targetID := chi.URLParam(r, "id")
	if targetID == claims.UserID {
		writeError(w, http.StatusBadRequest, "cannot deactivate yourself")
		return
	}
	if err := h.svc.Deactivate(r.Context(), targetID); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "user deactivated"})
}
