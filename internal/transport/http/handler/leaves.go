package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-office-api/internal/application/leave"
	"github.com/go-office-api/internal/domain"
	"github.com/go-office-api/internal/pkg/dates"
)

// LeaveHandler exposes the leave lifecycle. The acting user always comes
// from the token, never from the request body.
type LeaveHandler struct {
	svc   leave.Service
	users userReader
}

func NewLeaveHandler(svc leave.Service, users userReader) *LeaveHandler {
	return &LeaveHandler{svc: svc, users: users}
}

func (h *LeaveHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}
	var req domain.CreateLeaveRequest
	if !decodeBody(w, r, &req) {
		return
	}
	start, err := dates.Parse(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start_date")
		return
	}
	end, err := dates.Parse(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end_date")
		return
	}
	l, err := h.svc.Create(r.Context(), leave.CreateInput{
		RequesterID: claims.UserID,
		StartDate:   start,
		EndDate:     end,
		Category:    req.Category,
		Reason:      req.Reason,
	})
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (h *LeaveHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}
	ls, err := h.svc.ListByRequester(r.Context(), claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeLeaves(w, ls)
}

func (h *LeaveHandler) ListPendingForManager(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}
	ls, err := h.svc.ListPendingForManager(r.Context(), claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeLeaves(w, ls)
}

func (h *LeaveHandler) ListPendingForHR(w http.ResponseWriter, r *http.Request) {
	ls, err := h.svc.ListPendingForHR(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeLeaves(w, ls)
}

// Calendar lists live leaves overlapping ?from=YYYY-MM-DD&to=YYYY-MM-DD.
func (h *LeaveHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	from, err := dates.Parse(r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "from must be YYYY-MM-DD")
		return
	}
	to, err := dates.Parse(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "to must be YYYY-MM-DD")
		return
	}
	ls, err := h.svc.ListInRange(r.Context(), from, to)
	if err != nil {
		httpError(w, err)
		return
	}
	writeLeaves(w, ls)
}

func (h *LeaveHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}
	l, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	allowed, err := canView(r.Context(), h.users, claims, l.RequesterID)
	if err != nil {
		httpError(w, err)
		return
	}
	if !allowed {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *LeaveHandler) CanApprove(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}
	can, err := h.svc.CanApprove(r.Context(), chi.URLParam(r, "id"), claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CanApproveEnvelope{CanApprove: can})
}

func (h *LeaveHandler) ApproveByManager(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}
	l, err := h.svc.ApproveByManager(r.Context(), chi.URLParam(r, "id"), claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *LeaveHandler) ApproveByHR(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}
	l, err := h.svc.ApproveByHR(r.Context(), chi.URLParam(r, "id"), claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *LeaveHandler) Reject(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}
	var req domain.RejectLeaveRequest
	if !decodeBody(w, r, &req) {
		return
	}
	l, err := h.svc.Reject(r.Context(), chi.URLParam(r, "id"), claims.UserID, req.Reason)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *LeaveHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}
	if err := h.svc.Cancel(r.Context(), chi.URLParam(r, "id"), claims.UserID); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "leave request cancelled"})
}

// ListLeaveCategories returns the accepted leave categories.
func ListLeaveCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]domain.LeaveCategory{"data": domain.LeaveCategories()})
}

func writeLeaves(w http.ResponseWriter, ls []domain.LeaveRequest) {
	if ls == nil {
		ls = []domain.LeaveRequest{}
	}
	writeJSON(w, http.StatusOK, LeavesEnvelope{Data: ls})
}
