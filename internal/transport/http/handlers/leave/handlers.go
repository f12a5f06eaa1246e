package leavehandler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"qrhrm/internal/domain/audit"
	"qrhrm/internal/domain/auth"
	"qrhrm/internal/domain/leave"
	"qrhrm/internal/transport/http/api"
	"qrhrm/internal/transport/http/middleware"
	"qrhrm/internal/transport/http/shared"
)

type LeaveService interface {
	Submit(ctx context.Context, employeeID string, start, end time.Time, reason string) (leave.Request, error)
	List(ctx context.Context, role, employeeID string) ([]leave.Request, error)
	Decide(ctx context.Context, id, status string) (leave.Decision, error)
	ClearAll(ctx context.Context) (int64, error)
	Balance(ctx context.Context, employeeID string) (leave.Balance, error)
}

type Handler struct {
	Service LeaveService
	Audit   audit.Recorder
}

func NewHandler(service LeaveService, auditSvc audit.Recorder) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave-requests", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.With(middleware.RequireRole(auth.RoleEmployee)).Post("/", h.handleSubmit)
		r.Get("/", h.handleList)
		r.With(middleware.RequireRole(auth.RoleEmployee)).Get("/balance", h.handleBalance)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Delete("/", h.handleClear)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Put("/{requestID}", h.handleDecide)
	})
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload leave.SubmitInput
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.HasIssues() {
		api.FailWithDetails(w, http.StatusBadRequest, "validation_error", "All fields are required", map[string]any{"fields": v.Issues()}, requestID)
		return
	}
	start, _ := v.Date("startDate", payload.StartDate)
	end, _ := v.Date("endDate", payload.EndDate)
	v.DateOrder("startDate", start, "endDate", end)
	if v.Reject(w, requestID) {
		return
	}

	req, err := h.Service.Submit(r.Context(), user.ID, start, end, payload.Reason)
	if errors.Is(err, leave.ErrInvalidRange) {
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "endDate", Reason: err.Error()}})
		return
	}
	if err != nil {
		slog.Error("submit leave request failed", "employeeId", user.ID, "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "leave_submit_failed", "Server error submitting leave request", requestID)
		return
	}
	api.Created(w, req, requestID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	list, err := h.Service.List(r.Context(), user.Role, user.ID)
	if err != nil {
		slog.Error("list leave requests failed", "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "leave_list_failed", "Server error while fetching leave requests", requestID)
		return
	}
	if list == nil {
		list = []leave.Request{}
	}
	api.Success(w, list, requestID)
}

func (h *Handler) handleBalance(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	balance, err := h.Service.Balance(r.Context(), user.ID)
	if err != nil {
		slog.Error("leave balance failed", "employeeId", user.ID, "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "leave_balance_failed", "failed to compute leave balance", requestID)
		return
	}
	api.Success(w, balance, requestID)
}

type decisionRequest struct {
	Status string `json:"status"`
}

type decisionResponse struct {
	Message string         `json:"message"`
	Request *leave.Request `json:"request,omitempty"`
}

func (h *Handler) handleDecide(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "requestID")
	var payload decisionRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}

	decision, err := h.Service.Decide(r.Context(), id, payload.Status)
	switch {
	case errors.Is(err, leave.ErrInvalidDecision):
		api.Fail(w, http.StatusBadRequest, "invalid_status", "Invalid status provided. Must be Approved or Denied.", requestID)
		return
	case errors.Is(err, leave.ErrRequestNotFound):
		api.Fail(w, http.StatusNotFound, "leave_not_found", "Leave request not found.", requestID)
		return
	case err != nil:
		slog.Error("leave decision failed", "leaveId", id, "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "leave_update_failed", "Server error updating leave request status.", requestID)
		return
	}

	if !decision.Changed {
		api.Success(w, decisionResponse{Message: fmt.Sprintf("Leave request is already %s.", decision.Request.Status)}, requestID)
		return
	}
	h.record(r, audit.ActionLeaveDecision, id, map[string]string{"status": decision.Request.Status, "employeeId": decision.Request.EmployeeID})
	api.Success(w, decisionResponse{Message: "Leave request status updated successfully.", Request: &decision.Request}, requestID)
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	deleted, err := h.Service.ClearAll(r.Context())
	if err != nil {
		slog.Error("clear leave requests failed", "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "leave_clear_failed", "Server error clearing leave requests", requestID)
		return
	}
	h.record(r, audit.ActionLeaveClear, "", map[string]int64{"deleted": deleted})
	api.Success(w, map[string]any{"message": "All leave requests cleared.", "deleted": deleted}, requestID)
}

func (h *Handler) record(r *http.Request, action, entityID string, details any) {
	if h.Audit == nil {
		return
	}
	user, _ := middleware.GetUser(r.Context())
	evt := audit.Event{
		ActorID:    user.ID,
		ActorRole:  user.Role,
		Action:     action,
		EntityType: "leave_request",
		EntityID:   entityID,
		RequestID:  middleware.GetRequestID(r.Context()),
	}
	if err := h.Audit.Record(r.Context(), evt, details); err != nil {
		slog.Warn("audit "+action+" failed", "err", err)
	}
}
