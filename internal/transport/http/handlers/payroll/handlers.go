package payrollhandler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"qrhrm/internal/domain/audit"
	"qrhrm/internal/domain/auth"
	"qrhrm/internal/domain/payroll"
	"qrhrm/internal/platform/clock"
	"qrhrm/internal/transport/http/api"
	"qrhrm/internal/transport/http/middleware"
	"qrhrm/internal/transport/http/shared"
)

type PayrollService interface {
	Create(ctx context.Context, input payroll.CreateInput) (payroll.Record, error)
	List(ctx context.Context) ([]payroll.Record, error)
	Update(ctx context.Context, id string, input payroll.UpdateInput) (payroll.Record, error)
	Delete(ctx context.Context, id string) error
	Latest(ctx context.Context, employeeID string) (payroll.Record, error)
}

type Handler struct {
	Service PayrollService
	Audit   audit.Recorder
	Clock   clock.Clock
}

func NewHandler(service PayrollService, auditSvc audit.Recorder, clk clock.Clock) *Handler {
	if clk == nil {
		clk = clock.System{}
	}
	return &Handler{Service: service, Audit: auditSvc, Clock: clk}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.With(middleware.RequireRole(auth.RoleEmployee)).Get("/my-payslip", h.handlePayslip)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(auth.RoleAdmin))
			r.Get("/", h.handleList)
			r.Post("/", h.handleCreate)
			r.Put("/{payrollID}", h.handleUpdate)
			r.Delete("/{payrollID}", h.handleDelete)
		})
	})
}

type listResponse struct {
	Records []payroll.Record `json:"records"`
	Total   decimal.Decimal  `json:"total"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	records, err := h.Service.List(r.Context())
	if err != nil {
		slog.Error("list payroll failed", "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "payroll_list_failed", "Server error", requestID)
		return
	}
	api.Success(w, listResponse{Records: records, Total: payroll.Total(records)}, requestID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload payroll.CreateInput
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, requestID) {
		return
	}

	rec, err := h.Service.Create(r.Context(), payload)
	if h.failOnDomainError(w, requestID, err) {
		return
	}
	if err != nil {
		slog.Error("create payroll failed", "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "payroll_create_failed", "Failed to add payroll", requestID)
		return
	}
	h.record(r, audit.ActionPayrollCreate, rec.ID, map[string]string{"employeeCode": rec.EmployeeCode, "finalSalary": rec.FinalSalary.StringFixed(2)})
	api.Created(w, rec, requestID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "payrollID")
	var payload payroll.UpdateInput
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}

	rec, err := h.Service.Update(r.Context(), id, payload)
	if h.failOnDomainError(w, requestID, err) {
		return
	}
	if err != nil {
		slog.Error("update payroll failed", "payrollId", id, "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "payroll_update_failed", "Failed to update payroll", requestID)
		return
	}
	h.record(r, audit.ActionPayrollUpdate, id, map[string]string{"finalSalary": rec.FinalSalary.StringFixed(2)})
	api.Success(w, rec, requestID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "payrollID")
	err := h.Service.Delete(r.Context(), id)
	if h.failOnDomainError(w, requestID, err) {
		return
	}
	if err != nil {
		slog.Error("delete payroll failed", "payrollId", id, "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "payroll_delete_failed", "Error deleting payroll", requestID)
		return
	}
	h.record(r, audit.ActionPayrollDelete, id, nil)
	api.Success(w, map[string]string{"message": "Payroll deleted successfully"}, requestID)
}

// failOnDomainError maps known payroll errors and reports whether a response
// was written.
func (h *Handler) failOnDomainError(w http.ResponseWriter, requestID string, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, payroll.ErrRecordNotFound):
		api.Fail(w, http.StatusNotFound, "payroll_not_found", "Payroll not found", requestID)
	case errors.Is(err, payroll.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "employee_not_found", "Employee not found", requestID)
	case errors.Is(err, payroll.ErrEmployeeCodeNeeded):
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "employee_code", Reason: "is required"}})
	case errors.Is(err, payroll.ErrNegativeAmount), errors.Is(err, payroll.ErrNoChanges):
		api.Fail(w, http.StatusBadRequest, "invalid_payroll", err.Error(), requestID)
	default:
		return false
	}
	return true
}

// handlePayslip renders the caller's latest payroll record as a PDF download.
func (h *Handler) handlePayslip(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	rec, err := h.Service.Latest(r.Context(), user.ID)
	if errors.Is(err, payroll.ErrNoPayslip) {
		api.Fail(w, http.StatusNotFound, "payslip_not_found", "No payslip found for this employee", requestID)
		return
	}
	if err != nil {
		slog.Error("load payslip failed", "employeeId", user.ID, "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "payslip_failed", "Failed to generate payslip", requestID)
		return
	}

	var buf bytes.Buffer
	if err := payroll.RenderPayslip(&buf, rec, h.Clock.Now()); err != nil {
		slog.Error("render payslip failed", "payrollId", rec.ID, "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "payslip_failed", "Failed to generate payslip", requestID)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=payslip.pdf")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Last-Modified", rec.CreatedAt.UTC().Format(http.TimeFormat))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("write payslip failed", "err", err)
	}
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
		EntityType: "payroll",
		EntityID:   entityID,
		RequestID:  middleware.GetRequestID(r.Context()),
	}
	if err := h.Audit.Record(r.Context(), evt, details); err != nil {
		slog.Warn("audit "+action+" failed", "err", err)
	}
}
