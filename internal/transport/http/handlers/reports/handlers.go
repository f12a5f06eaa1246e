package reportshandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"qrhrm/internal/domain/auth"
	"qrhrm/internal/domain/employees"
	"qrhrm/internal/domain/reports"
	"qrhrm/internal/transport/http/api"
	"qrhrm/internal/transport/http/middleware"
)

type Dashboards interface {
	AdminDashboard(ctx context.Context) (reports.AdminDashboard, error)
	EmployeeDashboard(ctx context.Context, employeeID string) (reports.EmployeeDashboard, error)
}

type Handler struct {
	Service Dashboards
}

func NewHandler(service Dashboards) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequireRole(auth.RoleAdmin)).Get("/dashboardResults", h.handleAdmin)
	r.With(middleware.RequireRole(auth.RoleEmployee)).Get("/employeesdash", h.handleEmployee)
}

func (h *Handler) handleAdmin(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	dash, err := h.Service.AdminDashboard(r.Context())
	if err != nil {
		slog.Error("admin dashboard failed", "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "dashboard_failed", "Failed to load dashboard data", requestID)
		return
	}
	api.Success(w, dash, requestID)
}

func (h *Handler) handleEmployee(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	dash, err := h.Service.EmployeeDashboard(r.Context(), user.ID)
	if errors.Is(err, employees.ErrEmployeeNotFound) {
		api.Fail(w, http.StatusNotFound, "employee_not_found", "Employee not found", requestID)
		return
	}
	if err != nil {
		slog.Error("employee dashboard failed", "employeeId", user.ID, "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "dashboard_failed", "Failed to load dashboard data", requestID)
		return
	}
	api.Success(w, dash, requestID)
}
