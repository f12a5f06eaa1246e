package employeeshandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"qrhrm/internal/domain/audit"
	"qrhrm/internal/domain/auth"
	"qrhrm/internal/domain/employees"
	"qrhrm/internal/transport/http/api"
	"qrhrm/internal/transport/http/middleware"
	"qrhrm/internal/transport/http/shared"
)

type Directory interface {
	List(ctx context.Context) ([]employees.Employee, error)
	Update(ctx context.Context, id string, input employees.UpdateInput) (employees.Employee, error)
	Delete(ctx context.Context, id string) error
	Badge(ctx context.Context, id string, size int) (employees.Employee, []byte, error)
}

type Handler struct {
	Employees Directory
	Audit     audit.Recorder
}

func NewHandler(directory Directory, auditSvc audit.Recorder) *Handler {
	return &Handler{Employees: directory, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	admin := middleware.RequireRole(auth.RoleAdmin)
	r.With(admin).Get("/all/employees", h.handleDirectory)
	r.Route("/employees", func(r chi.Router) {
		r.With(admin).Get("/", h.handleList)
		r.Route("/{employeeID}", func(r chi.Router) {
			r.With(admin).Put("/", h.handleUpdate)
			r.With(admin).Delete("/", h.handleDelete)
			r.With(middleware.RequireAuth).Get("/qrcode", h.handleBadge)
		})
	})
}

type listResponse struct {
	Employees []employees.Employee `json:"employees"`
	Count     int                  `json:"count"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	list, err := h.Employees.List(r.Context())
	if err != nil {
		slog.Error("list employees failed", "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "employees_list_failed", "Failed to fetch employees", requestID)
		return
	}
	api.Success(w, listResponse{Employees: list, Count: len(list)}, requestID)
}

// directoryEntry is the admin table projection: email surfaces as contact.
type directoryEntry struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Position string          `json:"position"`
	Contact  string          `json:"contact"`
	Salary   decimal.Decimal `json:"salary"`
	Type     string          `json:"type"`
}

func (h *Handler) handleDirectory(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	list, err := h.Employees.List(r.Context())
	if err != nil {
		slog.Error("list employees failed", "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "employees_list_failed", "Failed to fetch employees", requestID)
		return
	}
	out := make([]directoryEntry, 0, len(list))
	for _, emp := range list {
		out = append(out, directoryEntry{
			ID:       emp.ID,
			Name:     emp.Name,
			Position: emp.Position,
			Contact:  emp.Email,
			Salary:   emp.Salary,
			Type:     emp.Type,
		})
	}
	api.Success(w, out, requestID)
}

// updateRequest accepts the directory's field names (contact, employmentType)
// next to the canonical ones.
type updateRequest struct {
	employees.UpdateInput
	Contact        *string `json:"contact" validate:"omitempty,email,max=320"`
	EmploymentType *string `json:"employmentType" validate:"omitempty,oneof=Full-Time Part-Time Contractor"`
}

func (u updateRequest) input() employees.UpdateInput {
	in := u.UpdateInput
	if in.Email == nil {
		in.Email = u.Contact
	}
	if in.Type == nil {
		in.Type = u.EmploymentType
	}
	return in
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "employeeID")
	var payload updateRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, requestID) {
		return
	}

	input := payload.input()
	emp, err := h.Employees.Update(r.Context(), id, input)
	switch {
	case errors.Is(err, employees.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "employee_not_found", "Employee not found", requestID)
		return
	case errors.Is(err, employees.ErrNoChanges):
		api.Fail(w, http.StatusBadRequest, "no_changes", err.Error(), requestID)
		return
	case errors.Is(err, employees.ErrNegativeSalary):
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "salary", Reason: err.Error()}})
		return
	case errors.Is(err, employees.ErrEmailTaken):
		api.Fail(w, http.StatusConflict, "email_taken", "email already belongs to another employee", requestID)
		return
	case err != nil:
		slog.Error("update employee failed", "employeeId", id, "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "employee_update_failed", "Failed to update employee", requestID)
		return
	}

	h.record(r, audit.ActionEmployeeUpdate, id, changedFields(input))
	api.Success(w, emp, requestID)
}

func changedFields(in employees.UpdateInput) map[string]any {
	fields := make([]string, 0, 6)
	add := func(name string, set bool) {
		if set {
			fields = append(fields, name)
		}
	}
	add("name", in.Name != nil)
	add("email", in.Email != nil)
	add("position", in.Position != nil)
	add("department", in.Department != nil)
	add("type", in.Type != nil)
	add("salary", in.Salary != nil)
	return map[string]any{"fields": fields}
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "employeeID")
	err := h.Employees.Delete(r.Context(), id)
	if errors.Is(err, employees.ErrEmployeeNotFound) {
		api.Fail(w, http.StatusNotFound, "employee_not_found", "Employee not found", requestID)
		return
	}
	if err != nil {
		slog.Error("delete employee failed", "employeeId", id, "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "employee_delete_failed", "Failed to delete employee", requestID)
		return
	}
	h.record(r, audit.ActionEmployeeDelete, id, nil)
	api.Success(w, map[string]string{"message": "Employee deleted successfully"}, requestID)
}

// handleBadge streams the QR badge. Employees may only fetch their own.
func (h *Handler) handleBadge(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "employeeID")
	if !user.IsAdmin() && user.ID != id {
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", requestID)
		return
	}
	size := 0
	if raw := r.URL.Query().Get("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 64 || parsed > 1024 {
			shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "size", Reason: "must be between 64 and 1024"}})
			return
		}
		size = parsed
	}

	emp, png, err := h.Employees.Badge(r.Context(), id, size)
	if errors.Is(err, employees.ErrEmployeeNotFound) {
		api.Fail(w, http.StatusNotFound, "employee_not_found", "Employee not found", requestID)
		return
	}
	if err != nil {
		slog.Error("render badge failed", "employeeId", id, "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "badge_failed", "failed to render qr code", requestID)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `inline; filename="`+emp.Code+`.png"`)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		slog.Warn("write badge failed", "err", err)
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
		EntityType: "employee",
		EntityID:   entityID,
		RequestID:  middleware.GetRequestID(r.Context()),
	}
	if err := h.Audit.Record(r.Context(), evt, details); err != nil {
		slog.Warn("audit "+action+" failed", "err", err)
	}
}
