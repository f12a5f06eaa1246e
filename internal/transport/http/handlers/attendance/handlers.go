package attendancehandler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"qrhrm/internal/domain/attendance"
	"qrhrm/internal/domain/audit"
	"qrhrm/internal/domain/auth"
	"qrhrm/internal/transport/http/api"
	"qrhrm/internal/transport/http/middleware"
	"qrhrm/internal/transport/http/shared"
)

// Reconciler is the attendance surface the handlers drive.
type Reconciler interface {
	HandleScan(ctx context.Context, code string) (attendance.Outcome, error)
	ManualBackfill(ctx context.Context, code string, status attendance.Status, date time.Time) (attendance.Row, error)
	Query(ctx context.Context, filter attendance.Filter) ([]attendance.Row, error)
	History(ctx context.Context, employeeID string, limit int) ([]attendance.Row, error)
	Policy() attendance.Policy
}

type Handler struct {
	Reconciler  Reconciler
	Audit       audit.Recorder
	ScanLimiter func(http.Handler) http.Handler
}

func NewHandler(reconciler Reconciler, auditSvc audit.Recorder, scanLimiter func(http.Handler) http.Handler) *Handler {
	return &Handler{Reconciler: reconciler, Audit: auditSvc, ScanLimiter: scanLimiter}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		scan := http.Handler(http.HandlerFunc(h.handleScan))
		if h.ScanLimiter != nil {
			scan = h.ScanLimiter(scan)
		}
		r.Method(http.MethodPost, "/", scan)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Get("/", h.handleList)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Post("/manual", h.handleManual)
		r.With(middleware.RequireRole(auth.RoleEmployee)).Get("/me", h.handleMine)
	})
}

type message struct {
	Message string `json:"message"`
}

type scanRequest struct {
	EmployeeID string `json:"employeeId"`
}

type scanResponse struct {
	Message          string             `json:"message"`
	Outcome          string             `json:"outcome"`
	Attendance       *attendance.Record `json:"attendance,omitempty"`
	RemainingMinutes int                `json:"remainingMinutes,omitempty"`
}

// handleScan is the public kiosk endpoint. Accepted scans answer 200 and
// rejections 400, both with a display message.
func (h *Handler) handleScan(w http.ResponseWriter, r *http.Request) {
	var payload scanRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	outcome, err := h.Reconciler.HandleScan(r.Context(), payload.EmployeeID)
	if errors.Is(err, attendance.ErrEmployeeNotFound) {
		api.JSON(w, http.StatusBadRequest, scanResponse{Message: "Employee not found", Outcome: attendance.KindUnknownEmployee})
		return
	}
	if err != nil {
		slog.Error("attendance scan failed", "err", err, "requestId", middleware.GetRequestID(r.Context()))
		api.JSON(w, http.StatusInternalServerError, message{Message: "Server error"})
		return
	}

	resp := scanResponse{Message: outcome.Message(), Outcome: outcome.Kind()}
	status := http.StatusOK
	switch o := outcome.(type) {
	case attendance.ClockedIn:
		resp.Attendance = &o.Rec
	case attendance.ClockedOut:
		resp.Attendance = &o.Rec
	case attendance.TooSoon:
		status = http.StatusBadRequest
		resp.RemainingMinutes = o.RemainingMinutes
	case attendance.AlreadyClockedOut:
		status = http.StatusBadRequest
		resp.Attendance = &o.Rec
	}
	api.JSON(w, status, resp)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := attendance.Filter{
		Name:     strings.TrimSpace(q.Get("name")),
		Position: strings.TrimSpace(q.Get("position")),
	}
	if raw := strings.TrimSpace(q.Get("status")); raw != "" {
		status, err := attendance.ParseStatus(raw)
		if err != nil {
			api.JSON(w, http.StatusBadRequest, message{Message: err.Error()})
			return
		}
		filter.Status = status
	}
	if raw := strings.TrimSpace(q.Get("date")); raw != "" {
		day, err := shared.ParseCalendarDate(raw, h.Reconciler.Policy().Location)
		if err != nil {
			api.JSON(w, http.StatusBadRequest, message{Message: "date must be YYYY-MM-DD"})
			return
		}
		filter.Date = &day
	}
	if q.Get("limit") != "" || q.Get("offset") != "" {
		page := shared.ParsePagination(r, 100, 1000)
		filter.Limit, filter.Offset = page.Limit, page.Offset
	}

	rows, err := h.Reconciler.Query(r.Context(), filter)
	if err != nil {
		slog.Error("attendance query failed", "err", err, "requestId", middleware.GetRequestID(r.Context()))
		api.JSON(w, http.StatusInternalServerError, message{Message: "Failed to fetch attendance records"})
		return
	}
	api.JSON(w, http.StatusOK, rows)
}

type manualRequest struct {
	EmployeeCode string `json:"employeeCode" validate:"required"`
	Status       string `json:"status" validate:"required"`
	Date         string `json:"date_in" validate:"required"`
}

type manualResponse struct {
	Message string         `json:"message"`
	Record  attendance.Row `json:"record"`
}

func (h *Handler) handleManual(w http.ResponseWriter, r *http.Request) {
	var payload manualRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.HasIssues() {
		api.JSON(w, http.StatusBadRequest, message{Message: "employeeCode, status and date_in are required"})
		return
	}
	day, err := shared.ParseCalendarDate(payload.Date, h.Reconciler.Policy().Location)
	if err != nil {
		api.JSON(w, http.StatusBadRequest, message{Message: "date_in must be YYYY-MM-DD"})
		return
	}
	status, err := attendance.ParseStatus(payload.Status)
	if err != nil {
		api.JSON(w, http.StatusBadRequest, message{Message: err.Error()})
		return
	}

	row, err := h.Reconciler.ManualBackfill(r.Context(), payload.EmployeeCode, status, day)
	switch {
	case errors.Is(err, attendance.ErrEmployeeNotFound):
		api.JSON(w, http.StatusNotFound, message{Message: "Employee not found"})
		return
	case errors.Is(err, attendance.ErrDuplicateRecord), errors.Is(err, attendance.ErrInvalidStatus):
		api.JSON(w, http.StatusBadRequest, message{Message: err.Error()})
		return
	case err != nil:
		slog.Error("manual attendance failed", "err", err, "requestId", middleware.GetRequestID(r.Context()))
		api.JSON(w, http.StatusInternalServerError, message{Message: "Server error"})
		return
	}

	h.record(r, row, status)
	api.JSON(w, http.StatusCreated, manualResponse{
		Message: fmt.Sprintf("%s recorded for %s", status, day.Format("2006-01-02")),
		Record:  row,
	})
}

func (h *Handler) record(r *http.Request, row attendance.Row, status attendance.Status) {
	if h.Audit == nil {
		return
	}
	user, _ := middleware.GetUser(r.Context())
	evt := audit.Event{
		ActorID:    user.ID,
		ActorRole:  user.Role,
		Action:     audit.ActionAttendanceBackfill,
		EntityType: "attendance",
		EntityID:   row.ID,
		RequestID:  middleware.GetRequestID(r.Context()),
	}
	details := map[string]any{"employeeCode": row.EmployeeCode, "status": status, "date": row.Date.Format("2006-01-02")}
	if err := h.Audit.Record(r.Context(), evt, details); err != nil {
		slog.Warn("audit attendance.backfill failed", "err", err)
	}
}

func (h *Handler) handleMine(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	page := shared.ParsePagination(r, 30, 366)
	rows, err := h.Reconciler.History(r.Context(), user.ID, page.Limit)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "attendance_history_failed", "failed to load attendance history", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, rows, middleware.GetRequestID(r.Context()))
}
