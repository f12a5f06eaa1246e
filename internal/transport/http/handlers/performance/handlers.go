package performancehandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"qrhrm/internal/domain/auth"
	"qrhrm/internal/domain/performance"
	"qrhrm/internal/transport/http/api"
	"qrhrm/internal/transport/http/middleware"
	"qrhrm/internal/transport/http/shared"
)

type ReviewService interface {
	List(ctx context.Context) ([]performance.Review, error)
	Create(ctx context.Context, review performance.Review) (performance.Review, error)
	Summary(ctx context.Context) (performance.Summary, error)
}

type Handler struct {
	Service ReviewService
}

func NewHandler(service ReviewService) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/performance-reviews", func(r chi.Router) {
		r.Use(middleware.RequireRole(auth.RoleAdmin))
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/summary", h.handleSummary)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	reviews, err := h.Service.List(r.Context())
	if err != nil {
		slog.Error("list reviews failed", "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "reviews_list_failed", "Server error", requestID)
		return
	}
	api.Success(w, reviews, requestID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload performance.CreateInput
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	reviewDate, _ := v.Date("review_date", payload.ReviewDate)
	if v.Reject(w, requestID) {
		return
	}

	review, err := h.Service.Create(r.Context(), performance.Review{
		Name:       payload.Name,
		Role:       payload.Role,
		Department: payload.Department,
		Rating:     payload.Rating,
		Attendance: payload.Attendance,
		ReviewDate: reviewDate,
	})
	switch {
	case errors.Is(err, performance.ErrInvalidRating):
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "performance_rating", Reason: err.Error()}})
		return
	case errors.Is(err, performance.ErrNameRequired):
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "name", Reason: err.Error()}})
		return
	case err != nil:
		slog.Error("create review failed", "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "review_create_failed", "Failed to add review", requestID)
		return
	}
	api.Created(w, review, requestID)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	summary, err := h.Service.Summary(r.Context())
	if err != nil {
		slog.Error("review summary failed", "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "reviews_summary_failed", "Server error", requestID)
		return
	}
	api.Success(w, summary, requestID)
}
