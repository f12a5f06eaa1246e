package leave

import (
	"context"
	"strings"
	"time"

	"qrhrm/internal/domain/auth"
)

// DecisionNotifier tells an employee that their request was decided.
type DecisionNotifier interface {
	SendDecision(ctx context.Context, req Request)
}

type Service struct {
	Store    StoreAPI
	Notifier DecisionNotifier
}

func NewService(store StoreAPI, notifier DecisionNotifier) *Service {
	return &Service{Store: store, Notifier: notifier}
}

func (s *Service) Submit(ctx context.Context, employeeID string, start, end time.Time, reason string) (Request, error) {
	if _, err := CalculateDays(start, end); err != nil {
		return Request{}, err
	}
	return s.Store.Create(ctx, employeeID, start, end, strings.TrimSpace(reason))
}

// List returns all requests for admins and the caller's own otherwise.
func (s *Service) List(ctx context.Context, role, employeeID string) ([]Request, error) {
	if role == auth.RoleAdmin {
		return s.Store.List(ctx, "")
	}
	return s.Store.List(ctx, employeeID)
}

func (s *Service) ListForEmployee(ctx context.Context, employeeID string) ([]Request, error) {
	return s.Store.List(ctx, employeeID)
}

// Decide sets the request status. Re-applying the current status is a no-op
// and sends no notification.
func (s *Service) Decide(ctx context.Context, id, status string) (Decision, error) {
	status, ok := ParseDecision(status)
	if !ok {
		return Decision{}, ErrInvalidDecision
	}
	current, err := s.Store.Get(ctx, id)
	if err != nil {
		return Decision{}, err
	}
	if current.Status == status {
		return Decision{Request: current, Changed: false}, nil
	}
	updated, err := s.Store.UpdateStatus(ctx, id, status)
	if err != nil {
		return Decision{}, err
	}
	if s.Notifier != nil {
		s.Notifier.SendDecision(ctx, updated)
	}
	return Decision{Request: updated, Changed: true}, nil
}

func (s *Service) ClearAll(ctx context.Context) (int64, error) {
	return s.Store.DeleteAll(ctx)
}

func (s *Service) Balance(ctx context.Context, employeeID string) (Balance, error) {
	requests, err := s.Store.List(ctx, employeeID)
	if err != nil {
		return Balance{}, err
	}
	return SummarizeBalance(requests, AnnualAllowance), nil
}
