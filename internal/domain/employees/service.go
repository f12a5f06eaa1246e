package employees

import (
	"context"
	"strings"

	"qrhrm/internal/domain/auth"
	"qrhrm/internal/platform/clock"
	"qrhrm/internal/platform/qrcode"
)

// BadgeNotifier delivers a newly created employee's QR badge.
type BadgeNotifier interface {
	SendBadge(ctx context.Context, emp Employee, png []byte)
}

type Service struct {
	Store    StoreAPI
	Clock    clock.Clock
	Notifier BadgeNotifier
}

func NewService(store StoreAPI, clk clock.Clock, notifier BadgeNotifier) *Service {
	if clk == nil {
		clk = clock.System{}
	}
	return &Service{Store: store, Clock: clk, Notifier: notifier}
}

// Signup creates an employee account with a fresh badge code and hands the
// rendered badge to the notifier.
func (s *Service) Signup(ctx context.Context, input SignupInput) (Employee, error) {
	if err := auth.ValidatePassword(input.Password); err != nil {
		return Employee{}, err
	}
	if input.Salary.IsNegative() {
		return Employee{}, ErrNegativeSalary
	}
	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return Employee{}, err
	}
	empType := input.Type
	if empType == "" {
		empType = TypeFullTime
	}
	emp, err := s.Store.Create(ctx, Employee{
		Code:       NewCode(s.Clock.Now()),
		Name:       strings.TrimSpace(input.Name),
		Email:      strings.TrimSpace(input.Email),
		Position:   strings.TrimSpace(input.Position),
		Department: strings.TrimSpace(input.Department),
		Type:       empType,
		Salary:     input.Salary,
	}, hash)
	if err != nil {
		return Employee{}, err
	}

	if s.Notifier != nil {
		badge, err := qrcode.PNG(emp.Code, qrcode.DefaultSize)
		if err != nil {
			return emp, err
		}
		s.Notifier.SendBadge(ctx, emp, badge)
	}
	return emp, nil
}

func (s *Service) List(ctx context.Context) ([]Employee, error) {
	return s.Store.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (Employee, error) {
	return s.Store.Get(ctx, id)
}

func (s *Service) FindByCode(ctx context.Context, code string) (Employee, error) {
	return s.Store.FindByCode(ctx, code)
}

func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (Employee, error) {
	if input.Empty() {
		return Employee{}, ErrNoChanges
	}
	if input.Salary != nil && input.Salary.IsNegative() {
		return Employee{}, ErrNegativeSalary
	}
	return s.Store.Update(ctx, id, input)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.Store.Delete(ctx, id)
}

// Badge renders the employee's QR badge as a PNG.
func (s *Service) Badge(ctx context.Context, id string, size int) (Employee, []byte, error) {
	emp, err := s.Store.Get(ctx, id)
	if err != nil {
		return Employee{}, nil, err
	}
	png, err := qrcode.PNG(emp.Code, size)
	if err != nil {
		return Employee{}, nil, err
	}
	return emp, png, nil
}
