package payroll

import (
	"context"
	"strings"
)

type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

// Create records a payroll entry. When no final salary is given it is derived
// from the employee's monthly salary and the hours worked.
func (s *Service) Create(ctx context.Context, input CreateInput) (Record, error) {
	code := strings.TrimSpace(input.EmployeeCode)
	if code == "" {
		return Record{}, ErrEmployeeCodeNeeded
	}
	if input.HoursWorked.IsNegative() || input.LeaveDeductions.IsNegative() || input.FinalSalary.IsNegative() {
		return Record{}, ErrNegativeAmount
	}
	if input.FinalSalary.IsZero() && input.HoursWorked.IsPositive() {
		salary, err := s.Store.MonthlySalary(ctx, code)
		if err != nil {
			return Record{}, err
		}
		input.FinalSalary = ComputeFinalSalary(HourlyRate(salary), input.HoursWorked, input.LeaveDeductions)
	}
	return s.Store.Create(ctx, code, input)
}

func (s *Service) List(ctx context.Context) ([]Record, error) {
	return s.Store.List(ctx)
}

// Recent returns up to limit records for the employee, newest first.
func (s *Service) Recent(ctx context.Context, employeeID string, limit int) ([]Record, error) {
	return s.Store.ListForEmployee(ctx, employeeID, limit)
}

func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (Record, error) {
	if input.Empty() {
		return Record{}, ErrNoChanges
	}
	if input.negative() {
		return Record{}, ErrNegativeAmount
	}
	return s.Store.Update(ctx, id, input)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.Store.Delete(ctx, id)
}

// Latest returns the employee's most recent payroll record.
func (s *Service) Latest(ctx context.Context, employeeID string) (Record, error) {
	records, err := s.Store.ListForEmployee(ctx, employeeID, 1)
	if err != nil {
		return Record{}, err
	}
	if len(records) == 0 {
		return Record{}, ErrNoPayslip
	}
	return records[0], nil
}
