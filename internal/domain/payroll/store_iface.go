package payroll

import (
	"context"

	"github.com/shopspring/decimal"
)

type StoreAPI interface {
	Create(ctx context.Context, employeeCode string, input CreateInput) (Record, error)
	List(ctx context.Context) ([]Record, error)
	ListForEmployee(ctx context.Context, employeeID string, limit int) ([]Record, error)
	Get(ctx context.Context, id string) (Record, error)
	Update(ctx context.Context, id string, input UpdateInput) (Record, error)
	Delete(ctx context.Context, id string) error
	MonthlySalary(ctx context.Context, employeeCode string) (decimal.Decimal, error)
}

var _ StoreAPI = (*Store)(nil)
