package leave

import (
	"context"
	"time"
)

type StoreAPI interface {
	Create(ctx context.Context, employeeID string, start, end time.Time, reason string) (Request, error)
	List(ctx context.Context, employeeID string) ([]Request, error)
	Get(ctx context.Context, id string) (Request, error)
	UpdateStatus(ctx context.Context, id, status string) (Request, error)
	DeleteAll(ctx context.Context) (int64, error)
}

var _ StoreAPI = (*Store)(nil)
