package employees

import "context"

type StoreAPI interface {
	Create(ctx context.Context, emp Employee, passwordHash string) (Employee, error)
	List(ctx context.Context) ([]Employee, error)
	Get(ctx context.Context, id string) (Employee, error)
	FindByCode(ctx context.Context, code string) (Employee, error)
	Update(ctx context.Context, id string, input UpdateInput) (Employee, error)
	Delete(ctx context.Context, id string) error
}

var _ StoreAPI = (*Store)(nil)
