package performance

import "context"

type StoreAPI interface {
	List(ctx context.Context) ([]Review, error)
	Create(ctx context.Context, review Review) (Review, error)
}

var _ StoreAPI = (*Store)(nil)
