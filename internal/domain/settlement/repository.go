package settlement

import "context"

type Repository interface {
	Create(ctx context.Context, r *Receipt) error
	ListByCircleID(ctx context.Context, circleID string) ([]Receipt, error)
}
