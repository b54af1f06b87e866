package circle

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, c *Circle) error
	GetByCircleID(ctx context.Context, circleID string) (*Circle, error)
	// GetByCircleIDForUpdate locks the circle row; this lock is the
	// per-circle mutual exclusion scope for settlement.
	GetByCircleIDForUpdate(ctx context.Context, circleID string) (*Circle, error)
	// Save persists the circle and its member rows.
	Save(ctx context.Context, c *Circle) error
	// ListDueForPayout returns ids of active circles whose next payout time
	// has passed. Feeds the cron trigger.
	ListDueForPayout(ctx context.Context, now time.Time) ([]string, error)
}
