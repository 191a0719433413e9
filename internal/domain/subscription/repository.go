package subscription

import (
	"context"
	"time"
)

// Repository persists subscription records. Update must honor the aggregate's
// version for optimistic concurrency: a stale write returns a conflict error
// instead of silently overwriting a concurrent transition.
type Repository interface {
	Create(ctx context.Context, sub *Subscription) error
	Update(ctx context.Context, sub *Subscription) error
	GetByAccountID(ctx context.Context, accountID string) (*Subscription, error)
	// ListDueForExpiry returns cancelled-pending records whose period end has
	// passed, for the scheduled expiry sweep.
	ListDueForExpiry(ctx context.Context, now time.Time, limit int) ([]*Subscription, error)
}
