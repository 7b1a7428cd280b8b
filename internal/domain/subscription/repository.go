package subscription

import (
	"context"

	"github.com/subledger/subledger/internal/types"
)

// Repository defines the interface for subscription data access
type Repository interface {
	Create(ctx context.Context, subscription *Subscription) error
	Get(ctx context.Context, id int64) (*Subscription, error)
	List(ctx context.Context, filter *types.SubscriptionFilter) ([]*Subscription, error)
	Count(ctx context.Context, filter *types.SubscriptionFilter) (int, error)
	// CountByPlanID counts subscriptions on a plan in any of the given
	// statuses; used by the plan deletion guard.
	CountByPlanID(ctx context.Context, planID int64, statuses []types.SubscriptionStatus) (int, error)
	Update(ctx context.Context, subscription *Subscription) error
	Delete(ctx context.Context, id int64) error
	// DeleteByCustomerID removes all subscriptions owned by a customer as
	// part of a cascading delete, returning the ids of the removed
	// subscriptions so callers can invalidate their cache entries.
	DeleteByCustomerID(ctx context.Context, customerID int64) ([]int64, error)
}
