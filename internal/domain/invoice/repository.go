package invoice

import (
	"context"

	"github.com/subledger/subledger/internal/types"
)

// Repository defines the interface for invoice data access
type Repository interface {
	Create(ctx context.Context, invoice *Invoice) error
	Get(ctx context.Context, id int64) (*Invoice, error)
	List(ctx context.Context, filter *types.InvoiceFilter) ([]*Invoice, error)
	Count(ctx context.Context, filter *types.InvoiceFilter) (int, error)
	Update(ctx context.Context, invoice *Invoice) error
	Delete(ctx context.Context, id int64) error
	// DeleteBySubscriptionID and DeleteByCustomerID remove owned invoices
	// as part of cascading deletes, returning the ids of the removed
	// invoices so callers can invalidate their cache entries.
	DeleteBySubscriptionID(ctx context.Context, subscriptionID int64) ([]int64, error)
	DeleteByCustomerID(ctx context.Context, customerID int64) ([]int64, error)
}
