package invoice

import (
	"fmt"
	"time"

	ierr "github.com/subledger/subledger/internal/errors"
	"github.com/subledger/subledger/internal/types"
)

// Invoice represents the invoice domain model
type Invoice struct {
	// ID is the store-assigned identifier, immutable after creation
	ID int64 `db:"id" json:"id"`

	// SubscriptionID references the owning subscription
	SubscriptionID int64 `db:"subscription_id" json:"subscriptionId"`

	// CustomerID duplicates the subscription's customer for query
	// convenience and must match it
	CustomerID int64 `db:"customer_id" json:"customerId"`

	// Amount is in minor currency units and must equal the sum of the
	// line item totals
	Amount int64 `db:"amount" json:"amount"`

	DueDate time.Time `db:"due_date" json:"dueDate"`

	// PaidAt is present and not in the future if and only if Status is PAID
	PaidAt *time.Time `db:"paid_at" json:"paidAt"`

	Status types.InvoiceStatus `db:"status" json:"status"`

	// LineItems is non-empty; each total must equal quantity × unitPrice
	LineItems LineItems `db:"line_items" json:"lineItems"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Refinements evaluates the cross-field invariants against now and returns
// every violation in declaration order.
func (i *Invoice) Refinements(now time.Time) []ierr.FieldError {
	var fieldErrors []ierr.FieldError

	for idx, item := range i.LineItems {
		if item.Total != item.Quantity*item.UnitPrice {
			fieldErrors = append(fieldErrors, ierr.FieldError{
				Path:    fmt.Sprintf("lineItems[%d].total", idx),
				Message: "line item total must equal quantity * unit price",
			})
		}
	}
	if i.Amount != i.LineItems.Sum() {
		fieldErrors = append(fieldErrors, ierr.FieldError{
			Path:    "amount",
			Message: "invoice amount must equal sum of line item totals",
		})
	}
	if i.Status == types.InvoiceStatusPaid && i.PaidAt == nil {
		fieldErrors = append(fieldErrors, ierr.FieldError{
			Path:    "paidAt",
			Message: "paid invoices must have a paidAt date",
		})
	}
	if i.PaidAt != nil && i.PaidAt.After(now) {
		fieldErrors = append(fieldErrors, ierr.FieldError{
			Path:    "paidAt",
			Message: "payment date cannot be in the future",
		})
	}
	if i.PaidAt != nil && i.Status != types.InvoiceStatusPaid {
		fieldErrors = append(fieldErrors, ierr.FieldError{
			Path:    "paidAt",
			Message: "paidAt is only allowed on paid invoices",
		})
	}

	return fieldErrors
}

// Validate checks the cross-field invariants of the record
func (i *Invoice) Validate(now time.Time) error {
	if fieldErrors := i.Refinements(now); len(fieldErrors) > 0 {
		return ierr.NewError("invoice validation failed").
			WithHint("Invoice fields are inconsistent").
			WithFieldErrors(fieldErrors).
			Mark(ierr.ErrValidation)
	}
	return nil
}
