package types

import (
	ierr "github.com/subledger/subledger/internal/errors"
	"github.com/samber/lo"
)

// InvoiceStatus represents the current state of an invoice in its lifecycle
type InvoiceStatus string

const (
	// InvoiceStatusDraft indicates the invoice can still be modified or deleted
	InvoiceStatusDraft InvoiceStatus = "DRAFT"
	// InvoiceStatusOpen indicates the invoice is issued and awaiting payment
	InvoiceStatusOpen InvoiceStatus = "OPEN"
	// InvoiceStatusPaid indicates payment was recorded; terminal
	InvoiceStatusPaid InvoiceStatus = "PAID"
	// InvoiceStatusFailed indicates collection failed; terminal
	InvoiceStatusFailed InvoiceStatus = "FAILED"
)

// invoiceTransitions is the legal state machine for invoices. FAILED is
// reachable from any non-PAID state; the pay operation short-circuits the
// table for non-PAID invoices.
var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceStatusDraft:  {InvoiceStatusOpen, InvoiceStatusFailed},
	InvoiceStatusOpen:   {InvoiceStatusPaid, InvoiceStatusFailed},
	InvoiceStatusPaid:   {},
	InvoiceStatusFailed: {},
}

func (s InvoiceStatus) String() string {
	return string(s)
}

func (s InvoiceStatus) Validate() error {
	allowed := []InvoiceStatus{
		InvoiceStatusDraft,
		InvoiceStatusOpen,
		InvoiceStatusPaid,
		InvoiceStatusFailed,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid invoice status").
			WithHint("Invalid invoice status").
			WithReportableDetails(map[string]any{
				"status":  s,
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsTerminal reports whether no further transitions are legal
func (s InvoiceStatus) IsTerminal() bool {
	return len(invoiceTransitions[s]) == 0
}

// CanTransition reports whether moving to target is a legal edge.
// Keeping the same status is always allowed.
func (s InvoiceStatus) CanTransition(target InvoiceStatus) bool {
	if s == target {
		return true
	}
	return lo.Contains(invoiceTransitions[s], target)
}

// InvoiceFilter represents the query options for listing invoices
type InvoiceFilter struct {
	QueryFilter
	CustomerID     *int64         `json:"customerId,omitempty" form:"customerId"`
	SubscriptionID *int64         `json:"subscriptionId,omitempty" form:"subscriptionId"`
	Status         *InvoiceStatus `json:"status,omitempty" form:"status"`
}

func NewInvoiceFilter() *InvoiceFilter {
	return &InvoiceFilter{QueryFilter: DefaultQueryFilter}
}
