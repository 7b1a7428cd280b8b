package dto

import (
	"time"

	"github.com/samber/lo"
	"github.com/subledger/subledger/internal/domain/invoice"
	"github.com/subledger/subledger/internal/types"
	"github.com/subledger/subledger/internal/validator"
)

type LineItemRequest struct {
	Description string `json:"description" validate:"required"`
	Quantity    int64  `json:"quantity" validate:"required,gt=0"`
	UnitPrice   int64  `json:"unitPrice" validate:"gte=0"`
	Total       int64  `json:"total" validate:"gte=0"`
}

type CreateInvoiceRequest struct {
	SubscriptionID int64               `json:"subscriptionId" validate:"required,gt=0"`
	CustomerID     int64               `json:"customerId" validate:"required,gt=0"`
	Amount         int64               `json:"amount" validate:"gte=0"`
	DueDate        time.Time           `json:"dueDate" validate:"required"`
	Status         types.InvoiceStatus `json:"status" validate:"omitempty,oneof=DRAFT OPEN PAID FAILED"`
	LineItems      []LineItemRequest   `json:"lineItems" validate:"required,min=1,dive"`
}

type UpdateInvoiceRequest struct {
	Status    *types.InvoiceStatus `json:"status" validate:"omitempty,oneof=DRAFT OPEN PAID FAILED"`
	DueDate   *time.Time           `json:"dueDate"`
	PaidAt    *time.Time           `json:"paidAt"`
	Amount    *int64               `json:"amount" validate:"omitempty,gte=0"`
	LineItems []LineItemRequest    `json:"lineItems" validate:"omitempty,min=1,dive"`
}

// PayInvoiceRequest marks an invoice paid. The payment timestamp defaults
// to now when omitted.
type PayInvoiceRequest struct {
	PaidAt *time.Time `json:"paidAt"`
}

type InvoiceResponse struct {
	*invoice.Invoice
}

// ListInvoicesResponse represents the response for listing invoices
type ListInvoicesResponse = types.ListResponse[*InvoiceResponse]

func (r *CreateInvoiceRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *CreateInvoiceRequest) ToInvoice() *invoice.Invoice {
	status := r.Status
	if status == "" {
		status = types.InvoiceStatusDraft
	}
	now := time.Now().UTC()
	return &invoice.Invoice{
		SubscriptionID: r.SubscriptionID,
		CustomerID:     r.CustomerID,
		Amount:         r.Amount,
		DueDate:        r.DueDate,
		Status:         status,
		LineItems:      toLineItems(r.LineItems),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (r *UpdateInvoiceRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// Apply merges the set fields of the request over the existing record.
// Unset fields are left untouched; refinements run against the merge, so a
// pre-existing paidAt still satisfies the PAID coupling when the update
// does not supply one.
func (r *UpdateInvoiceRequest) Apply(inv *invoice.Invoice) {
	if r.Status != nil {
		inv.Status = *r.Status
	}
	if r.DueDate != nil {
		inv.DueDate = *r.DueDate
	}
	if r.PaidAt != nil {
		inv.PaidAt = r.PaidAt
	}
	if r.Amount != nil {
		inv.Amount = *r.Amount
	}
	if r.LineItems != nil {
		inv.LineItems = toLineItems(r.LineItems)
	}
	inv.UpdatedAt = time.Now().UTC()
}

func toLineItems(items []LineItemRequest) invoice.LineItems {
	return lo.Map(items, func(item LineItemRequest, _ int) invoice.LineItem {
		return invoice.LineItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total,
		}
	})
}
