package dto

import (
	"time"

	"github.com/subledger/subledger/internal/domain/customer"
	"github.com/subledger/subledger/internal/types"
	"github.com/subledger/subledger/internal/validator"
)

type CreateCustomerRequest struct {
	Name   string               `json:"name" validate:"required"`
	Email  string               `json:"email" validate:"required,email"`
	Status types.CustomerStatus `json:"status" validate:"omitempty,oneof=ACTIVE TRIALING CANCELLED"`
}

type UpdateCustomerRequest struct {
	Name   *string               `json:"name" validate:"omitempty,min=1"`
	Email  *string               `json:"email" validate:"omitempty,email"`
	Status *types.CustomerStatus `json:"status" validate:"omitempty,oneof=ACTIVE TRIALING CANCELLED"`
}

type CustomerResponse struct {
	*customer.Customer
	SubscriptionCount *int `json:"subscriptionCount,omitempty"`
	InvoiceCount      *int `json:"invoiceCount,omitempty"`
}

// ListCustomersResponse represents the response for listing customers
type ListCustomersResponse = types.ListResponse[*CustomerResponse]

func (r *CreateCustomerRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *CreateCustomerRequest) ToCustomer() *customer.Customer {
	status := r.Status
	if status == "" {
		status = types.CustomerStatusActive
	}
	now := time.Now().UTC()
	return &customer.Customer{
		Name:      r.Name,
		Email:     r.Email,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (r *UpdateCustomerRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// Apply merges the set fields of the request over the existing record.
// Unset fields are left untouched.
func (r *UpdateCustomerRequest) Apply(c *customer.Customer) {
	if r.Name != nil {
		c.Name = *r.Name
	}
	if r.Email != nil {
		c.Email = *r.Email
	}
	if r.Status != nil {
		c.Status = *r.Status
	}
	c.UpdatedAt = time.Now().UTC()
}
