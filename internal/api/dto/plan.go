package dto

import (
	"time"

	"github.com/subledger/subledger/internal/domain/plan"
	"github.com/subledger/subledger/internal/types"
	"github.com/subledger/subledger/internal/validator"
)

type CreatePlanRequest struct {
	Name            string                `json:"name" validate:"required"`
	Description     *string               `json:"description"`
	Price           int64                 `json:"price" validate:"gte=0"`
	BillingInterval types.BillingInterval `json:"billingInterval" validate:"required,oneof=MONTHLY YEARLY"`
	TrialPeriodDays *int                  `json:"trialPeriodDays" validate:"omitempty,gt=0"`
	IsActive        *bool                 `json:"isActive"`
}

type UpdatePlanRequest struct {
	Name            *string                `json:"name" validate:"omitempty,min=1"`
	Description     *string                `json:"description"`
	Price           *int64                 `json:"price" validate:"omitempty,gte=0"`
	BillingInterval *types.BillingInterval `json:"billingInterval" validate:"omitempty,oneof=MONTHLY YEARLY"`
	TrialPeriodDays *int                   `json:"trialPeriodDays" validate:"omitempty,gt=0"`
	IsActive        *bool                  `json:"isActive"`
}

type PlanResponse struct {
	*plan.Plan
	SubscriptionCount *int `json:"subscriptionCount,omitempty"`
}

// ListPlansResponse represents the response for listing plans
type ListPlansResponse = types.ListResponse[*PlanResponse]

func (r *CreatePlanRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *CreatePlanRequest) ToPlan() *plan.Plan {
	isActive := true
	if r.IsActive != nil {
		isActive = *r.IsActive
	}
	now := time.Now().UTC()
	return &plan.Plan{
		Name:            r.Name,
		Description:     r.Description,
		Price:           r.Price,
		BillingInterval: r.BillingInterval,
		TrialPeriodDays: r.TrialPeriodDays,
		IsActive:        isActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func (r *UpdatePlanRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// Apply merges the set fields of the request over the existing record.
// Unset fields are left untouched.
func (r *UpdatePlanRequest) Apply(p *plan.Plan) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Description != nil {
		p.Description = r.Description
	}
	if r.Price != nil {
		p.Price = *r.Price
	}
	if r.BillingInterval != nil {
		p.BillingInterval = *r.BillingInterval
	}
	if r.TrialPeriodDays != nil {
		p.TrialPeriodDays = r.TrialPeriodDays
	}
	if r.IsActive != nil {
		p.IsActive = *r.IsActive
	}
	p.UpdatedAt = time.Now().UTC()
}
