package dto

import (
	"time"

	"github.com/subledger/subledger/internal/domain/customer"
	"github.com/subledger/subledger/internal/domain/plan"
	"github.com/subledger/subledger/internal/domain/subscription"
	"github.com/subledger/subledger/internal/types"
	"github.com/subledger/subledger/internal/validator"
)

type CreateSubscriptionRequest struct {
	CustomerID        int64                    `json:"customerId" validate:"required,gt=0"`
	PlanID            int64                    `json:"planId" validate:"required,gt=0"`
	Status            types.SubscriptionStatus `json:"status" validate:"omitempty,oneof=TRIALING ACTIVE PAST_DUE CANCELLED"`
	CurrentPeriodEnd  time.Time                `json:"currentPeriodEnd" validate:"required"`
	CancelAtPeriodEnd bool                     `json:"cancelAtPeriodEnd"`
}

type UpdateSubscriptionRequest struct {
	Status             *types.SubscriptionStatus `json:"status" validate:"omitempty,oneof=TRIALING ACTIVE PAST_DUE CANCELLED"`
	CurrentPeriodStart *time.Time                `json:"currentPeriodStart"`
	CurrentPeriodEnd   *time.Time                `json:"currentPeriodEnd"`
	CancelAtPeriodEnd  *bool                     `json:"cancelAtPeriodEnd"`
	CanceledAt         *time.Time                `json:"canceledAt"`
}

// CancelSubscriptionRequest selects the cancellation policy. Defaults to
// cancelling at period end.
type CancelSubscriptionRequest struct {
	CancelAtPeriodEnd *bool `json:"cancelAtPeriodEnd"`
}

type SubscriptionResponse struct {
	*subscription.Subscription
	Customer *customer.Customer `json:"customer,omitempty"`
	Plan     *plan.Plan         `json:"plan,omitempty"`
}

// ListSubscriptionsResponse represents the response for listing subscriptions
type ListSubscriptionsResponse = types.ListResponse[*SubscriptionResponse]

func (r *CreateSubscriptionRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *CreateSubscriptionRequest) ToSubscription() *subscription.Subscription {
	status := r.Status
	if status == "" {
		status = types.SubscriptionStatusTrialing
	}
	now := time.Now().UTC()
	return &subscription.Subscription{
		CustomerID:         r.CustomerID,
		PlanID:             r.PlanID,
		Status:             status,
		StartDate:          now,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   r.CurrentPeriodEnd,
		CancelAtPeriodEnd:  r.CancelAtPeriodEnd,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func (r *UpdateSubscriptionRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// Apply merges the set fields of the request over the existing record.
// Unset fields are left untouched; refinements run against the merge.
func (r *UpdateSubscriptionRequest) Apply(s *subscription.Subscription) {
	if r.Status != nil {
		s.Status = *r.Status
	}
	if r.CurrentPeriodStart != nil {
		s.CurrentPeriodStart = *r.CurrentPeriodStart
	}
	if r.CurrentPeriodEnd != nil {
		s.CurrentPeriodEnd = *r.CurrentPeriodEnd
	}
	if r.CancelAtPeriodEnd != nil {
		s.CancelAtPeriodEnd = *r.CancelAtPeriodEnd
	}
	if r.CanceledAt != nil {
		s.CanceledAt = r.CanceledAt
	}
	s.UpdatedAt = time.Now().UTC()
}

// GetCancelAtPeriodEnd returns the requested policy, defaulting to true
func (r *CancelSubscriptionRequest) GetCancelAtPeriodEnd() bool {
	if r.CancelAtPeriodEnd == nil {
		return true
	}
	return *r.CancelAtPeriodEnd
}
