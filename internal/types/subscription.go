package types

import (
	ierr "github.com/subledger/subledger/internal/errors"
	"github.com/samber/lo"
)

// SubscriptionStatus is the status of a subscription
type SubscriptionStatus string

const (
	SubscriptionStatusTrialing  SubscriptionStatus = "TRIALING"
	SubscriptionStatusActive    SubscriptionStatus = "ACTIVE"
	SubscriptionStatusPastDue   SubscriptionStatus = "PAST_DUE"
	SubscriptionStatusCancelled SubscriptionStatus = "CANCELLED"
)

// subscriptionTransitions is the legal state machine for subscriptions.
// CANCELLED is terminal. The immediate-cancel operation short-circuits this
// table as an operational override.
var subscriptionTransitions = map[SubscriptionStatus][]SubscriptionStatus{
	SubscriptionStatusTrialing:  {SubscriptionStatusActive},
	SubscriptionStatusActive:    {SubscriptionStatusPastDue, SubscriptionStatusCancelled},
	SubscriptionStatusPastDue:   {SubscriptionStatusCancelled},
	SubscriptionStatusCancelled: {},
}

func (s SubscriptionStatus) String() string {
	return string(s)
}

func (s SubscriptionStatus) Validate() error {
	allowed := []SubscriptionStatus{
		SubscriptionStatusTrialing,
		SubscriptionStatusActive,
		SubscriptionStatusPastDue,
		SubscriptionStatusCancelled,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid subscription status").
			WithHint("Invalid subscription status").
			WithReportableDetails(map[string]any{
				"status":  s,
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsTerminal reports whether no further transitions are legal
func (s SubscriptionStatus) IsTerminal() bool {
	return len(subscriptionTransitions[s]) == 0
}

// CanTransition reports whether moving to target is a legal edge.
// Keeping the same status is always allowed.
func (s SubscriptionStatus) CanTransition(target SubscriptionStatus) bool {
	if s == target {
		return true
	}
	return lo.Contains(subscriptionTransitions[s], target)
}

// SubscriptionFilter represents the query options for listing subscriptions
type SubscriptionFilter struct {
	QueryFilter
	CustomerID *int64              `json:"customerId,omitempty" form:"customerId"`
	PlanID     *int64              `json:"planId,omitempty" form:"planId"`
	Status     *SubscriptionStatus `json:"status,omitempty" form:"status"`
}

func NewSubscriptionFilter() *SubscriptionFilter {
	return &SubscriptionFilter{QueryFilter: DefaultQueryFilter}
}
