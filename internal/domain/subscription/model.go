package subscription

import (
	"time"

	ierr "github.com/subledger/subledger/internal/errors"
	"github.com/subledger/subledger/internal/types"
)

// CancelRecencyWindow bounds how far in the past an immediate cancellation
// may be stamped. Anything older is a backdated cancel and is rejected.
const CancelRecencyWindow = time.Hour

// Subscription ties a customer to a plan for a billing period
type Subscription struct {
	// ID is the store-assigned identifier, immutable after creation
	ID int64 `db:"id" json:"id"`

	// CustomerID references the owning customer
	CustomerID int64 `db:"customer_id" json:"customerId"`

	// PlanID references the plan being billed
	PlanID int64 `db:"plan_id" json:"planId"`

	Status types.SubscriptionStatus `db:"status" json:"status"`

	StartDate time.Time `db:"start_date" json:"startDate"`

	CurrentPeriodStart time.Time `db:"current_period_start" json:"currentPeriodStart"`

	// CurrentPeriodEnd must be strictly after CurrentPeriodStart
	CurrentPeriodEnd time.Time `db:"current_period_end" json:"currentPeriodEnd"`

	// CancelAtPeriodEnd records a deferred cancellation intent. Nothing in
	// this service executes the transition at the period boundary; that is
	// left to an external scheduler.
	CancelAtPeriodEnd bool `db:"cancel_at_period_end" json:"cancelAtPeriodEnd"`

	// CanceledAt is set if and only if Status is CANCELLED
	CanceledAt *time.Time `db:"canceled_at" json:"canceledAt"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Refinements evaluates the cross-field invariants and returns every
// violation in declaration order.
func (s *Subscription) Refinements() []ierr.FieldError {
	var fieldErrors []ierr.FieldError

	if !s.CurrentPeriodEnd.After(s.CurrentPeriodStart) {
		fieldErrors = append(fieldErrors, ierr.FieldError{
			Path:    "currentPeriodEnd",
			Message: "current period end must be after current period start",
		})
	}
	if s.Status == types.SubscriptionStatusCancelled && s.CanceledAt == nil {
		fieldErrors = append(fieldErrors, ierr.FieldError{
			Path:    "canceledAt",
			Message: "cancelled subscriptions must have a canceledAt date",
		})
	}
	if s.Status != types.SubscriptionStatusCancelled && s.CanceledAt != nil {
		fieldErrors = append(fieldErrors, ierr.FieldError{
			Path:    "canceledAt",
			Message: "canceledAt is only allowed on cancelled subscriptions",
		})
	}

	return fieldErrors
}

// Validate checks the cross-field invariants of the record
func (s *Subscription) Validate() error {
	if fieldErrors := s.Refinements(); len(fieldErrors) > 0 {
		return ierr.NewError("subscription validation failed").
			WithHint("Subscription fields are inconsistent").
			WithFieldErrors(fieldErrors).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ValidateNew applies the create-only refinement on top of Validate: a new
// subscription's period must end strictly in the future.
func (s *Subscription) ValidateNew(now time.Time) error {
	fieldErrors := s.Refinements()
	if !s.CurrentPeriodEnd.After(now) {
		fieldErrors = append(fieldErrors, ierr.FieldError{
			Path:    "currentPeriodEnd",
			Message: "current period end must be in the future",
		})
	}
	if len(fieldErrors) > 0 {
		return ierr.NewError("subscription validation failed").
			WithHint("Subscription fields are inconsistent").
			WithFieldErrors(fieldErrors).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ValidateCancelRecency distinguishes an immediate cancel from a backdated
// one: a non-period-end cancellation must carry a canceledAt within the
// recency window of now.
func (s *Subscription) ValidateCancelRecency(now time.Time) error {
	if s.Status != types.SubscriptionStatusCancelled || s.CancelAtPeriodEnd || s.CanceledAt == nil {
		return nil
	}
	if s.CanceledAt.Before(now.Add(-CancelRecencyWindow)) {
		return ierr.NewError("immediate cancellation date is not recent").
			WithHint("Immediate cancellations must be stamped within the last hour").
			WithReportableDetails(map[string]any{
				"canceledAt": s.CanceledAt,
				"window":     CancelRecencyWindow.String(),
			}).
			Mark(ierr.ErrConflict)
	}
	return nil
}
