package plan

import (
	"time"

	ierr "github.com/subledger/subledger/internal/errors"
	"github.com/subledger/subledger/internal/types"
)

// Plan represents a billing plan subscriptions are priced against
type Plan struct {
	// ID is the store-assigned identifier, immutable after creation
	ID int64 `db:"id" json:"id"`

	// Name is unique across all plans
	Name string `db:"name" json:"name"`

	// Description is optional operator-facing text
	Description *string `db:"description" json:"description"`

	// Price is in minor currency units
	Price int64 `db:"price" json:"price"`

	// BillingInterval is the cadence the plan bills on
	BillingInterval types.BillingInterval `db:"billing_interval" json:"billingInterval"`

	// TrialPeriodDays is absent when the plan has no trial
	TrialPeriodDays *int `db:"trial_period_days" json:"trialPeriodDays"`

	// IsActive soft-disables a plan without deleting it
	IsActive bool `db:"is_active" json:"isActive"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Validate checks the static invariants of a plan record
func (p *Plan) Validate() error {
	if err := p.BillingInterval.Validate(); err != nil {
		return err
	}
	if p.Price < 0 {
		return ierr.NewError("plan price must be non-negative").
			WithHint("Price must be a non-negative integer in minor units").
			Mark(ierr.ErrValidation)
	}
	if p.TrialPeriodDays != nil && *p.TrialPeriodDays <= 0 {
		return ierr.NewError("trial period must be positive").
			WithHint("Trial period days must be a positive integer").
			Mark(ierr.ErrValidation)
	}
	return nil
}
