package types

import (
	ierr "github.com/subledger/subledger/internal/errors"
	"github.com/samber/lo"
)

// BillingInterval is the cadence a plan bills on
type BillingInterval string

const (
	BillingIntervalMonthly BillingInterval = "MONTHLY"
	BillingIntervalYearly  BillingInterval = "YEARLY"
)

func (i BillingInterval) String() string {
	return string(i)
}

func (i BillingInterval) Validate() error {
	allowed := []BillingInterval{
		BillingIntervalMonthly,
		BillingIntervalYearly,
	}
	if !lo.Contains(allowed, i) {
		return ierr.NewError("invalid billing interval").
			WithHint("Invalid billing interval").
			WithReportableDetails(map[string]any{
				"billing_interval": i,
				"allowed":          allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PlanFilter represents the query options for listing plans
type PlanFilter struct {
	QueryFilter
	IsActive *bool `json:"isActive,omitempty" form:"isActive"`
}

func NewPlanFilter() *PlanFilter {
	return &PlanFilter{QueryFilter: DefaultQueryFilter}
}
