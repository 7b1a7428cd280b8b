package types

import (
	ierr "github.com/subledger/subledger/internal/errors"
	"github.com/samber/lo"
)

// CustomerStatus is the operator-set status of a customer. There is no
// state machine behind it.
type CustomerStatus string

const (
	CustomerStatusActive    CustomerStatus = "ACTIVE"
	CustomerStatusTrialing  CustomerStatus = "TRIALING"
	CustomerStatusCancelled CustomerStatus = "CANCELLED"
)

func (s CustomerStatus) String() string {
	return string(s)
}

func (s CustomerStatus) Validate() error {
	allowed := []CustomerStatus{
		CustomerStatusActive,
		CustomerStatusTrialing,
		CustomerStatusCancelled,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid customer status").
			WithHint("Invalid customer status").
			WithReportableDetails(map[string]any{
				"status":  s,
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CustomerFilter represents the query options for listing customers
type CustomerFilter struct {
	QueryFilter
	Email  *string         `json:"email,omitempty" form:"email"`
	Status *CustomerStatus `json:"status,omitempty" form:"status"`
}

func NewCustomerFilter() *CustomerFilter {
	return &CustomerFilter{QueryFilter: DefaultQueryFilter}
}
