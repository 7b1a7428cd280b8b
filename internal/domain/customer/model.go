package customer

import (
	"time"

	"github.com/subledger/subledger/internal/types"
)

// Customer represents a customer in the system
type Customer struct {
	// ID is the store-assigned identifier, immutable after creation
	ID int64 `db:"id" json:"id"`

	// Name is the display name of the customer
	Name string `db:"name" json:"name"`

	// Email is unique across all customers
	Email string `db:"email" json:"email"`

	// Status is operator-set; there is no state machine behind it
	Status types.CustomerStatus `db:"status" json:"status"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Validate checks the static invariants of a customer record
func (c *Customer) Validate() error {
	return c.Status.Validate()
}
