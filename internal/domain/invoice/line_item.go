package invoice

import (
	"database/sql/driver"
	"encoding/json"

	ierr "github.com/subledger/subledger/internal/errors"
)

// LineItem is one billable component of an invoice, contributing
// Quantity × UnitPrice to the invoice total.
type LineItem struct {
	Description string `json:"description"`
	Quantity    int64  `json:"quantity"`
	UnitPrice   int64  `json:"unitPrice"`
	Total       int64  `json:"total"`
}

// LineItems is the ordered set of line items on an invoice. It persists as
// a single JSONB column.
type LineItems []LineItem

// Value implements driver.Valuer for JSONB storage
func (l LineItems) Value() (driver.Value, error) {
	return json.Marshal(l)
}

// Scan implements sql.Scanner for JSONB storage
func (l *LineItems) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	data, ok := value.([]byte)
	if !ok {
		return ierr.NewError("unexpected line items column type").
			Mark(ierr.ErrDatabase)
	}
	return json.Unmarshal(data, l)
}

// Sum returns the total across all line items
func (l LineItems) Sum() int64 {
	var sum int64
	for _, item := range l {
		sum += item.Total
	}
	return sum
}
