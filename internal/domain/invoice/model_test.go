package invoice

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/subledger/subledger/internal/types"
)

func validInvoice() *Invoice {
	return &Invoice{
		SubscriptionID: 1,
		CustomerID:     1,
		Amount:         1250,
		DueDate:        time.Now().UTC().Add(14 * 24 * time.Hour),
		Status:         types.InvoiceStatusDraft,
		LineItems: LineItems{
			{Description: "Seats", Quantity: 2, UnitPrice: 500, Total: 1000},
			{Description: "Support", Quantity: 1, UnitPrice: 250, Total: 250},
		},
	}
}

func TestInvoiceValidate(t *testing.T) {
	now := time.Now().UTC()

	t.Run("valid invoice", func(t *testing.T) {
		assert.NoError(t, validInvoice().Validate(now))
	})

	t.Run("stale line item total", func(t *testing.T) {
		inv := validInvoice()
		inv.LineItems[0].Total = 999
		inv.Amount = 1249
		err := inv.Validate(now)
		assert.Error(t, err)

		refinements := inv.Refinements(now)
		assert.Len(t, refinements, 1)
		assert.Equal(t, "lineItems[0].total", refinements[0].Path)
	})

	t.Run("amount mismatch", func(t *testing.T) {
		inv := validInvoice()
		inv.Amount = 9999
		refinements := inv.Refinements(now)
		assert.Len(t, refinements, 1)
		assert.Equal(t, "amount", refinements[0].Path)
	})

	t.Run("paid requires paidAt", func(t *testing.T) {
		inv := validInvoice()
		inv.Status = types.InvoiceStatusPaid
		refinements := inv.Refinements(now)
		assert.Len(t, refinements, 1)
		assert.Equal(t, "paidAt", refinements[0].Path)
	})

	t.Run("paidAt in the future", func(t *testing.T) {
		inv := validInvoice()
		inv.Status = types.InvoiceStatusPaid
		inv.PaidAt = lo.ToPtr(now.Add(time.Hour))
		refinements := inv.Refinements(now)
		assert.Len(t, refinements, 1)
		assert.Equal(t, "paidAt", refinements[0].Path)
	})

	t.Run("paidAt without paid status", func(t *testing.T) {
		inv := validInvoice()
		inv.PaidAt = lo.ToPtr(now.Add(-time.Hour))
		refinements := inv.Refinements(now)
		assert.Len(t, refinements, 1)
		assert.Equal(t, "paidAt", refinements[0].Path)
	})

	t.Run("violations reported in order", func(t *testing.T) {
		inv := validInvoice()
		inv.LineItems[1].Total = 1
		inv.Amount = 42
		inv.Status = types.InvoiceStatusPaid
		refinements := inv.Refinements(now)
		assert.Len(t, refinements, 3)
		assert.Equal(t, "lineItems[1].total", refinements[0].Path)
		assert.Equal(t, "amount", refinements[1].Path)
		assert.Equal(t, "paidAt", refinements[2].Path)
	})
}

func TestLineItemsSum(t *testing.T) {
	items := LineItems{
		{Description: "A", Quantity: 2, UnitPrice: 500, Total: 1000},
		{Description: "B", Quantity: 1, UnitPrice: 250, Total: 250},
	}
	assert.Equal(t, int64(1250), items.Sum())
	assert.Equal(t, int64(0), LineItems{}.Sum())
}
