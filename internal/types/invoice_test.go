package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvoiceStatusCanTransition(t *testing.T) {
	cases := []struct {
		from    InvoiceStatus
		to      InvoiceStatus
		allowed bool
	}{
		{InvoiceStatusDraft, InvoiceStatusOpen, true},
		{InvoiceStatusDraft, InvoiceStatusFailed, true},
		{InvoiceStatusDraft, InvoiceStatusPaid, false},
		{InvoiceStatusOpen, InvoiceStatusPaid, true},
		{InvoiceStatusOpen, InvoiceStatusFailed, true},
		{InvoiceStatusOpen, InvoiceStatusDraft, false},
		{InvoiceStatusPaid, InvoiceStatusOpen, false},
		{InvoiceStatusPaid, InvoiceStatusFailed, false},
		{InvoiceStatusFailed, InvoiceStatusOpen, false},
		{InvoiceStatusFailed, InvoiceStatusPaid, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransition(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestInvoiceStatusIsTerminal(t *testing.T) {
	assert.True(t, InvoiceStatusPaid.IsTerminal())
	assert.True(t, InvoiceStatusFailed.IsTerminal())
	assert.False(t, InvoiceStatusDraft.IsTerminal())
	assert.False(t, InvoiceStatusOpen.IsTerminal())
}

func TestInvoiceStatusValidate(t *testing.T) {
	assert.NoError(t, InvoiceStatusDraft.Validate())
	assert.Error(t, InvoiceStatus("VOID").Validate())
	assert.Error(t, InvoiceStatus("paid").Validate())
}
