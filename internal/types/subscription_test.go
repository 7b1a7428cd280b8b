package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubscriptionStatusCanTransition(t *testing.T) {
	cases := []struct {
		from    SubscriptionStatus
		to      SubscriptionStatus
		allowed bool
	}{
		{SubscriptionStatusTrialing, SubscriptionStatusActive, true},
		{SubscriptionStatusTrialing, SubscriptionStatusPastDue, false},
		{SubscriptionStatusTrialing, SubscriptionStatusCancelled, false},
		{SubscriptionStatusActive, SubscriptionStatusPastDue, true},
		{SubscriptionStatusActive, SubscriptionStatusCancelled, true},
		{SubscriptionStatusActive, SubscriptionStatusTrialing, false},
		{SubscriptionStatusPastDue, SubscriptionStatusCancelled, true},
		{SubscriptionStatusPastDue, SubscriptionStatusActive, false},
		{SubscriptionStatusCancelled, SubscriptionStatusActive, false},
		{SubscriptionStatusCancelled, SubscriptionStatusTrialing, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransition(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestSubscriptionStatusSameStatusAllowed(t *testing.T) {
	for _, status := range []SubscriptionStatus{
		SubscriptionStatusTrialing,
		SubscriptionStatusActive,
		SubscriptionStatusPastDue,
		SubscriptionStatusCancelled,
	} {
		assert.True(t, status.CanTransition(status), "%s -> %s", status, status)
	}
}

func TestSubscriptionStatusIsTerminal(t *testing.T) {
	assert.True(t, SubscriptionStatusCancelled.IsTerminal())
	assert.False(t, SubscriptionStatusTrialing.IsTerminal())
	assert.False(t, SubscriptionStatusActive.IsTerminal())
	assert.False(t, SubscriptionStatusPastDue.IsTerminal())
}

func TestSubscriptionStatusValidate(t *testing.T) {
	assert.NoError(t, SubscriptionStatusActive.Validate())
	assert.Error(t, SubscriptionStatus("PAUSED").Validate())
	assert.Error(t, SubscriptionStatus("active").Validate())
}
