package subscription

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/subledger/subledger/internal/types"
)

func validSubscription(now time.Time) *Subscription {
	return &Subscription{
		CustomerID:         1,
		PlanID:             1,
		Status:             types.SubscriptionStatusTrialing,
		StartDate:          now,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   now.Add(30 * 24 * time.Hour),
	}
}

func TestSubscriptionValidate(t *testing.T) {
	now := time.Now().UTC()

	t.Run("valid subscription", func(t *testing.T) {
		assert.NoError(t, validSubscription(now).Validate())
	})

	t.Run("period end before start", func(t *testing.T) {
		sub := validSubscription(now)
		sub.CurrentPeriodEnd = now.Add(-time.Hour)
		refinements := sub.Refinements()
		assert.Len(t, refinements, 1)
		assert.Equal(t, "currentPeriodEnd", refinements[0].Path)
	})

	t.Run("cancelled requires canceledAt", func(t *testing.T) {
		sub := validSubscription(now)
		sub.Status = types.SubscriptionStatusCancelled
		refinements := sub.Refinements()
		assert.Len(t, refinements, 1)
		assert.Equal(t, "canceledAt", refinements[0].Path)
	})

	t.Run("canceledAt without cancelled status", func(t *testing.T) {
		sub := validSubscription(now)
		sub.CanceledAt = lo.ToPtr(now)
		refinements := sub.Refinements()
		assert.Len(t, refinements, 1)
		assert.Equal(t, "canceledAt", refinements[0].Path)
	})
}

func TestSubscriptionValidateNew(t *testing.T) {
	now := time.Now().UTC()

	t.Run("future period end accepted", func(t *testing.T) {
		assert.NoError(t, validSubscription(now).ValidateNew(now))
	})

	t.Run("past period end rejected", func(t *testing.T) {
		sub := validSubscription(now)
		sub.CurrentPeriodStart = now.Add(-48 * time.Hour)
		sub.CurrentPeriodEnd = now.Add(-24 * time.Hour)
		assert.Error(t, sub.ValidateNew(now))
	})
}

func TestSubscriptionValidateCancelRecency(t *testing.T) {
	now := time.Now().UTC()

	cancelled := func(canceledAt time.Time) *Subscription {
		sub := validSubscription(now)
		sub.Status = types.SubscriptionStatusCancelled
		sub.CanceledAt = &canceledAt
		return sub
	}

	t.Run("recent cancel accepted", func(t *testing.T) {
		assert.NoError(t, cancelled(now.Add(-10*time.Minute)).ValidateCancelRecency(now))
	})

	t.Run("backdated cancel rejected", func(t *testing.T) {
		assert.Error(t, cancelled(now.Add(-2*time.Hour)).ValidateCancelRecency(now))
	})

	t.Run("period end cancel exempt", func(t *testing.T) {
		sub := cancelled(now.Add(-2 * time.Hour))
		sub.CancelAtPeriodEnd = true
		assert.NoError(t, sub.ValidateCancelRecency(now))
	})

	t.Run("non cancelled exempt", func(t *testing.T) {
		assert.NoError(t, validSubscription(now).ValidateCancelRecency(now))
	})
}
