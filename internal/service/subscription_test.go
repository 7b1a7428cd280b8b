package service

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
	"github.com/subledger/subledger/internal/api/dto"
	ierr "github.com/subledger/subledger/internal/errors"
	"github.com/subledger/subledger/internal/testutil"
	"github.com/subledger/subledger/internal/types"
)

type SubscriptionServiceSuite struct {
	testutil.BaseServiceTestSuite
	subscriptionService SubscriptionService
	customerID          int64
	planID              int64
}

func TestSubscriptionService(t *testing.T) {
	suite.Run(t, new(SubscriptionServiceSuite))
}

func (s *SubscriptionServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.subscriptionService = NewSubscriptionService(s.params())

	cust, err := NewCustomerService(s.params()).CreateCustomer(s.GetContext(), dto.CreateCustomerRequest{
		Name:  "Acme Corp",
		Email: "billing@acme.test",
	})
	s.NoError(err)
	s.customerID = cust.Customer.ID

	p, err := NewPlanService(s.params()).CreatePlan(s.GetContext(), dto.CreatePlanRequest{
		Name:            "Pro",
		Price:           4900,
		BillingInterval: types.BillingIntervalMonthly,
	})
	s.NoError(err)
	s.planID = p.Plan.ID
}

func (s *SubscriptionServiceSuite) params() ServiceParams {
	stores := s.GetStores()
	return ServiceParams{
		Logger:       s.GetLogger(),
		Config:       s.GetConfig(),
		DB:           s.GetDB(),
		Cache:        s.GetCache(),
		CustomerRepo: stores.CustomerRepo,
		PlanRepo:     stores.PlanRepo,
		SubRepo:      stores.SubscriptionRepo,
		InvoiceRepo:  stores.InvoiceRepo,
	}
}

func (s *SubscriptionServiceSuite) createSubscription(status types.SubscriptionStatus) *dto.SubscriptionResponse {
	resp, err := s.subscriptionService.CreateSubscription(s.GetContext(), dto.CreateSubscriptionRequest{
		CustomerID:       s.customerID,
		PlanID:           s.planID,
		Status:           status,
		CurrentPeriodEnd: time.Now().UTC().Add(30 * 24 * time.Hour),
	})
	s.NoError(err)
	return resp
}

func (s *SubscriptionServiceSuite) TestCreateSubscription() {
	s.Run("Defaults to Trialing", func() {
		resp := s.createSubscription("")
		s.Equal(types.SubscriptionStatusTrialing, resp.Subscription.Status)
		s.False(resp.Subscription.CancelAtPeriodEnd)
		s.Nil(resp.Subscription.CanceledAt)
		s.False(resp.Subscription.StartDate.IsZero())
		s.False(resp.Subscription.CurrentPeriodStart.IsZero())
	})

	s.Run("Unknown Customer", func() {
		_, err := s.subscriptionService.CreateSubscription(s.GetContext(), dto.CreateSubscriptionRequest{
			CustomerID:       9999,
			PlanID:           s.planID,
			CurrentPeriodEnd: time.Now().UTC().Add(24 * time.Hour),
		})
		s.Error(err)
		s.True(ierr.IsReferenceNotFound(err))
	})

	s.Run("Unknown Plan", func() {
		_, err := s.subscriptionService.CreateSubscription(s.GetContext(), dto.CreateSubscriptionRequest{
			CustomerID:       s.customerID,
			PlanID:           9999,
			CurrentPeriodEnd: time.Now().UTC().Add(24 * time.Hour),
		})
		s.Error(err)
		s.True(ierr.IsReferenceNotFound(err))
	})

	s.Run("Period End in the Past", func() {
		_, err := s.subscriptionService.CreateSubscription(s.GetContext(), dto.CreateSubscriptionRequest{
			CustomerID:       s.customerID,
			PlanID:           s.planID,
			CurrentPeriodEnd: time.Now().UTC().Add(-24 * time.Hour),
		})
		s.Error(err)
		s.True(ierr.IsValidation(err))
	})
}

func (s *SubscriptionServiceSuite) TestGetSubscription() {
	created := s.createSubscription("")

	s.Run("Expands Customer and Plan", func() {
		resp, err := s.subscriptionService.GetSubscription(s.GetContext(), created.Subscription.ID)
		s.NoError(err)
		s.NotNil(resp.Customer)
		s.NotNil(resp.Plan)
		s.Equal(s.customerID, resp.Customer.ID)
		s.Equal(s.planID, resp.Plan.ID)
	})

	s.Run("Not Found", func() {
		_, err := s.subscriptionService.GetSubscription(s.GetContext(), 9999)
		s.Error(err)
		s.True(ierr.IsNotFound(err))
	})
}

func (s *SubscriptionServiceSuite) TestStatusTransitions() {
	s.Run("Trialing to Active", func() {
		created := s.createSubscription("")
		resp, err := s.subscriptionService.UpdateSubscription(s.GetContext(), created.Subscription.ID, dto.UpdateSubscriptionRequest{
			Status: lo.ToPtr(types.SubscriptionStatusActive),
		})
		s.NoError(err)
		s.Equal(types.SubscriptionStatusActive, resp.Subscription.Status)
	})

	s.Run("Trialing to Past Due Rejected", func() {
		created := s.createSubscription("")
		_, err := s.subscriptionService.UpdateSubscription(s.GetContext(), created.Subscription.ID, dto.UpdateSubscriptionRequest{
			Status: lo.ToPtr(types.SubscriptionStatusPastDue),
		})
		s.Error(err)
		s.True(ierr.IsConflict(err))
	})

	s.Run("Active to Past Due", func() {
		created := s.createSubscription(types.SubscriptionStatusActive)
		resp, err := s.subscriptionService.UpdateSubscription(s.GetContext(), created.Subscription.ID, dto.UpdateSubscriptionRequest{
			Status: lo.ToPtr(types.SubscriptionStatusPastDue),
		})
		s.NoError(err)
		s.Equal(types.SubscriptionStatusPastDue, resp.Subscription.Status)
	})

	s.Run("Cancelled is Terminal", func() {
		created := s.createSubscription(types.SubscriptionStatusActive)
		_, err := s.subscriptionService.CancelSubscription(s.GetContext(), created.Subscription.ID, dto.CancelSubscriptionRequest{
			CancelAtPeriodEnd: lo.ToPtr(false),
		})
		s.NoError(err)

		_, err = s.subscriptionService.UpdateSubscription(s.GetContext(), created.Subscription.ID, dto.UpdateSubscriptionRequest{
			Status: lo.ToPtr(types.SubscriptionStatusActive),
		})
		s.Error(err)
		s.True(ierr.IsConflict(err))
	})

	s.Run("Same Status Allowed", func() {
		created := s.createSubscription(types.SubscriptionStatusActive)
		resp, err := s.subscriptionService.UpdateSubscription(s.GetContext(), created.Subscription.ID, dto.UpdateSubscriptionRequest{
			Status: lo.ToPtr(types.SubscriptionStatusActive),
		})
		s.NoError(err)
		s.Equal(types.SubscriptionStatusActive, resp.Subscription.Status)
	})
}

func (s *SubscriptionServiceSuite) TestUpdateSubscription() {
	s.Run("Cancelled Without CanceledAt Rejected", func() {
		created := s.createSubscription(types.SubscriptionStatusActive)
		_, err := s.subscriptionService.UpdateSubscription(s.GetContext(), created.Subscription.ID, dto.UpdateSubscriptionRequest{
			Status: lo.ToPtr(types.SubscriptionStatusCancelled),
		})
		s.Error(err)
		s.True(ierr.IsValidation(err))
	})

	s.Run("Backdated Cancel Rejected", func() {
		created := s.createSubscription(types.SubscriptionStatusActive)
		_, err := s.subscriptionService.UpdateSubscription(s.GetContext(), created.Subscription.ID, dto.UpdateSubscriptionRequest{
			Status:     lo.ToPtr(types.SubscriptionStatusCancelled),
			CanceledAt: lo.ToPtr(time.Now().UTC().Add(-2 * time.Hour)),
		})
		s.Error(err)
		s.True(ierr.IsConflict(err))
	})

	s.Run("Recent Cancel Accepted", func() {
		created := s.createSubscription(types.SubscriptionStatusActive)
		resp, err := s.subscriptionService.UpdateSubscription(s.GetContext(), created.Subscription.ID, dto.UpdateSubscriptionRequest{
			Status:     lo.ToPtr(types.SubscriptionStatusCancelled),
			CanceledAt: lo.ToPtr(time.Now().UTC().Add(-10 * time.Minute)),
		})
		s.NoError(err)
		s.Equal(types.SubscriptionStatusCancelled, resp.Subscription.Status)
	})

	s.Run("Period End Before Start Rejected", func() {
		created := s.createSubscription("")
		_, err := s.subscriptionService.UpdateSubscription(s.GetContext(), created.Subscription.ID, dto.UpdateSubscriptionRequest{
			CurrentPeriodEnd: lo.ToPtr(created.Subscription.CurrentPeriodStart.Add(-time.Hour)),
		})
		s.Error(err)
		s.True(ierr.IsValidation(err))
	})
}

func (s *SubscriptionServiceSuite) TestCancelSubscription() {
	s.Run("At Period End by Default", func() {
		created := s.createSubscription(types.SubscriptionStatusActive)
		resp, err := s.subscriptionService.CancelSubscription(s.GetContext(), created.Subscription.ID, dto.CancelSubscriptionRequest{})
		s.NoError(err)
		s.True(resp.Subscription.CancelAtPeriodEnd)
		s.Equal(types.SubscriptionStatusActive, resp.Subscription.Status)
		s.Nil(resp.Subscription.CanceledAt)
	})

	s.Run("Immediate", func() {
		created := s.createSubscription(types.SubscriptionStatusActive)
		resp, err := s.subscriptionService.CancelSubscription(s.GetContext(), created.Subscription.ID, dto.CancelSubscriptionRequest{
			CancelAtPeriodEnd: lo.ToPtr(false),
		})
		s.NoError(err)
		s.Equal(types.SubscriptionStatusCancelled, resp.Subscription.Status)
		s.NotNil(resp.Subscription.CanceledAt)
		s.False(resp.Subscription.CancelAtPeriodEnd)
	})

	s.Run("Already Cancelled", func() {
		created := s.createSubscription(types.SubscriptionStatusActive)
		_, err := s.subscriptionService.CancelSubscription(s.GetContext(), created.Subscription.ID, dto.CancelSubscriptionRequest{
			CancelAtPeriodEnd: lo.ToPtr(false),
		})
		s.NoError(err)

		_, err = s.subscriptionService.CancelSubscription(s.GetContext(), created.Subscription.ID, dto.CancelSubscriptionRequest{})
		s.Error(err)
		s.True(ierr.IsConflict(err))
	})

	s.Run("Not Found", func() {
		_, err := s.subscriptionService.CancelSubscription(s.GetContext(), 9999, dto.CancelSubscriptionRequest{})
		s.Error(err)
		s.True(ierr.IsNotFound(err))
	})
}

func (s *SubscriptionServiceSuite) TestDeleteSubscription() {
	created := s.createSubscription("")

	invService := NewInvoiceService(s.params())
	invResp, err := invService.CreateInvoice(s.GetContext(), dto.CreateInvoiceRequest{
		SubscriptionID: created.Subscription.ID,
		CustomerID:     s.customerID,
		Amount:         500,
		DueDate:        time.Now().UTC().Add(14 * 24 * time.Hour),
		LineItems: []dto.LineItemRequest{
			{Description: "Usage", Quantity: 1, UnitPrice: 500, Total: 500},
		},
	})
	s.NoError(err)

	// Warm the invoice cache so the cascade has a stale entry to evict
	_, err = invService.GetInvoice(s.GetContext(), invResp.Invoice.ID)
	s.NoError(err)

	s.Run("Cascade Delete", func() {
		err := s.subscriptionService.DeleteSubscription(s.GetContext(), created.Subscription.ID)
		s.NoError(err)

		_, err = s.subscriptionService.GetSubscription(s.GetContext(), created.Subscription.ID)
		s.True(ierr.IsNotFound(err))

		invCount, err := s.GetStores().InvoiceRepo.Count(s.GetContext(), &types.InvoiceFilter{
			SubscriptionID: lo.ToPtr(created.Subscription.ID),
		})
		s.NoError(err)
		s.Equal(0, invCount)

		// Cascaded invoices must not survive in the cache
		_, err = invService.GetInvoice(s.GetContext(), invResp.Invoice.ID)
		s.Error(err)
		s.True(ierr.IsNotFound(err))
	})
}
