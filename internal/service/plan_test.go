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

type PlanServiceSuite struct {
	testutil.BaseServiceTestSuite
	planService PlanService
}

func TestPlanService(t *testing.T) {
	suite.Run(t, new(PlanServiceSuite))
}

func (s *PlanServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.planService = NewPlanService(s.params())
}

func (s *PlanServiceSuite) params() ServiceParams {
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

func (s *PlanServiceSuite) TestCreatePlan() {
	s.Run("Valid Plan", func() {
		resp, err := s.planService.CreatePlan(s.GetContext(), dto.CreatePlanRequest{
			Name:            "Pro",
			Price:           4900,
			BillingInterval: types.BillingIntervalMonthly,
		})
		s.NoError(err)
		s.NotZero(resp.Plan.ID)
		s.True(resp.Plan.IsActive)
		s.Nil(resp.Plan.TrialPeriodDays)
	})

	s.Run("Free Plan", func() {
		resp, err := s.planService.CreatePlan(s.GetContext(), dto.CreatePlanRequest{
			Name:            "Free",
			Price:           0,
			BillingInterval: types.BillingIntervalYearly,
		})
		s.NoError(err)
		s.Equal(int64(0), resp.Plan.Price)
	})

	s.Run("Negative Price", func() {
		_, err := s.planService.CreatePlan(s.GetContext(), dto.CreatePlanRequest{
			Name:            "Broken",
			Price:           -1,
			BillingInterval: types.BillingIntervalMonthly,
		})
		s.Error(err)
		s.True(ierr.IsValidation(err))
	})

	s.Run("Invalid Interval", func() {
		_, err := s.planService.CreatePlan(s.GetContext(), dto.CreatePlanRequest{
			Name:            "Weekly",
			Price:           100,
			BillingInterval: types.BillingInterval("WEEKLY"),
		})
		s.Error(err)
		s.True(ierr.IsValidation(err))
	})

	s.Run("Zero Trial Days", func() {
		_, err := s.planService.CreatePlan(s.GetContext(), dto.CreatePlanRequest{
			Name:            "No Trial",
			Price:           100,
			BillingInterval: types.BillingIntervalMonthly,
			TrialPeriodDays: lo.ToPtr(0),
		})
		s.Error(err)
		s.True(ierr.IsValidation(err))
	})

	s.Run("Duplicate Name", func() {
		_, err := s.planService.CreatePlan(s.GetContext(), dto.CreatePlanRequest{
			Name:            "Pro",
			Price:           5900,
			BillingInterval: types.BillingIntervalYearly,
		})
		s.Error(err)
		s.True(ierr.IsAlreadyExists(err))
	})
}

func (s *PlanServiceSuite) TestGetPlans() {
	for _, p := range []dto.CreatePlanRequest{
		{Name: "A", Price: 100, BillingInterval: types.BillingIntervalMonthly},
		{Name: "B", Price: 200, BillingInterval: types.BillingIntervalYearly, IsActive: lo.ToPtr(false)},
	} {
		_, err := s.planService.CreatePlan(s.GetContext(), p)
		s.NoError(err)
	}

	s.Run("All", func() {
		resp, err := s.planService.GetPlans(s.GetContext(), types.NewPlanFilter())
		s.NoError(err)
		s.Len(resp.Items, 2)
	})

	s.Run("Active Only", func() {
		filter := types.NewPlanFilter()
		filter.IsActive = lo.ToPtr(true)
		resp, err := s.planService.GetPlans(s.GetContext(), filter)
		s.NoError(err)
		s.Len(resp.Items, 1)
		s.Equal("A", resp.Items[0].Plan.Name)
	})
}

func (s *PlanServiceSuite) TestUpdatePlan() {
	created, err := s.planService.CreatePlan(s.GetContext(), dto.CreatePlanRequest{
		Name:            "Pro",
		Price:           4900,
		BillingInterval: types.BillingIntervalMonthly,
	})
	s.NoError(err)

	s.Run("Partial Update", func() {
		resp, err := s.planService.UpdatePlan(s.GetContext(), created.Plan.ID, dto.UpdatePlanRequest{
			Price: lo.ToPtr(int64(5900)),
		})
		s.NoError(err)
		s.Equal(int64(5900), resp.Plan.Price)
		s.Equal("Pro", resp.Plan.Name)
	})

	s.Run("Deactivate", func() {
		resp, err := s.planService.UpdatePlan(s.GetContext(), created.Plan.ID, dto.UpdatePlanRequest{
			IsActive: lo.ToPtr(false),
		})
		s.NoError(err)
		s.False(resp.Plan.IsActive)
	})

	s.Run("Not Found", func() {
		_, err := s.planService.UpdatePlan(s.GetContext(), 9999, dto.UpdatePlanRequest{
			Price: lo.ToPtr(int64(100)),
		})
		s.Error(err)
		s.True(ierr.IsNotFound(err))
	})
}

func (s *PlanServiceSuite) TestDeletePlan() {
	created, err := s.planService.CreatePlan(s.GetContext(), dto.CreatePlanRequest{
		Name:            "Guarded",
		Price:           1000,
		BillingInterval: types.BillingIntervalMonthly,
	})
	s.NoError(err)

	customerService := NewCustomerService(s.params())
	cust, err := customerService.CreateCustomer(s.GetContext(), dto.CreateCustomerRequest{
		Name:  "Subscriber",
		Email: "sub@example.test",
	})
	s.NoError(err)

	subService := NewSubscriptionService(s.params())
	sub, err := subService.CreateSubscription(s.GetContext(), dto.CreateSubscriptionRequest{
		CustomerID:       cust.Customer.ID,
		PlanID:           created.Plan.ID,
		Status:           types.SubscriptionStatusActive,
		CurrentPeriodEnd: time.Now().UTC().Add(30 * 24 * time.Hour),
	})
	s.NoError(err)

	s.Run("Blocked While Subscribed", func() {
		err := s.planService.DeletePlan(s.GetContext(), created.Plan.ID)
		s.Error(err)
		s.True(ierr.IsConflict(err))
	})

	s.Run("Allowed After Cancel", func() {
		_, err := subService.CancelSubscription(s.GetContext(), sub.Subscription.ID, dto.CancelSubscriptionRequest{
			CancelAtPeriodEnd: lo.ToPtr(false),
		})
		s.NoError(err)

		err = s.planService.DeletePlan(s.GetContext(), created.Plan.ID)
		s.NoError(err)

		_, err = s.planService.GetPlan(s.GetContext(), created.Plan.ID)
		s.True(ierr.IsNotFound(err))
	})
}
