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

type InvoiceServiceSuite struct {
	testutil.BaseServiceTestSuite
	invoiceService InvoiceService
	customerID     int64
	subscriptionID int64
}

func TestInvoiceService(t *testing.T) {
	suite.Run(t, new(InvoiceServiceSuite))
}

func (s *InvoiceServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.invoiceService = NewInvoiceService(s.params())

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

	sub, err := NewSubscriptionService(s.params()).CreateSubscription(s.GetContext(), dto.CreateSubscriptionRequest{
		CustomerID:       s.customerID,
		PlanID:           p.Plan.ID,
		CurrentPeriodEnd: time.Now().UTC().Add(30 * 24 * time.Hour),
	})
	s.NoError(err)
	s.subscriptionID = sub.Subscription.ID
}

func (s *InvoiceServiceSuite) params() ServiceParams {
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

func (s *InvoiceServiceSuite) createInvoice() *dto.InvoiceResponse {
	resp, err := s.invoiceService.CreateInvoice(s.GetContext(), dto.CreateInvoiceRequest{
		SubscriptionID: s.subscriptionID,
		CustomerID:     s.customerID,
		Amount:         1250,
		DueDate:        time.Now().UTC().Add(14 * 24 * time.Hour),
		LineItems: []dto.LineItemRequest{
			{Description: "Seats", Quantity: 2, UnitPrice: 500, Total: 1000},
			{Description: "Support", Quantity: 1, UnitPrice: 250, Total: 250},
		},
	})
	s.NoError(err)
	return resp
}

func (s *InvoiceServiceSuite) TestCreateInvoice() {
	s.Run("Valid Line Item Math", func() {
		resp := s.createInvoice()
		s.NotZero(resp.Invoice.ID)
		s.Equal(types.InvoiceStatusDraft, resp.Invoice.Status)
		s.Equal(int64(1250), resp.Invoice.Amount)
		s.Len(resp.Invoice.LineItems, 2)
	})

	s.Run("Stale Line Item Total Rejected", func() {
		_, err := s.invoiceService.CreateInvoice(s.GetContext(), dto.CreateInvoiceRequest{
			SubscriptionID: s.subscriptionID,
			CustomerID:     s.customerID,
			Amount:         999,
			DueDate:        time.Now().UTC().Add(24 * time.Hour),
			LineItems: []dto.LineItemRequest{
				{Description: "Seats", Quantity: 2, UnitPrice: 500, Total: 999},
			},
		})
		s.Error(err)
		s.True(ierr.IsValidation(err))
	})

	s.Run("Amount Mismatch Rejected", func() {
		_, err := s.invoiceService.CreateInvoice(s.GetContext(), dto.CreateInvoiceRequest{
			SubscriptionID: s.subscriptionID,
			CustomerID:     s.customerID,
			Amount:         2000,
			DueDate:        time.Now().UTC().Add(24 * time.Hour),
			LineItems: []dto.LineItemRequest{
				{Description: "Seats", Quantity: 2, UnitPrice: 500, Total: 1000},
			},
		})
		s.Error(err)
		s.True(ierr.IsValidation(err))
	})

	s.Run("Empty Line Items Rejected", func() {
		_, err := s.invoiceService.CreateInvoice(s.GetContext(), dto.CreateInvoiceRequest{
			SubscriptionID: s.subscriptionID,
			CustomerID:     s.customerID,
			Amount:         0,
			DueDate:        time.Now().UTC().Add(24 * time.Hour),
			LineItems:      []dto.LineItemRequest{},
		})
		s.Error(err)
		s.True(ierr.IsValidation(err))
	})

	s.Run("Unknown Subscription", func() {
		_, err := s.invoiceService.CreateInvoice(s.GetContext(), dto.CreateInvoiceRequest{
			SubscriptionID: 9999,
			CustomerID:     s.customerID,
			Amount:         500,
			DueDate:        time.Now().UTC().Add(24 * time.Hour),
			LineItems: []dto.LineItemRequest{
				{Description: "Usage", Quantity: 1, UnitPrice: 500, Total: 500},
			},
		})
		s.Error(err)
		s.True(ierr.IsReferenceNotFound(err))
	})

	s.Run("Customer Subscription Mismatch", func() {
		other, err := NewCustomerService(s.params()).CreateCustomer(s.GetContext(), dto.CreateCustomerRequest{
			Name:  "Other",
			Email: "other@example.test",
		})
		s.NoError(err)

		_, err = s.invoiceService.CreateInvoice(s.GetContext(), dto.CreateInvoiceRequest{
			SubscriptionID: s.subscriptionID,
			CustomerID:     other.Customer.ID,
			Amount:         500,
			DueDate:        time.Now().UTC().Add(24 * time.Hour),
			LineItems: []dto.LineItemRequest{
				{Description: "Usage", Quantity: 1, UnitPrice: 500, Total: 500},
			},
		})
		s.Error(err)
		s.True(ierr.IsValidation(err))
	})
}

func (s *InvoiceServiceSuite) TestStatusTransitions() {
	s.Run("Draft to Open", func() {
		created := s.createInvoice()
		resp, err := s.invoiceService.UpdateInvoice(s.GetContext(), created.Invoice.ID, dto.UpdateInvoiceRequest{
			Status: lo.ToPtr(types.InvoiceStatusOpen),
		})
		s.NoError(err)
		s.Equal(types.InvoiceStatusOpen, resp.Invoice.Status)
	})

	s.Run("Draft to Paid Rejected", func() {
		created := s.createInvoice()
		_, err := s.invoiceService.UpdateInvoice(s.GetContext(), created.Invoice.ID, dto.UpdateInvoiceRequest{
			Status: lo.ToPtr(types.InvoiceStatusPaid),
			PaidAt: lo.ToPtr(time.Now().UTC()),
		})
		s.Error(err)
		s.True(ierr.IsConflict(err))
	})

	s.Run("Open to Failed", func() {
		created := s.createInvoice()
		_, err := s.invoiceService.UpdateInvoice(s.GetContext(), created.Invoice.ID, dto.UpdateInvoiceRequest{
			Status: lo.ToPtr(types.InvoiceStatusOpen),
		})
		s.NoError(err)

		resp, err := s.invoiceService.UpdateInvoice(s.GetContext(), created.Invoice.ID, dto.UpdateInvoiceRequest{
			Status: lo.ToPtr(types.InvoiceStatusFailed),
		})
		s.NoError(err)
		s.Equal(types.InvoiceStatusFailed, resp.Invoice.Status)
	})

	s.Run("Paid Without PaidAt Rejected", func() {
		created := s.createInvoice()
		_, err := s.invoiceService.UpdateInvoice(s.GetContext(), created.Invoice.ID, dto.UpdateInvoiceRequest{
			Status: lo.ToPtr(types.InvoiceStatusOpen),
		})
		s.NoError(err)

		_, err = s.invoiceService.UpdateInvoice(s.GetContext(), created.Invoice.ID, dto.UpdateInvoiceRequest{
			Status: lo.ToPtr(types.InvoiceStatusPaid),
		})
		s.Error(err)
		s.True(ierr.IsValidation(err))
	})
}

func (s *InvoiceServiceSuite) TestPayInvoice() {
	openInvoice := func() *dto.InvoiceResponse {
		created := s.createInvoice()
		resp, err := s.invoiceService.UpdateInvoice(s.GetContext(), created.Invoice.ID, dto.UpdateInvoiceRequest{
			Status: lo.ToPtr(types.InvoiceStatusOpen),
		})
		s.NoError(err)
		return resp
	}

	s.Run("Defaults PaidAt to Now", func() {
		inv := openInvoice()
		resp, err := s.invoiceService.PayInvoice(s.GetContext(), inv.Invoice.ID, dto.PayInvoiceRequest{})
		s.NoError(err)
		s.Equal(types.InvoiceStatusPaid, resp.Invoice.Status)
		s.NotNil(resp.Invoice.PaidAt)
		s.WithinDuration(time.Now().UTC(), *resp.Invoice.PaidAt, 5*time.Second)
	})

	s.Run("Explicit PaidAt", func() {
		inv := openInvoice()
		paidAt := time.Now().UTC().Add(-time.Hour)
		resp, err := s.invoiceService.PayInvoice(s.GetContext(), inv.Invoice.ID, dto.PayInvoiceRequest{
			PaidAt: &paidAt,
		})
		s.NoError(err)
		s.True(paidAt.Equal(*resp.Invoice.PaidAt))
	})

	s.Run("Future PaidAt Rejected", func() {
		inv := openInvoice()
		_, err := s.invoiceService.PayInvoice(s.GetContext(), inv.Invoice.ID, dto.PayInvoiceRequest{
			PaidAt: lo.ToPtr(time.Now().UTC().Add(time.Hour)),
		})
		s.Error(err)
		s.True(ierr.IsValidation(err))
	})

	s.Run("Double Pay Rejected", func() {
		inv := openInvoice()
		_, err := s.invoiceService.PayInvoice(s.GetContext(), inv.Invoice.ID, dto.PayInvoiceRequest{})
		s.NoError(err)

		_, err = s.invoiceService.PayInvoice(s.GetContext(), inv.Invoice.ID, dto.PayInvoiceRequest{})
		s.Error(err)
		s.True(ierr.IsConflict(err))
	})

	s.Run("Not Found", func() {
		_, err := s.invoiceService.PayInvoice(s.GetContext(), 9999, dto.PayInvoiceRequest{})
		s.Error(err)
		s.True(ierr.IsNotFound(err))
	})
}

func (s *InvoiceServiceSuite) TestDeleteInvoice() {
	s.Run("Draft Delete Allowed", func() {
		created := s.createInvoice()
		err := s.invoiceService.DeleteInvoice(s.GetContext(), created.Invoice.ID)
		s.NoError(err)

		_, err = s.invoiceService.GetInvoice(s.GetContext(), created.Invoice.ID)
		s.True(ierr.IsNotFound(err))
	})

	s.Run("Paid Delete Blocked", func() {
		created := s.createInvoice()
		_, err := s.invoiceService.UpdateInvoice(s.GetContext(), created.Invoice.ID, dto.UpdateInvoiceRequest{
			Status: lo.ToPtr(types.InvoiceStatusOpen),
		})
		s.NoError(err)
		_, err = s.invoiceService.PayInvoice(s.GetContext(), created.Invoice.ID, dto.PayInvoiceRequest{})
		s.NoError(err)

		err = s.invoiceService.DeleteInvoice(s.GetContext(), created.Invoice.ID)
		s.Error(err)
		s.True(ierr.IsConflict(err))
	})
}

func (s *InvoiceServiceSuite) TestGetInvoices() {
	first := s.createInvoice()
	s.createInvoice()

	_, err := s.invoiceService.UpdateInvoice(s.GetContext(), first.Invoice.ID, dto.UpdateInvoiceRequest{
		Status: lo.ToPtr(types.InvoiceStatusOpen),
	})
	s.NoError(err)

	s.Run("All", func() {
		resp, err := s.invoiceService.GetInvoices(s.GetContext(), types.NewInvoiceFilter())
		s.NoError(err)
		s.Len(resp.Items, 2)
	})

	s.Run("Filter by Status", func() {
		filter := types.NewInvoiceFilter()
		filter.Status = lo.ToPtr(types.InvoiceStatusOpen)
		resp, err := s.invoiceService.GetInvoices(s.GetContext(), filter)
		s.NoError(err)
		s.Len(resp.Items, 1)
		s.Equal(first.Invoice.ID, resp.Items[0].Invoice.ID)
	})

	s.Run("Filter by Subscription", func() {
		filter := types.NewInvoiceFilter()
		filter.SubscriptionID = lo.ToPtr(s.subscriptionID)
		resp, err := s.invoiceService.GetInvoices(s.GetContext(), filter)
		s.NoError(err)
		s.Len(resp.Items, 2)
	})
}
