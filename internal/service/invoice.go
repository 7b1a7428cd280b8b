package service

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/subledger/subledger/internal/api/dto"
	"github.com/subledger/subledger/internal/cache"
	"github.com/subledger/subledger/internal/domain/invoice"
	ierr "github.com/subledger/subledger/internal/errors"
	"github.com/subledger/subledger/internal/types"
)

// InvoiceService handles invoice CRUD, status transitions and payment
// recording.
type InvoiceService interface {
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)
	GetInvoice(ctx context.Context, id int64) (*dto.InvoiceResponse, error)
	GetInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error)
	UpdateInvoice(ctx context.Context, id int64, req dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error)
	PayInvoice(ctx context.Context, id int64, req dto.PayInvoiceRequest) (*dto.InvoiceResponse, error)
	DeleteInvoice(ctx context.Context, id int64) error
}

type invoiceService struct {
	ServiceParams
}

func NewInvoiceService(params ServiceParams) InvoiceService {
	return &invoiceService{
		ServiceParams: params,
	}
}

func (s *invoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sub, err := s.SubRepo.Get(ctx, req.SubscriptionID)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, ierr.NewError("subscription not found").
				WithHint("The referenced subscription does not exist").
				WithReportableDetails(map[string]any{"subscription_id": req.SubscriptionID}).
				Mark(ierr.ErrReferenceNotFound)
		}
		return nil, err
	}

	// The invoice's customer must be the subscription's owner
	if sub.CustomerID != req.CustomerID {
		return nil, ierr.NewError("customer does not own the subscription").
			WithHint("customerId must match the subscription's customer").
			WithReportableDetails(map[string]any{
				"customer_id":           req.CustomerID,
				"subscription_customer": sub.CustomerID,
			}).
			Mark(ierr.ErrValidation)
	}

	inv := req.ToInvoice()
	if err := inv.Validate(time.Now().UTC()); err != nil {
		return nil, err
	}

	if err := s.InvoiceRepo.Create(ctx, inv); err != nil {
		return nil, err
	}

	s.Logger.Infow("created invoice",
		"invoice_id", inv.ID,
		"subscription_id", inv.SubscriptionID,
		"amount", inv.Amount)
	return &dto.InvoiceResponse{Invoice: inv}, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id int64) (*dto.InvoiceResponse, error) {
	inv, err := s.getInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.InvoiceResponse{Invoice: inv}, nil
}

func (s *invoiceService) getInvoice(ctx context.Context, id int64) (*invoice.Invoice, error) {
	key := cache.Key(cache.PrefixInvoice, id)
	if cached, ok := s.Cache.Get(ctx, key); ok {
		if inv, ok := cached.(*invoice.Invoice); ok {
			return inv, nil
		}
	}

	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.Cache.Set(ctx, key, inv, cache.DefaultExpiration)
	return inv, nil
}

func (s *invoiceService) GetInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error) {
	if filter == nil {
		filter = types.NewInvoiceFilter()
	}

	invoices, err := s.InvoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	count, err := s.InvoiceRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := lo.Map(invoices, func(inv *invoice.Invoice, _ int) *dto.InvoiceResponse {
		return &dto.InvoiceResponse{Invoice: inv}
	})

	response := types.NewListResponse(items, count, filter.GetLimit(), filter.GetOffset())
	return &response, nil
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, id int64, req dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil && !inv.Status.CanTransition(*req.Status) {
		return nil, ierr.NewError("illegal invoice status transition").
			WithHint("The requested status change is not allowed").
			WithReportableDetails(map[string]any{
				"from": inv.Status,
				"to":   *req.Status,
			}).
			Mark(ierr.ErrConflict)
	}

	req.Apply(inv)
	if err := inv.Validate(time.Now().UTC()); err != nil {
		return nil, err
	}

	if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}

	s.Cache.Delete(ctx, cache.Key(cache.PrefixInvoice, id))
	return &dto.InvoiceResponse{Invoice: inv}, nil
}

func (s *invoiceService) PayInvoice(ctx context.Context, id int64, req dto.PayInvoiceRequest) (*dto.InvoiceResponse, error) {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if inv.Status == types.InvoiceStatusPaid {
		return nil, ierr.NewError("invoice is already paid").
			WithHint("The invoice has already been paid").
			WithReportableDetails(map[string]any{"invoice_id": id}).
			Mark(ierr.ErrConflict)
	}

	now := time.Now().UTC()
	paidAt := now
	if req.PaidAt != nil {
		paidAt = req.PaidAt.UTC()
	}

	inv.Status = types.InvoiceStatusPaid
	inv.PaidAt = &paidAt
	inv.UpdatedAt = now

	// Rejects a supplied payment timestamp in the future
	if err := inv.Validate(now); err != nil {
		return nil, err
	}

	if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}

	s.Cache.Delete(ctx, cache.Key(cache.PrefixInvoice, id))
	s.Logger.Infow("paid invoice", "invoice_id", id, "amount", inv.Amount)
	return &dto.InvoiceResponse{Invoice: inv}, nil
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, id int64) error {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return err
	}

	// Paid invoices are part of the financial record and cannot be removed
	if inv.Status == types.InvoiceStatusPaid {
		return ierr.NewError("paid invoices cannot be deleted").
			WithHint("Paid invoices are immutable financial records").
			WithReportableDetails(map[string]any{"invoice_id": id}).
			Mark(ierr.ErrConflict)
	}

	if err := s.InvoiceRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.Cache.Delete(ctx, cache.Key(cache.PrefixInvoice, id))
	s.Logger.Infow("deleted invoice", "invoice_id", id)
	return nil
}
