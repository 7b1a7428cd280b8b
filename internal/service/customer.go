package service

import (
	"context"

	"github.com/samber/lo"
	"github.com/subledger/subledger/internal/api/dto"
	"github.com/subledger/subledger/internal/cache"
	"github.com/subledger/subledger/internal/domain/customer"
	"github.com/subledger/subledger/internal/types"
)

// CustomerService handles customer CRUD and the customer-owned cascade
type CustomerService interface {
	CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	GetCustomer(ctx context.Context, id int64) (*dto.CustomerResponse, error)
	GetCustomers(ctx context.Context, filter *types.CustomerFilter) (*dto.ListCustomersResponse, error)
	UpdateCustomer(ctx context.Context, id int64, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error)
	DeleteCustomer(ctx context.Context, id int64) error
}

type customerService struct {
	ServiceParams
}

func NewCustomerService(params ServiceParams) CustomerService {
	return &customerService{
		ServiceParams: params,
	}
}

func (s *customerService) CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cust := req.ToCustomer()
	if err := cust.Validate(); err != nil {
		return nil, err
	}

	// Repository translates a duplicate email into an already-exists error
	if err := s.CustomerRepo.Create(ctx, cust); err != nil {
		return nil, err
	}

	s.Logger.Infow("created customer", "customer_id", cust.ID)
	return &dto.CustomerResponse{Customer: cust}, nil
}

func (s *customerService) GetCustomer(ctx context.Context, id int64) (*dto.CustomerResponse, error) {
	cust, err := s.getCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	// Child counts are computed per request; only the entity is cached
	subCount, err := s.SubRepo.Count(ctx, &types.SubscriptionFilter{CustomerID: lo.ToPtr(id)})
	if err != nil {
		return nil, err
	}
	invoiceCount, err := s.InvoiceRepo.Count(ctx, &types.InvoiceFilter{CustomerID: lo.ToPtr(id)})
	if err != nil {
		return nil, err
	}

	return &dto.CustomerResponse{
		Customer:          cust,
		SubscriptionCount: lo.ToPtr(subCount),
		InvoiceCount:      lo.ToPtr(invoiceCount),
	}, nil
}

func (s *customerService) getCustomer(ctx context.Context, id int64) (*customer.Customer, error) {
	key := cache.Key(cache.PrefixCustomer, id)
	if cached, ok := s.Cache.Get(ctx, key); ok {
		if cust, ok := cached.(*customer.Customer); ok {
			return cust, nil
		}
	}

	cust, err := s.CustomerRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.Cache.Set(ctx, key, cust, cache.DefaultExpiration)
	return cust, nil
}

func (s *customerService) GetCustomers(ctx context.Context, filter *types.CustomerFilter) (*dto.ListCustomersResponse, error) {
	if filter == nil {
		filter = types.NewCustomerFilter()
	}

	customers, err := s.CustomerRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	count, err := s.CustomerRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := lo.Map(customers, func(c *customer.Customer, _ int) *dto.CustomerResponse {
		return &dto.CustomerResponse{Customer: c}
	})

	response := types.NewListResponse(items, count, filter.GetLimit(), filter.GetOffset())
	return &response, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, id int64, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cust, err := s.CustomerRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(cust)
	if err := cust.Validate(); err != nil {
		return nil, err
	}

	if err := s.CustomerRepo.Update(ctx, cust); err != nil {
		return nil, err
	}

	s.Cache.Delete(ctx, cache.Key(cache.PrefixCustomer, id))
	return &dto.CustomerResponse{Customer: cust}, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, id int64) error {
	if _, err := s.CustomerRepo.Get(ctx, id); err != nil {
		return err
	}

	// Owned subscriptions and invoices go with the customer. One
	// transaction so a crash cannot leave orphaned children.
	var invoiceIDs, subscriptionIDs []int64
	err := s.DB.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		if invoiceIDs, err = s.InvoiceRepo.DeleteByCustomerID(txCtx, id); err != nil {
			return err
		}
		if subscriptionIDs, err = s.SubRepo.DeleteByCustomerID(txCtx, id); err != nil {
			return err
		}
		return s.CustomerRepo.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}

	// Deleted children must drop out of the cache with their owner.
	for _, invoiceID := range invoiceIDs {
		s.Cache.Delete(ctx, cache.Key(cache.PrefixInvoice, invoiceID))
	}
	for _, subscriptionID := range subscriptionIDs {
		s.Cache.Delete(ctx, cache.Key(cache.PrefixSubscription, subscriptionID))
	}
	s.Cache.Delete(ctx, cache.Key(cache.PrefixCustomer, id))
	s.Logger.Infow("deleted customer", "customer_id", id)
	return nil
}
