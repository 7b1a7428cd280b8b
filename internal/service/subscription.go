package service

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/subledger/subledger/internal/api/dto"
	"github.com/subledger/subledger/internal/cache"
	"github.com/subledger/subledger/internal/domain/subscription"
	ierr "github.com/subledger/subledger/internal/errors"
	"github.com/subledger/subledger/internal/types"
)

// SubscriptionService handles subscription CRUD, status transitions and
// the two cancellation modes.
type SubscriptionService interface {
	CreateSubscription(ctx context.Context, req dto.CreateSubscriptionRequest) (*dto.SubscriptionResponse, error)
	GetSubscription(ctx context.Context, id int64) (*dto.SubscriptionResponse, error)
	GetSubscriptions(ctx context.Context, filter *types.SubscriptionFilter) (*dto.ListSubscriptionsResponse, error)
	UpdateSubscription(ctx context.Context, id int64, req dto.UpdateSubscriptionRequest) (*dto.SubscriptionResponse, error)
	CancelSubscription(ctx context.Context, id int64, req dto.CancelSubscriptionRequest) (*dto.SubscriptionResponse, error)
	DeleteSubscription(ctx context.Context, id int64) error
}

type subscriptionService struct {
	ServiceParams
}

func NewSubscriptionService(params ServiceParams) SubscriptionService {
	return &subscriptionService{
		ServiceParams: params,
	}
}

func (s *subscriptionService) CreateSubscription(ctx context.Context, req dto.CreateSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Reference checks up front for precise hints; the foreign keys in the
	// store remain the backstop.
	if _, err := s.CustomerRepo.Get(ctx, req.CustomerID); err != nil {
		if ierr.IsNotFound(err) {
			return nil, ierr.NewError("customer not found").
				WithHint("The referenced customer does not exist").
				WithReportableDetails(map[string]any{"customer_id": req.CustomerID}).
				Mark(ierr.ErrReferenceNotFound)
		}
		return nil, err
	}
	if _, err := s.PlanRepo.Get(ctx, req.PlanID); err != nil {
		if ierr.IsNotFound(err) {
			return nil, ierr.NewError("plan not found").
				WithHint("The referenced plan does not exist").
				WithReportableDetails(map[string]any{"plan_id": req.PlanID}).
				Mark(ierr.ErrReferenceNotFound)
		}
		return nil, err
	}

	sub := req.ToSubscription()
	if err := sub.ValidateNew(time.Now().UTC()); err != nil {
		return nil, err
	}

	if err := s.SubRepo.Create(ctx, sub); err != nil {
		return nil, err
	}

	s.Logger.Infow("created subscription",
		"subscription_id", sub.ID,
		"customer_id", sub.CustomerID,
		"plan_id", sub.PlanID)
	return &dto.SubscriptionResponse{Subscription: sub}, nil
}

func (s *subscriptionService) GetSubscription(ctx context.Context, id int64) (*dto.SubscriptionResponse, error) {
	sub, err := s.getSubscription(ctx, id)
	if err != nil {
		return nil, err
	}

	// Detail responses expand the owning customer and plan
	cust, err := s.CustomerRepo.Get(ctx, sub.CustomerID)
	if err != nil {
		return nil, err
	}
	p, err := s.PlanRepo.Get(ctx, sub.PlanID)
	if err != nil {
		return nil, err
	}

	return &dto.SubscriptionResponse{
		Subscription: sub,
		Customer:     cust,
		Plan:         p,
	}, nil
}

func (s *subscriptionService) getSubscription(ctx context.Context, id int64) (*subscription.Subscription, error) {
	key := cache.Key(cache.PrefixSubscription, id)
	if cached, ok := s.Cache.Get(ctx, key); ok {
		if sub, ok := cached.(*subscription.Subscription); ok {
			return sub, nil
		}
	}

	sub, err := s.SubRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.Cache.Set(ctx, key, sub, cache.DefaultExpiration)
	return sub, nil
}

func (s *subscriptionService) GetSubscriptions(ctx context.Context, filter *types.SubscriptionFilter) (*dto.ListSubscriptionsResponse, error) {
	if filter == nil {
		filter = types.NewSubscriptionFilter()
	}

	subs, err := s.SubRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	count, err := s.SubRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := lo.Map(subs, func(sub *subscription.Subscription, _ int) *dto.SubscriptionResponse {
		return &dto.SubscriptionResponse{Subscription: sub}
	})

	response := types.NewListResponse(items, count, filter.GetLimit(), filter.GetOffset())
	return &response, nil
}

func (s *subscriptionService) UpdateSubscription(ctx context.Context, id int64, req dto.UpdateSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sub, err := s.SubRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil && !sub.Status.CanTransition(*req.Status) {
		return nil, ierr.NewError("illegal subscription status transition").
			WithHint("The requested status change is not allowed").
			WithReportableDetails(map[string]any{
				"from": sub.Status,
				"to":   *req.Status,
			}).
			Mark(ierr.ErrConflict)
	}

	req.Apply(sub)
	if err := sub.Validate(); err != nil {
		return nil, err
	}
	if err := sub.ValidateCancelRecency(time.Now().UTC()); err != nil {
		return nil, err
	}

	if err := s.SubRepo.Update(ctx, sub); err != nil {
		return nil, err
	}

	s.Cache.Delete(ctx, cache.Key(cache.PrefixSubscription, id))
	return &dto.SubscriptionResponse{Subscription: sub}, nil
}

func (s *subscriptionService) CancelSubscription(ctx context.Context, id int64, req dto.CancelSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	sub, err := s.SubRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if sub.Status == types.SubscriptionStatusCancelled {
		return nil, ierr.NewError("subscription is already cancelled").
			WithHint("The subscription has already been cancelled").
			WithReportableDetails(map[string]any{"subscription_id": id}).
			Mark(ierr.ErrConflict)
	}

	now := time.Now().UTC()
	if req.GetCancelAtPeriodEnd() {
		// Deferred cancel: record the intent, keep the subscription live
		// until the period boundary.
		sub.CancelAtPeriodEnd = true
	} else {
		sub.Status = types.SubscriptionStatusCancelled
		sub.CanceledAt = &now
		sub.CancelAtPeriodEnd = false
	}
	sub.UpdatedAt = now

	if err := s.SubRepo.Update(ctx, sub); err != nil {
		return nil, err
	}

	s.Cache.Delete(ctx, cache.Key(cache.PrefixSubscription, id))
	s.Logger.Infow("cancelled subscription",
		"subscription_id", id,
		"at_period_end", req.GetCancelAtPeriodEnd())
	return &dto.SubscriptionResponse{Subscription: sub}, nil
}

func (s *subscriptionService) DeleteSubscription(ctx context.Context, id int64) error {
	if _, err := s.SubRepo.Get(ctx, id); err != nil {
		return err
	}

	// Owned invoices go with the subscription
	var invoiceIDs []int64
	err := s.DB.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		if invoiceIDs, err = s.InvoiceRepo.DeleteBySubscriptionID(txCtx, id); err != nil {
			return err
		}
		return s.SubRepo.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}

	// Deleted invoices must drop out of the cache with their subscription.
	for _, invoiceID := range invoiceIDs {
		s.Cache.Delete(ctx, cache.Key(cache.PrefixInvoice, invoiceID))
	}
	s.Cache.Delete(ctx, cache.Key(cache.PrefixSubscription, id))
	s.Logger.Infow("deleted subscription", "subscription_id", id)
	return nil
}
