package service

import (
	"context"

	"github.com/samber/lo"
	"github.com/subledger/subledger/internal/api/dto"
	"github.com/subledger/subledger/internal/cache"
	"github.com/subledger/subledger/internal/domain/plan"
	ierr "github.com/subledger/subledger/internal/errors"
	"github.com/subledger/subledger/internal/types"
)

// PlanService handles plan CRUD and the deletion guard against plans that
// still carry live subscriptions.
type PlanService interface {
	CreatePlan(ctx context.Context, req dto.CreatePlanRequest) (*dto.PlanResponse, error)
	GetPlan(ctx context.Context, id int64) (*dto.PlanResponse, error)
	GetPlans(ctx context.Context, filter *types.PlanFilter) (*dto.ListPlansResponse, error)
	UpdatePlan(ctx context.Context, id int64, req dto.UpdatePlanRequest) (*dto.PlanResponse, error)
	DeletePlan(ctx context.Context, id int64) error
}

type planService struct {
	ServiceParams
}

func NewPlanService(params ServiceParams) PlanService {
	return &planService{
		ServiceParams: params,
	}
}

func (s *planService) CreatePlan(ctx context.Context, req dto.CreatePlanRequest) (*dto.PlanResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := req.ToPlan()
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.PlanRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.Logger.Infow("created plan", "plan_id", p.ID)
	return &dto.PlanResponse{Plan: p}, nil
}

func (s *planService) GetPlan(ctx context.Context, id int64) (*dto.PlanResponse, error) {
	p, err := s.getPlan(ctx, id)
	if err != nil {
		return nil, err
	}

	subCount, err := s.SubRepo.Count(ctx, &types.SubscriptionFilter{PlanID: lo.ToPtr(id)})
	if err != nil {
		return nil, err
	}

	return &dto.PlanResponse{
		Plan:              p,
		SubscriptionCount: lo.ToPtr(subCount),
	}, nil
}

func (s *planService) getPlan(ctx context.Context, id int64) (*plan.Plan, error) {
	key := cache.Key(cache.PrefixPlan, id)
	if cached, ok := s.Cache.Get(ctx, key); ok {
		if p, ok := cached.(*plan.Plan); ok {
			return p, nil
		}
	}

	p, err := s.PlanRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.Cache.Set(ctx, key, p, cache.DefaultExpiration)
	return p, nil
}

func (s *planService) GetPlans(ctx context.Context, filter *types.PlanFilter) (*dto.ListPlansResponse, error) {
	if filter == nil {
		filter = types.NewPlanFilter()
	}

	plans, err := s.PlanRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	count, err := s.PlanRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := lo.Map(plans, func(p *plan.Plan, _ int) *dto.PlanResponse {
		return &dto.PlanResponse{Plan: p}
	})

	response := types.NewListResponse(items, count, filter.GetLimit(), filter.GetOffset())
	return &response, nil
}

func (s *planService) UpdatePlan(ctx context.Context, id int64, req dto.UpdatePlanRequest) (*dto.PlanResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, err := s.PlanRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(p)
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.PlanRepo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.Cache.Delete(ctx, cache.Key(cache.PrefixPlan, id))
	return &dto.PlanResponse{Plan: p}, nil
}

func (s *planService) DeletePlan(ctx context.Context, id int64) error {
	if _, err := s.PlanRepo.Get(ctx, id); err != nil {
		return err
	}

	// A plan with live subscriptions cannot be removed. CANCELLED and
	// PAST_DUE subscriptions do not block deletion.
	liveCount, err := s.SubRepo.CountByPlanID(ctx, id, []types.SubscriptionStatus{
		types.SubscriptionStatusActive,
		types.SubscriptionStatusTrialing,
	})
	if err != nil {
		return err
	}
	if liveCount > 0 {
		return ierr.NewError("plan has active subscriptions").
			WithHint("Cancel the plan's subscriptions before deleting it").
			WithReportableDetails(map[string]any{
				"plan_id":              id,
				"active_subscriptions": liveCount,
			}).
			Mark(ierr.ErrConflict)
	}

	if err := s.PlanRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.Cache.Delete(ctx, cache.Key(cache.PrefixPlan, id))
	s.Logger.Infow("deleted plan", "plan_id", id)
	return nil
}
