package testutil

import (
	"context"

	"github.com/subledger/subledger/internal/domain/plan"
	ierr "github.com/subledger/subledger/internal/errors"
	"github.com/subledger/subledger/internal/types"
)

// InMemoryPlanStore implements plan.Repository
type InMemoryPlanStore struct {
	*InMemoryStore[*plan.Plan]
}

// NewInMemoryPlanStore creates a new in-memory plan store
func NewInMemoryPlanStore() *InMemoryPlanStore {
	return &InMemoryPlanStore{
		InMemoryStore: NewInMemoryStore[*plan.Plan](),
	}
}

func copyPlan(p *plan.Plan) *plan.Plan {
	if p == nil {
		return nil
	}
	out := *p
	return &out
}

func (s *InMemoryPlanStore) Create(ctx context.Context, p *plan.Plan) error {
	if err := s.checkUniqueName(ctx, p.Name, 0); err != nil {
		return err
	}
	p.ID = s.NextID()
	return s.InMemoryStore.Create(ctx, p.ID, copyPlan(p))
}

func (s *InMemoryPlanStore) Get(ctx context.Context, id int64) (*plan.Plan, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Plan not found").
			Mark(ierr.ErrNotFound)
	}
	return copyPlan(p), nil
}

func (s *InMemoryPlanStore) List(ctx context.Context, filter *types.PlanFilter) ([]*plan.Plan, error) {
	items, err := s.InMemoryStore.List(ctx, filter, planFilterFn, planSortFn)
	if err != nil {
		return nil, err
	}
	out := make([]*plan.Plan, len(items))
	for i, p := range items {
		out[i] = copyPlan(p)
	}
	return out, nil
}

func (s *InMemoryPlanStore) Count(ctx context.Context, filter *types.PlanFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, planFilterFn)
}

func (s *InMemoryPlanStore) Update(ctx context.Context, p *plan.Plan) error {
	if err := s.checkUniqueName(ctx, p.Name, p.ID); err != nil {
		return err
	}
	if err := s.InMemoryStore.Update(ctx, p.ID, copyPlan(p)); err != nil {
		return ierr.WithError(err).
			WithHint("Plan not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryPlanStore) Delete(ctx context.Context, id int64) error {
	if err := s.InMemoryStore.Delete(ctx, id); err != nil {
		return ierr.WithError(err).
			WithHint("Plan not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryPlanStore) checkUniqueName(ctx context.Context, name string, selfID int64) error {
	existing, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, p *plan.Plan, _ interface{}) bool {
		return p.Name == name && p.ID != selfID
	}, nil)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return ierr.NewError("duplicate plan name").
			WithHint("A plan with this name already exists").
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func planFilterFn(_ context.Context, p *plan.Plan, filter interface{}) bool {
	f, ok := filter.(*types.PlanFilter)
	if !ok || f == nil {
		return true
	}
	if f.IsActive != nil && p.IsActive != *f.IsActive {
		return false
	}
	return true
}

func planSortFn(i, j *plan.Plan) bool {
	if i.CreatedAt.Equal(j.CreatedAt) {
		return i.ID > j.ID
	}
	return i.CreatedAt.After(j.CreatedAt)
}
