package postgres

import (
	"context"
	"fmt"

	"github.com/subledger/subledger/internal/domain/plan"
	"github.com/subledger/subledger/internal/logger"
	"github.com/subledger/subledger/internal/postgres"
	"github.com/subledger/subledger/internal/types"
)

var planSortColumns = []string{"created_at", "updated_at", "name", "price", "billing_interval"}

type planRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewPlanRepository(client postgres.IClient, logger *logger.Logger) plan.Repository {
	return &planRepository{client: client, logger: logger}
}

func (r *planRepository) Create(ctx context.Context, p *plan.Plan) error {
	query := `
		INSERT INTO plans (name, description, price, billing_interval, trial_period_days, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	r.logger.Debugw("creating plan", "name", p.Name)

	err := r.client.Querier(ctx).GetContext(ctx, &p.ID, query,
		p.Name, p.Description, p.Price, p.BillingInterval,
		p.TrialPeriodDays, p.IsActive, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return translateError(err,
			"A plan with this name already exists",
			"A referenced record does not exist")
	}
	return nil
}

func (r *planRepository) Get(ctx context.Context, id int64) (*plan.Plan, error) {
	query := `SELECT * FROM plans WHERE id = $1`

	var p plan.Plan
	if err := r.client.Querier(ctx).GetContext(ctx, &p, query, id); err != nil {
		return nil, notFound(err, "Plan not found")
	}
	return &p, nil
}

func (r *planRepository) List(ctx context.Context, filter *types.PlanFilter) ([]*plan.Plan, error) {
	query, args := buildPlanWhere(`SELECT * FROM plans`, filter)
	query += orderClause(filter.GetSort(), filter.GetOrder(), planSortColumns)
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.GetLimit(), filter.GetOffset())

	plans := make([]*plan.Plan, 0)
	if err := r.client.Querier(ctx).SelectContext(ctx, &plans, query, args...); err != nil {
		return nil, translateError(err, "", "")
	}
	return plans, nil
}

func (r *planRepository) Count(ctx context.Context, filter *types.PlanFilter) (int, error) {
	query, args := buildPlanWhere(`SELECT COUNT(*) FROM plans`, filter)

	var count int
	if err := r.client.Querier(ctx).GetContext(ctx, &count, query, args...); err != nil {
		return 0, translateError(err, "", "")
	}
	return count, nil
}

func (r *planRepository) Update(ctx context.Context, p *plan.Plan) error {
	query := `
		UPDATE plans
		SET name = $2, description = $3, price = $4, billing_interval = $5,
			trial_period_days = $6, is_active = $7, updated_at = $8
		WHERE id = $1
	`

	result, err := r.client.Querier(ctx).ExecContext(ctx, query,
		p.ID, p.Name, p.Description, p.Price, p.BillingInterval,
		p.TrialPeriodDays, p.IsActive, p.UpdatedAt)
	if err != nil {
		return translateError(err,
			"A plan with this name already exists",
			"A referenced record does not exist")
	}
	return requireAffected(result, "Plan not found")
}

func (r *planRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.client.Querier(ctx).ExecContext(ctx, `DELETE FROM plans WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "", "Plan still has dependent records")
	}
	return requireAffected(result, "Plan not found")
}

func buildPlanWhere(base string, filter *types.PlanFilter) (string, []interface{}) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", len(args)))
	}
	return appendWhere(base, conditions), args
}
