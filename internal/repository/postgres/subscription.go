package postgres

import (
	"context"
	"fmt"

	"github.com/lib/pq"
	"github.com/subledger/subledger/internal/domain/subscription"
	"github.com/subledger/subledger/internal/logger"
	"github.com/subledger/subledger/internal/postgres"
	"github.com/subledger/subledger/internal/types"
)

var subscriptionSortColumns = []string{"created_at", "updated_at", "status", "start_date", "current_period_end"}

type subscriptionRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewSubscriptionRepository(client postgres.IClient, logger *logger.Logger) subscription.Repository {
	return &subscriptionRepository{client: client, logger: logger}
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) error {
	query := `
		INSERT INTO subscriptions (
			customer_id, plan_id, status, start_date,
			current_period_start, current_period_end,
			cancel_at_period_end, canceled_at, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	r.logger.Debugw("creating subscription",
		"customer_id", sub.CustomerID,
		"plan_id", sub.PlanID)

	err := r.client.Querier(ctx).GetContext(ctx, &sub.ID, query,
		sub.CustomerID, sub.PlanID, sub.Status, sub.StartDate,
		sub.CurrentPeriodStart, sub.CurrentPeriodEnd,
		sub.CancelAtPeriodEnd, sub.CanceledAt, sub.CreatedAt, sub.UpdatedAt)
	if err != nil {
		return translateError(err,
			"Subscription already exists",
			"The referenced customer or plan does not exist")
	}
	return nil
}

func (r *subscriptionRepository) Get(ctx context.Context, id int64) (*subscription.Subscription, error) {
	query := `SELECT * FROM subscriptions WHERE id = $1`

	var sub subscription.Subscription
	if err := r.client.Querier(ctx).GetContext(ctx, &sub, query, id); err != nil {
		return nil, notFound(err, "Subscription not found")
	}
	return &sub, nil
}

func (r *subscriptionRepository) List(ctx context.Context, filter *types.SubscriptionFilter) ([]*subscription.Subscription, error) {
	query, args := buildSubscriptionWhere(`SELECT * FROM subscriptions`, filter)
	query += orderClause(filter.GetSort(), filter.GetOrder(), subscriptionSortColumns)
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.GetLimit(), filter.GetOffset())

	subs := make([]*subscription.Subscription, 0)
	if err := r.client.Querier(ctx).SelectContext(ctx, &subs, query, args...); err != nil {
		return nil, translateError(err, "", "")
	}
	return subs, nil
}

func (r *subscriptionRepository) Count(ctx context.Context, filter *types.SubscriptionFilter) (int, error) {
	query, args := buildSubscriptionWhere(`SELECT COUNT(*) FROM subscriptions`, filter)

	var count int
	if err := r.client.Querier(ctx).GetContext(ctx, &count, query, args...); err != nil {
		return 0, translateError(err, "", "")
	}
	return count, nil
}

func (r *subscriptionRepository) CountByPlanID(ctx context.Context, planID int64, statuses []types.SubscriptionStatus) (int, error) {
	query := `SELECT COUNT(*) FROM subscriptions WHERE plan_id = $1 AND status = ANY($2)`

	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = s.String()
	}

	var count int
	if err := r.client.Querier(ctx).GetContext(ctx, &count, query, planID, pq.Array(names)); err != nil {
		return 0, translateError(err, "", "")
	}
	return count, nil
}

func (r *subscriptionRepository) Update(ctx context.Context, sub *subscription.Subscription) error {
	query := `
		UPDATE subscriptions
		SET status = $2, current_period_start = $3, current_period_end = $4,
			cancel_at_period_end = $5, canceled_at = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.client.Querier(ctx).ExecContext(ctx, query,
		sub.ID, sub.Status, sub.CurrentPeriodStart, sub.CurrentPeriodEnd,
		sub.CancelAtPeriodEnd, sub.CanceledAt, sub.UpdatedAt)
	if err != nil {
		return translateError(err,
			"Subscription already exists",
			"The referenced customer or plan does not exist")
	}
	return requireAffected(result, "Subscription not found")
}

func (r *subscriptionRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.client.Querier(ctx).ExecContext(ctx, `DELETE FROM subscriptions WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "", "Subscription still has dependent records")
	}
	return requireAffected(result, "Subscription not found")
}

func (r *subscriptionRepository) DeleteByCustomerID(ctx context.Context, customerID int64) ([]int64, error) {
	var ids []int64
	err := r.client.Querier(ctx).SelectContext(ctx, &ids,
		`DELETE FROM subscriptions WHERE customer_id = $1 RETURNING id`, customerID)
	if err != nil {
		return nil, translateError(err, "", "Subscriptions still have dependent records")
	}
	return ids, nil
}

func buildSubscriptionWhere(base string, filter *types.SubscriptionFilter) (string, []interface{}) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		conditions = append(conditions, fmt.Sprintf("customer_id = $%d", len(args)))
	}
	if filter.PlanID != nil {
		args = append(args, *filter.PlanID)
		conditions = append(conditions, fmt.Sprintf("plan_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	return appendWhere(base, conditions), args
}
