package postgres

import (
	"context"
	"fmt"

	"github.com/subledger/subledger/internal/domain/customer"
	"github.com/subledger/subledger/internal/logger"
	"github.com/subledger/subledger/internal/postgres"
	"github.com/subledger/subledger/internal/types"
)

var customerSortColumns = []string{"created_at", "updated_at", "name", "email", "status"}

type customerRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewCustomerRepository(client postgres.IClient, logger *logger.Logger) customer.Repository {
	return &customerRepository{client: client, logger: logger}
}

func (r *customerRepository) Create(ctx context.Context, c *customer.Customer) error {
	query := `
		INSERT INTO customers (name, email, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	r.logger.Debugw("creating customer", "email", c.Email)

	err := r.client.Querier(ctx).GetContext(ctx, &c.ID, query,
		c.Name, c.Email, c.Status, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return translateError(err,
			"A customer with this email already exists",
			"A referenced record does not exist")
	}
	return nil
}

func (r *customerRepository) Get(ctx context.Context, id int64) (*customer.Customer, error) {
	query := `SELECT * FROM customers WHERE id = $1`

	var c customer.Customer
	if err := r.client.Querier(ctx).GetContext(ctx, &c, query, id); err != nil {
		return nil, notFound(err, "Customer not found")
	}
	return &c, nil
}

func (r *customerRepository) List(ctx context.Context, filter *types.CustomerFilter) ([]*customer.Customer, error) {
	query, args := buildCustomerWhere(`SELECT * FROM customers`, filter)
	query += orderClause(filter.GetSort(), filter.GetOrder(), customerSortColumns)
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.GetLimit(), filter.GetOffset())

	customers := make([]*customer.Customer, 0)
	if err := r.client.Querier(ctx).SelectContext(ctx, &customers, query, args...); err != nil {
		return nil, translateError(err, "", "")
	}
	return customers, nil
}

func (r *customerRepository) Count(ctx context.Context, filter *types.CustomerFilter) (int, error) {
	query, args := buildCustomerWhere(`SELECT COUNT(*) FROM customers`, filter)

	var count int
	if err := r.client.Querier(ctx).GetContext(ctx, &count, query, args...); err != nil {
		return 0, translateError(err, "", "")
	}
	return count, nil
}

func (r *customerRepository) Update(ctx context.Context, c *customer.Customer) error {
	query := `
		UPDATE customers
		SET name = $2, email = $3, status = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.client.Querier(ctx).ExecContext(ctx, query,
		c.ID, c.Name, c.Email, c.Status, c.UpdatedAt)
	if err != nil {
		return translateError(err,
			"A customer with this email already exists",
			"A referenced record does not exist")
	}
	return requireAffected(result, "Customer not found")
}

func (r *customerRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.client.Querier(ctx).ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "", "Customer still has dependent records")
	}
	return requireAffected(result, "Customer not found")
}

func buildCustomerWhere(base string, filter *types.CustomerFilter) (string, []interface{}) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.Email != nil {
		args = append(args, *filter.Email)
		conditions = append(conditions, fmt.Sprintf("email = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	return appendWhere(base, conditions), args
}
