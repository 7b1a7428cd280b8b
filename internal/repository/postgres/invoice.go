package postgres

import (
	"context"
	"fmt"

	"github.com/subledger/subledger/internal/domain/invoice"
	"github.com/subledger/subledger/internal/logger"
	"github.com/subledger/subledger/internal/postgres"
	"github.com/subledger/subledger/internal/types"
)

var invoiceSortColumns = []string{"created_at", "updated_at", "status", "due_date", "amount"}

type invoiceRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewInvoiceRepository(client postgres.IClient, logger *logger.Logger) invoice.Repository {
	return &invoiceRepository{client: client, logger: logger}
}

func (r *invoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		INSERT INTO invoices (
			subscription_id, customer_id, amount, due_date,
			paid_at, status, line_items, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	r.logger.Debugw("creating invoice",
		"subscription_id", inv.SubscriptionID,
		"amount", inv.Amount)

	err := r.client.Querier(ctx).GetContext(ctx, &inv.ID, query,
		inv.SubscriptionID, inv.CustomerID, inv.Amount, inv.DueDate,
		inv.PaidAt, inv.Status, inv.LineItems, inv.CreatedAt, inv.UpdatedAt)
	if err != nil {
		return translateError(err,
			"Invoice already exists",
			"The referenced subscription or customer does not exist")
	}
	return nil
}

func (r *invoiceRepository) Get(ctx context.Context, id int64) (*invoice.Invoice, error) {
	query := `SELECT * FROM invoices WHERE id = $1`

	var inv invoice.Invoice
	if err := r.client.Querier(ctx).GetContext(ctx, &inv, query, id); err != nil {
		return nil, notFound(err, "Invoice not found")
	}
	return &inv, nil
}

func (r *invoiceRepository) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	query, args := buildInvoiceWhere(`SELECT * FROM invoices`, filter)
	query += orderClause(filter.GetSort(), filter.GetOrder(), invoiceSortColumns)
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.GetLimit(), filter.GetOffset())

	invoices := make([]*invoice.Invoice, 0)
	if err := r.client.Querier(ctx).SelectContext(ctx, &invoices, query, args...); err != nil {
		return nil, translateError(err, "", "")
	}
	return invoices, nil
}

func (r *invoiceRepository) Count(ctx context.Context, filter *types.InvoiceFilter) (int, error) {
	query, args := buildInvoiceWhere(`SELECT COUNT(*) FROM invoices`, filter)

	var count int
	if err := r.client.Querier(ctx).GetContext(ctx, &count, query, args...); err != nil {
		return 0, translateError(err, "", "")
	}
	return count, nil
}

func (r *invoiceRepository) Update(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		UPDATE invoices
		SET amount = $2, due_date = $3, paid_at = $4, status = $5,
			line_items = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.client.Querier(ctx).ExecContext(ctx, query,
		inv.ID, inv.Amount, inv.DueDate, inv.PaidAt, inv.Status,
		inv.LineItems, inv.UpdatedAt)
	if err != nil {
		return translateError(err,
			"Invoice already exists",
			"The referenced subscription or customer does not exist")
	}
	return requireAffected(result, "Invoice not found")
}

func (r *invoiceRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.client.Querier(ctx).ExecContext(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "", "")
	}
	return requireAffected(result, "Invoice not found")
}

func (r *invoiceRepository) DeleteBySubscriptionID(ctx context.Context, subscriptionID int64) ([]int64, error) {
	var ids []int64
	err := r.client.Querier(ctx).SelectContext(ctx, &ids,
		`DELETE FROM invoices WHERE subscription_id = $1 RETURNING id`, subscriptionID)
	if err != nil {
		return nil, translateError(err, "", "")
	}
	return ids, nil
}

func (r *invoiceRepository) DeleteByCustomerID(ctx context.Context, customerID int64) ([]int64, error) {
	var ids []int64
	err := r.client.Querier(ctx).SelectContext(ctx, &ids,
		`DELETE FROM invoices WHERE customer_id = $1 RETURNING id`, customerID)
	if err != nil {
		return nil, translateError(err, "", "")
	}
	return ids, nil
}

func buildInvoiceWhere(base string, filter *types.InvoiceFilter) (string, []interface{}) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		conditions = append(conditions, fmt.Sprintf("customer_id = $%d", len(args)))
	}
	if filter.SubscriptionID != nil {
		args = append(args, *filter.SubscriptionID)
		conditions = append(conditions, fmt.Sprintf("subscription_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	return appendWhere(base, conditions), args
}
