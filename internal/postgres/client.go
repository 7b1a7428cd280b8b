package postgres

import (
	"context"

	"github.com/subledger/subledger/internal/logger"
)

// IClient defines the interface for postgres client operations
type IClient interface {
	// WithTx wraps the given function in a transaction
	WithTx(ctx context.Context, fn func(context.Context) error) error

	// Querier returns the current transaction if in a transaction, or the
	// regular connection pool
	Querier(ctx context.Context) Querier

	// Close tears the connection pool down at process exit
	Close()
}

// Client wraps DB to satisfy IClient. It is created once at startup and
// shared by reference.
type Client struct {
	db     *DB
	logger *logger.Logger
}

// NewClient creates a new client wrapper with transaction management
func NewClient(db *DB, logger *logger.Logger) IClient {
	return &Client{
		db:     db,
		logger: logger,
	}
}

func (c *Client) WithTx(ctx context.Context, fn func(context.Context) error) error {
	return c.db.WithTx(ctx, fn)
}

func (c *Client) Querier(ctx context.Context) Querier {
	return c.db.GetQuerier(ctx)
}

func (c *Client) Close() {
	c.db.Close()
}
