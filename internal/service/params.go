package service

import (
	"github.com/subledger/subledger/internal/cache"
	"github.com/subledger/subledger/internal/config"
	"github.com/subledger/subledger/internal/domain/customer"
	"github.com/subledger/subledger/internal/domain/invoice"
	"github.com/subledger/subledger/internal/domain/plan"
	"github.com/subledger/subledger/internal/domain/subscription"
	"github.com/subledger/subledger/internal/logger"
	"github.com/subledger/subledger/internal/postgres"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient
	Cache  cache.Cache

	// Repositories
	CustomerRepo customer.Repository
	PlanRepo     plan.Repository
	SubRepo      subscription.Repository
	InvoiceRepo  invoice.Repository
}

// NewServiceParams bundles the common service dependencies
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db postgres.IClient,
	cache cache.Cache,
	customerRepo customer.Repository,
	planRepo plan.Repository,
	subRepo subscription.Repository,
	invoiceRepo invoice.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:       logger,
		Config:       config,
		DB:           db,
		Cache:        cache,
		CustomerRepo: customerRepo,
		PlanRepo:     planRepo,
		SubRepo:      subRepo,
		InvoiceRepo:  invoiceRepo,
	}
}
