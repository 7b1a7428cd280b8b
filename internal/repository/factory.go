package repository

import (
	"github.com/subledger/subledger/internal/domain/customer"
	"github.com/subledger/subledger/internal/domain/invoice"
	"github.com/subledger/subledger/internal/domain/plan"
	"github.com/subledger/subledger/internal/domain/subscription"
	"github.com/subledger/subledger/internal/logger"
	"github.com/subledger/subledger/internal/postgres"
	postgresRepo "github.com/subledger/subledger/internal/repository/postgres"
)

func NewCustomerRepository(client postgres.IClient, logger *logger.Logger) customer.Repository {
	return postgresRepo.NewCustomerRepository(client, logger)
}

func NewPlanRepository(client postgres.IClient, logger *logger.Logger) plan.Repository {
	return postgresRepo.NewPlanRepository(client, logger)
}

func NewSubscriptionRepository(client postgres.IClient, logger *logger.Logger) subscription.Repository {
	return postgresRepo.NewSubscriptionRepository(client, logger)
}

func NewInvoiceRepository(client postgres.IClient, logger *logger.Logger) invoice.Repository {
	return postgresRepo.NewInvoiceRepository(client, logger)
}
