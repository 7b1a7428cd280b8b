package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/subledger/subledger/internal/config"
	"github.com/subledger/subledger/internal/logger"
)

var schema = `
CREATE TABLE IF NOT EXISTS customers (
	id         BIGSERIAL PRIMARY KEY,
	name       TEXT        NOT NULL,
	email      TEXT        NOT NULL UNIQUE,
	status     TEXT        NOT NULL DEFAULT 'ACTIVE',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS plans (
	id                BIGSERIAL PRIMARY KEY,
	name              TEXT        NOT NULL UNIQUE,
	description       TEXT,
	price             BIGINT      NOT NULL CHECK (price >= 0),
	billing_interval  TEXT        NOT NULL,
	trial_period_days INT         CHECK (trial_period_days > 0),
	is_active         BOOLEAN     NOT NULL DEFAULT TRUE,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS subscriptions (
	id                   BIGSERIAL PRIMARY KEY,
	customer_id          BIGINT      NOT NULL REFERENCES customers (id),
	plan_id              BIGINT      NOT NULL REFERENCES plans (id),
	status               TEXT        NOT NULL DEFAULT 'TRIALING',
	start_date           TIMESTAMPTZ NOT NULL,
	current_period_start TIMESTAMPTZ NOT NULL,
	current_period_end   TIMESTAMPTZ NOT NULL,
	cancel_at_period_end BOOLEAN     NOT NULL DEFAULT FALSE,
	canceled_at          TIMESTAMPTZ,
	created_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at           TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_subscriptions_customer_id ON subscriptions (customer_id);
CREATE INDEX IF NOT EXISTS idx_subscriptions_plan_id ON subscriptions (plan_id);

CREATE TABLE IF NOT EXISTS invoices (
	id              BIGSERIAL PRIMARY KEY,
	subscription_id BIGINT      NOT NULL REFERENCES subscriptions (id),
	customer_id     BIGINT      NOT NULL REFERENCES customers (id),
	amount          BIGINT      NOT NULL CHECK (amount >= 0),
	due_date        TIMESTAMPTZ NOT NULL,
	paid_at         TIMESTAMPTZ,
	status          TEXT        NOT NULL DEFAULT 'DRAFT',
	line_items      JSONB       NOT NULL DEFAULT '[]',
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_invoices_subscription_id ON invoices (subscription_id);
CREATE INDEX IF NOT EXISTS idx_invoices_customer_id ON invoices (customer_id);
`

func main() {
	seed := flag.Bool("seed", false, "Load a small demo dataset after migrating")
	dryRun := flag.Bool("dry-run", false, "Print the schema SQL without executing it")
	flag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	if *dryRun {
		fmt.Fprintln(os.Stdout, schema)
		return
	}

	dsn := cfg.Postgres.GetDSN()
	logger.Infow("connecting to database", "host", cfg.Postgres.Host)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		logger.Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Info("Running database migrations...")
	if _, err := db.ExecContext(ctx, schema); err != nil {
		logger.Fatalw("migration failed", "error", err)
	}
	logger.Info("Migrations completed successfully")

	if *seed {
		logger.Info("Seeding demo data...")
		if err := seedData(ctx, db); err != nil {
			logger.Fatalw("seed failed", "error", err)
		}
		logger.Info("Seed completed successfully")
	}
}

// seedData loads a small working dataset: two plans, two customers, a
// subscription each and an open invoice for the first one.
func seedData(ctx context.Context, db *sqlx.DB) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	periodEnd := now.Add(30 * 24 * time.Hour)

	var starterID, proID int64
	if err := tx.GetContext(ctx, &starterID,
		`INSERT INTO plans (name, description, price, billing_interval, trial_period_days)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		"Starter", "For small teams", 2500, "MONTHLY", 14); err != nil {
		return err
	}
	if err := tx.GetContext(ctx, &proID,
		`INSERT INTO plans (name, description, price, billing_interval)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		"Pro", "For growing teams", 24000, "YEARLY"); err != nil {
		return err
	}

	var acmeID, globexID int64
	if err := tx.GetContext(ctx, &acmeID,
		`INSERT INTO customers (name, email) VALUES ($1, $2) RETURNING id`,
		"Acme Corp", "billing@acme.example"); err != nil {
		return err
	}
	if err := tx.GetContext(ctx, &globexID,
		`INSERT INTO customers (name, email, status) VALUES ($1, $2, $3) RETURNING id`,
		"Globex", "accounts@globex.example", "TRIALING"); err != nil {
		return err
	}

	var acmeSubID int64
	if err := tx.GetContext(ctx, &acmeSubID,
		`INSERT INTO subscriptions (customer_id, plan_id, status, start_date, current_period_start, current_period_end)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		acmeID, proID, "ACTIVE", now, now, periodEnd); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO subscriptions (customer_id, plan_id, status, start_date, current_period_start, current_period_end)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		globexID, starterID, "TRIALING", now, now, periodEnd); err != nil {
		return err
	}

	lineItems := `[{"description":"Annual subscription","quantity":1,"unitPrice":24000,"total":24000}]`
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO invoices (subscription_id, customer_id, amount, due_date, status, line_items)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		acmeSubID, acmeID, 24000, now.Add(14*24*time.Hour), "OPEN", lineItems); err != nil {
		return err
	}

	return tx.Commit()
}
