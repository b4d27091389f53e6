package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RunMigrations ensures required tables exist. This keeps the service
// self-contained without an external migration step.
//
// Every uniqueness constraint below is load-bearing: writes are upserts
// keyed on these constraints, which is what makes re-running any sync
// idempotent.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            UUID PRIMARY KEY,
			external_uid  TEXT NOT NULL UNIQUE,
			email         TEXT NOT NULL,
			display_name  TEXT NOT NULL DEFAULT '',
			photo_url     TEXT NOT NULL DEFAULT '',
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS integrations (
			id               UUID PRIMARY KEY,
			user_id          UUID NOT NULL REFERENCES users(id),
			provider         TEXT NOT NULL,
			page_id          TEXT NOT NULL,
			page_name        TEXT NOT NULL DEFAULT '',
			provider_user_id TEXT NOT NULL DEFAULT '',
			access_token     TEXT NOT NULL,
			permissions      TEXT[] NOT NULL DEFAULT '{}',
			token_expires_at TIMESTAMPTZ,
			is_active        BOOLEAN NOT NULL DEFAULT true,
			created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (user_id, page_id)
		)`,
		`CREATE TABLE IF NOT EXISTS insights (
			integration_id UUID NOT NULL REFERENCES integrations(id),
			metric_name    TEXT NOT NULL,
			metric_value   BIGINT NOT NULL DEFAULT 0,
			metric_period  TEXT NOT NULL,
			date_start     DATE NOT NULL,
			date_end       DATE NOT NULL,
			synced_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (integration_id, metric_name, metric_period, date_start, date_end)
		)`,
		`CREATE TABLE IF NOT EXISTS leads (
			id               UUID PRIMARY KEY,
			integration_id   UUID NOT NULL REFERENCES integrations(id),
			external_lead_id TEXT NOT NULL UNIQUE,
			form_id          TEXT NOT NULL DEFAULT '',
			form_name        TEXT NOT NULL DEFAULT '',
			field_data       JSONB NOT NULL DEFAULT '{}',
			status           TEXT NOT NULL DEFAULT 'new',
			created_time     TIMESTAMPTZ NOT NULL,
			synced_at        TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_insights_integration_window
			ON insights (integration_id, date_start)`,
		`CREATE INDEX IF NOT EXISTS idx_leads_integration_created
			ON leads (integration_id, created_time DESC)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}
