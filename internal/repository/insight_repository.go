package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"crm-dashboard-service/internal/model"
)

// InsightRepository defines database operations for insight data points.
type InsightRepository interface {
	// UpsertBatch writes metric points using pgx.Batch. Re-running a sync
	// with identical upstream data leaves the row count unchanged.
	UpsertBatch(ctx context.Context, rows []model.InsightRow) error

	// ListByIntegration reads points inside [since, until] ordered by date.
	ListByIntegration(ctx context.Context, integrationID uuid.UUID, since, until time.Time) ([]model.InsightRow, error)
}

type insightRepository struct {
	db DB
}

// NewInsightRepository creates an InsightRepository backed by PostgreSQL.
func NewInsightRepository(db DB) InsightRepository {
	return &insightRepository{db: db}
}

const upsertInsightQuery = `
	INSERT INTO insights (integration_id, metric_name, metric_value, metric_period, date_start, date_end)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (integration_id, metric_name, metric_period, date_start, date_end) DO UPDATE SET
		metric_value = EXCLUDED.metric_value,
		synced_at    = now()
`

func (r *insightRepository) UpsertBatch(ctx context.Context, rows []model.InsightRow) error {
	if len(rows) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(upsertInsightQuery,
			row.IntegrationID,
			row.MetricName,
			row.MetricValue,
			row.MetricPeriod,
			row.DateStart,
			row.DateEnd,
		)
	}

	br := r.db.SendBatch(ctx, batch)
	defer br.Close()

	for range rows {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch execution error: %w", err)
		}
	}
	return nil
}

const listInsightsQuery = `
	SELECT integration_id, metric_name, metric_value, metric_period, date_start, date_end
	FROM insights
	WHERE integration_id = $1 AND date_start >= $2 AND date_end <= $3
	ORDER BY date_start ASC
`

func (r *insightRepository) ListByIntegration(ctx context.Context, integrationID uuid.UUID, since, until time.Time) ([]model.InsightRow, error) {
	rows, err := r.db.Query(ctx, listInsightsQuery, integrationID, since, until)
	if err != nil {
		return nil, fmt.Errorf("list insights: %w", err)
	}
	defer rows.Close()

	var out []model.InsightRow
	for rows.Next() {
		var row model.InsightRow
		if err := rows.Scan(&row.IntegrationID, &row.MetricName, &row.MetricValue, &row.MetricPeriod, &row.DateStart, &row.DateEnd); err != nil {
			return nil, fmt.Errorf("scan insight: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list insights: %w", err)
	}
	return out, nil
}
