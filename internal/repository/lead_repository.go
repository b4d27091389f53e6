package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"crm-dashboard-service/internal/model"
)

// LeadRepository defines database operations for leads.
type LeadRepository interface {
	// Upsert writes one lead keyed by its external id. The conflict action
	// refreshes the form and field data but never touches status: a status
	// a user has advanced in the dashboard survives any later sync.
	Upsert(ctx context.Context, row model.LeadRow) error

	// ListByIntegration reads leads newest first.
	ListByIntegration(ctx context.Context, integrationID uuid.UUID) ([]model.LeadRow, error)

	// UpdateStatus advances the workflow status of one lead.
	UpdateStatus(ctx context.Context, id, status string) error
}

type leadRepository struct {
	db DB
}

// NewLeadRepository creates a LeadRepository backed by PostgreSQL.
func NewLeadRepository(db DB) LeadRepository {
	return &leadRepository{db: db}
}

const upsertLeadQuery = `
	INSERT INTO leads (id, integration_id, external_lead_id, form_id, form_name, field_data, status, created_time)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (external_lead_id) DO UPDATE SET
		form_id    = EXCLUDED.form_id,
		form_name  = EXCLUDED.form_name,
		field_data = EXCLUDED.field_data,
		synced_at  = now()
`

func (r *leadRepository) Upsert(ctx context.Context, row model.LeadRow) error {
	fieldData, err := marshalFieldData(row.FieldData)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, upsertLeadQuery,
		uuid.New(),
		row.IntegrationID,
		row.ExternalLeadID,
		row.FormID,
		row.FormName,
		fieldData,
		model.LeadStatusNew,
		row.CreatedTime,
	)
	if err != nil {
		return fmt.Errorf("upsert lead: %w", err)
	}
	return nil
}

const listLeadsQuery = `
	SELECT id, integration_id, external_lead_id, form_id, form_name, field_data, status, created_time, synced_at
	FROM leads
	WHERE integration_id = $1
	ORDER BY created_time DESC
`

func (r *leadRepository) ListByIntegration(ctx context.Context, integrationID uuid.UUID) ([]model.LeadRow, error) {
	rows, err := r.db.Query(ctx, listLeadsQuery, integrationID)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var out []model.LeadRow
	for rows.Next() {
		var (
			row model.LeadRow
			raw []byte
		)
		if err := rows.Scan(&row.ID, &row.IntegrationID, &row.ExternalLeadID, &row.FormID, &row.FormName, &raw, &row.Status, &row.CreatedTime, &row.SyncedAt); err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &row.FieldData); err != nil {
				return nil, fmt.Errorf("parse lead field data: %w", err)
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	return out, nil
}

const updateLeadStatusQuery = `
	UPDATE leads
	SET status = $2
	WHERE id = $1
`

func (r *leadRepository) UpdateStatus(ctx context.Context, id, status string) error {
	leadID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}

	tag, err := r.db.Exec(ctx, updateLeadStatusQuery, leadID, status)
	if err != nil {
		return fmt.Errorf("update lead status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func marshalFieldData(data map[string]string) ([]byte, error) {
	if data == nil {
		data = map[string]string{}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal field data: %w", err)
	}
	return b, nil
}
