package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"crm-dashboard-service/internal/model"
)

// IntegrationRepository defines database operations for integrations.
type IntegrationRepository interface {
	// Upsert creates or refreshes the connection row keyed by (user, page).
	Upsert(ctx context.Context, in model.Integration) (model.Integration, error)

	// GetByID fetches one connection regardless of its active flag.
	GetByID(ctx context.Context, id string) (model.Integration, error)

	// GetActiveByUser fetches the user's active connection for a provider.
	GetActiveByUser(ctx context.Context, userID uuid.UUID, provider string) (model.Integration, error)

	// Deactivate soft-deletes a connection.
	Deactivate(ctx context.Context, id string) error
}

type integrationRepository struct {
	db DB
}

// NewIntegrationRepository creates an IntegrationRepository backed by PostgreSQL.
func NewIntegrationRepository(db DB) IntegrationRepository {
	return &integrationRepository{db: db}
}

const integrationColumns = `id, user_id, provider, page_id, page_name, provider_user_id,
	access_token, permissions, token_expires_at, is_active, created_at, updated_at`

const upsertIntegrationQuery = `
	INSERT INTO integrations (id, user_id, provider, page_id, page_name, provider_user_id,
		access_token, permissions, token_expires_at, is_active)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, true)
	ON CONFLICT (user_id, page_id) DO UPDATE SET
		page_name        = EXCLUDED.page_name,
		provider_user_id = EXCLUDED.provider_user_id,
		access_token     = EXCLUDED.access_token,
		permissions      = EXCLUDED.permissions,
		token_expires_at = EXCLUDED.token_expires_at,
		is_active        = true,
		updated_at       = now()
	RETURNING ` + integrationColumns

func (r *integrationRepository) Upsert(ctx context.Context, in model.Integration) (model.Integration, error) {
	row := r.db.QueryRow(ctx, upsertIntegrationQuery,
		uuid.New(),
		in.UserID,
		in.Provider,
		in.PageID,
		in.PageName,
		in.ProviderUserID,
		in.AccessToken,
		in.Permissions,
		in.TokenExpiresAt,
	)
	out, err := scanIntegration(row)
	if err != nil {
		return model.Integration{}, fmt.Errorf("upsert integration: %w", err)
	}
	return out, nil
}

const getIntegrationByIDQuery = `
	SELECT ` + integrationColumns + `
	FROM integrations
	WHERE id = $1
`

func (r *integrationRepository) GetByID(ctx context.Context, id string) (model.Integration, error) {
	intID, err := uuid.Parse(id)
	if err != nil {
		return model.Integration{}, ErrNotFound
	}

	out, err := scanIntegration(r.db.QueryRow(ctx, getIntegrationByIDQuery, intID))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Integration{}, ErrNotFound
	}
	if err != nil {
		return model.Integration{}, fmt.Errorf("get integration: %w", err)
	}
	return out, nil
}

const getActiveIntegrationQuery = `
	SELECT ` + integrationColumns + `
	FROM integrations
	WHERE user_id = $1 AND provider = $2 AND is_active
	ORDER BY updated_at DESC
	LIMIT 1
`

func (r *integrationRepository) GetActiveByUser(ctx context.Context, userID uuid.UUID, provider string) (model.Integration, error) {
	out, err := scanIntegration(r.db.QueryRow(ctx, getActiveIntegrationQuery, userID, provider))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Integration{}, ErrNotFound
	}
	if err != nil {
		return model.Integration{}, fmt.Errorf("get active integration: %w", err)
	}
	return out, nil
}

const deactivateIntegrationQuery = `
	UPDATE integrations
	SET is_active = false, updated_at = now()
	WHERE id = $1
`

func (r *integrationRepository) Deactivate(ctx context.Context, id string) error {
	intID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}

	tag, err := r.db.Exec(ctx, deactivateIntegrationQuery, intID)
	if err != nil {
		return fmt.Errorf("deactivate integration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanIntegration(row pgx.Row) (model.Integration, error) {
	var out model.Integration
	err := row.Scan(
		&out.ID,
		&out.UserID,
		&out.Provider,
		&out.PageID,
		&out.PageName,
		&out.ProviderUserID,
		&out.AccessToken,
		&out.Permissions,
		&out.TokenExpiresAt,
		&out.IsActive,
		&out.CreatedAt,
		&out.UpdatedAt,
	)
	return out, err
}
