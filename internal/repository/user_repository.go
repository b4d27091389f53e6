package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"crm-dashboard-service/internal/model"
)

// UserRepository defines database operations for users.
type UserRepository interface {
	// Upsert creates or refreshes the user row keyed by external uid.
	Upsert(ctx context.Context, req model.UserSyncRequest) (model.User, error)

	// GetByExternalUID resolves the internal user record for an
	// identity-provider uid.
	GetByExternalUID(ctx context.Context, externalUID string) (model.User, error)
}

type userRepository struct {
	db DB
}

// NewUserRepository creates a UserRepository backed by PostgreSQL.
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

const upsertUserQuery = `
	INSERT INTO users (id, external_uid, email, display_name, photo_url)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (external_uid) DO UPDATE SET
		email        = EXCLUDED.email,
		display_name = EXCLUDED.display_name,
		photo_url    = EXCLUDED.photo_url,
		updated_at   = now()
	RETURNING id, external_uid, email, display_name, photo_url, created_at, updated_at
`

func (r *userRepository) Upsert(ctx context.Context, req model.UserSyncRequest) (model.User, error) {
	var user model.User
	err := r.db.QueryRow(ctx, upsertUserQuery,
		uuid.New(),
		req.ExternalUID,
		req.Email,
		req.DisplayName,
		req.PhotoURL,
	).Scan(&user.ID, &user.ExternalUID, &user.Email, &user.DisplayName, &user.PhotoURL, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return model.User{}, fmt.Errorf("upsert user: %w", err)
	}
	return user, nil
}

const getUserByExternalUIDQuery = `
	SELECT id, external_uid, email, display_name, photo_url, created_at, updated_at
	FROM users
	WHERE external_uid = $1
`

func (r *userRepository) GetByExternalUID(ctx context.Context, externalUID string) (model.User, error) {
	var user model.User
	err := r.db.QueryRow(ctx, getUserByExternalUIDQuery, externalUID).
		Scan(&user.ID, &user.ExternalUID, &user.Email, &user.DisplayName, &user.PhotoURL, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
