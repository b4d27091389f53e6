package service

import (
	"context"

	"crm-dashboard-service/internal/model"
	"crm-dashboard-service/internal/repository"
)

// ValidationError represents user input issues.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// UserService keeps the local user table in step with the identity provider.
type UserService interface {
	// Sync upserts the account row after a sign-in.
	Sync(ctx context.Context, req model.UserSyncRequest) (model.User, error)
}

type userService struct {
	users repository.UserRepository
}

// NewUserService constructs a UserService.
func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) Sync(ctx context.Context, req model.UserSyncRequest) (model.User, error) {
	if req.ExternalUID == "" {
		return model.User{}, &ValidationError{Message: "external_uid is required"}
	}
	// Accounts without an email are never mirrored locally.
	if req.Email == "" {
		return model.User{}, &ValidationError{Message: "email is required"}
	}
	return s.users.Upsert(ctx, req)
}
