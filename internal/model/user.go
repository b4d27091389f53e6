package model

import (
	"time"

	"github.com/google/uuid"
)

// UserSyncRequest represents the payload sent by the auth layer after a sign-in.
type UserSyncRequest struct {
	ExternalUID string `json:"external_uid"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url"`
}

// User is an authenticated account, keyed by the identity provider's uid.
type User struct {
	ID          uuid.UUID `json:"id"`
	ExternalUID string    `json:"external_uid"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	PhotoURL    string    `json:"photo_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
