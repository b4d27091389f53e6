package model

import (
	"time"

	"github.com/google/uuid"
)

// Integration links one user to one external page or account.
// A (user, page) pair identifies at most one row; reconnecting the same
// page updates the existing row instead of creating a duplicate.
type Integration struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"user_id"`
	Provider       string     `json:"provider"`
	PageID         string     `json:"page_id"`
	PageName       string     `json:"page_name"`
	ProviderUserID string     `json:"provider_user_id"`
	AccessToken    string     `json:"-"`
	Permissions    []string   `json:"permissions"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ConnectionStatus is the richer answer to "is this user connected".
type ConnectionStatus struct {
	Connected    bool       `json:"connected"`
	ConnectionID string     `json:"connection_id,omitempty"`
	AccountName  string     `json:"account_name,omitempty"`
	AccountID    string     `json:"account_id,omitempty"`
	LastSync     *time.Time `json:"last_sync,omitempty"`
	Error        string     `json:"error,omitempty"`
}
