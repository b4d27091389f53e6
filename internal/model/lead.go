package model

import (
	"time"

	"github.com/google/uuid"
)

// Lead workflow statuses, advanced manually from the dashboard.
const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusQualified = "qualified"
	LeadStatusConverted = "converted"
)

// IsValidLeadStatus reports whether s is a known workflow status.
func IsValidLeadStatus(s string) bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusConverted:
		return true
	default:
		return false
	}
}

// LeadRow is one form submission as persisted.
// The external lead id is globally unique across all integrations.
type LeadRow struct {
	ID             uuid.UUID
	IntegrationID  uuid.UUID
	ExternalLeadID string
	FormID         string
	FormName       string
	FieldData      map[string]string
	Status         string
	CreatedTime    time.Time
	SyncedAt       time.Time
}

// Lead is the normalized shape every adapter reports leads in.
// Name, Email and Phone are convenience lookups into Data.
type Lead struct {
	ID        string            `json:"id"`
	Source    string            `json:"source"`
	Name      string            `json:"name,omitempty"`
	Email     string            `json:"email,omitempty"`
	Phone     string            `json:"phone,omitempty"`
	Data      map[string]string `json:"data"`
	CreatedAt time.Time         `json:"created_at"`
	Status    string            `json:"status"`
}
