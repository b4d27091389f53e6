package service

import (
	"context"

	"crm-dashboard-service/internal/model"
	"crm-dashboard-service/internal/repository"
)

// LeadService owns the workflow-status mutations driven from the dashboard.
type LeadService interface {
	// UpdateStatus advances one lead to the given workflow status.
	UpdateStatus(ctx context.Context, id, status string) error
}

type leadService struct {
	leads repository.LeadRepository
}

// NewLeadService constructs a LeadService.
func NewLeadService(leads repository.LeadRepository) LeadService {
	return &leadService{leads: leads}
}

func (s *leadService) UpdateStatus(ctx context.Context, id, status string) error {
	if id == "" {
		return &ValidationError{Message: "lead id is required"}
	}
	if !model.IsValidLeadStatus(status) {
		return &ValidationError{Message: "unsupported lead status"}
	}
	return s.leads.UpdateStatus(ctx, id, status)
}
