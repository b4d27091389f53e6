package mockrepository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"crm-dashboard-service/internal/model"
	"crm-dashboard-service/internal/repository"
)

// Users mocks repository.UserRepository.
type Users struct {
	mock.Mock
}

// Interface compliance check
var _ repository.UserRepository = &Users{}

func (m *Users) Upsert(ctx context.Context, req model.UserSyncRequest) (model.User, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *Users) GetByExternalUID(ctx context.Context, externalUID string) (model.User, error) {
	args := m.Called(ctx, externalUID)
	return args.Get(0).(model.User), args.Error(1)
}

// Integrations mocks repository.IntegrationRepository.
type Integrations struct {
	mock.Mock
}

var _ repository.IntegrationRepository = &Integrations{}

func (m *Integrations) Upsert(ctx context.Context, in model.Integration) (model.Integration, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(model.Integration), args.Error(1)
}

func (m *Integrations) GetByID(ctx context.Context, id string) (model.Integration, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Integration), args.Error(1)
}

func (m *Integrations) GetActiveByUser(ctx context.Context, userID uuid.UUID, provider string) (model.Integration, error) {
	args := m.Called(ctx, userID, provider)
	return args.Get(0).(model.Integration), args.Error(1)
}

func (m *Integrations) Deactivate(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// Insights mocks repository.InsightRepository.
type Insights struct {
	mock.Mock
}

var _ repository.InsightRepository = &Insights{}

func (m *Insights) UpsertBatch(ctx context.Context, rows []model.InsightRow) error {
	return m.Called(ctx, rows).Error(0)
}

func (m *Insights) ListByIntegration(ctx context.Context, integrationID uuid.UUID, since, until time.Time) ([]model.InsightRow, error) {
	args := m.Called(ctx, integrationID, since, until)
	if v := args.Get(0); v != nil {
		return v.([]model.InsightRow), args.Error(1)
	}
	return nil, args.Error(1)
}

// Leads mocks repository.LeadRepository.
type Leads struct {
	mock.Mock
}

var _ repository.LeadRepository = &Leads{}

func (m *Leads) Upsert(ctx context.Context, row model.LeadRow) error {
	return m.Called(ctx, row).Error(0)
}

func (m *Leads) ListByIntegration(ctx context.Context, integrationID uuid.UUID) ([]model.LeadRow, error) {
	args := m.Called(ctx, integrationID)
	if v := args.Get(0); v != nil {
		return v.([]model.LeadRow), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Leads) UpdateStatus(ctx context.Context, id, status string) error {
	return m.Called(ctx, id, status).Error(0)
}
