package mockintegration

import (
	"context"

	"github.com/stretchr/testify/mock"

	"crm-dashboard-service/internal/integration"
	"crm-dashboard-service/internal/model"
)

// Adapter mocks the provider-agnostic integration.Integration contract.
type Adapter struct {
	mock.Mock
}

// Interface compliance check
var _ integration.Integration = &Adapter{}

func (m *Adapter) Name() string        { return m.Called().String(0) }
func (m *Adapter) DisplayName() string { return m.Called().String(0) }
func (m *Adapter) Description() string { return m.Called().String(0) }

func (m *Adapter) Connect(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *Adapter) Disconnect(ctx context.Context, integrationID string) error {
	return m.Called(ctx, integrationID).Error(0)
}

func (m *Adapter) GetMetrics(ctx context.Context, integrationID string) ([]model.Metric, error) {
	args := m.Called(ctx, integrationID)
	if v := args.Get(0); v != nil {
		return v.([]model.Metric), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Adapter) GetLeads(ctx context.Context, integrationID string) ([]model.Lead, error) {
	args := m.Called(ctx, integrationID)
	if v := args.Get(0); v != nil {
		return v.([]model.Lead), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Adapter) IsConnected(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *Adapter) GetConnectionStatus(ctx context.Context, userID string) (model.ConnectionStatus, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.ConnectionStatus), args.Error(1)
}

// Facebook mocks integration.Facebook for controller tests.
type Facebook struct {
	Adapter
}

var _ integration.Facebook = &Facebook{}

func (m *Facebook) CompleteConnect(ctx context.Context, code, state, errParam string) integration.ConnectResult {
	return m.Called(ctx, code, state, errParam).Get(0).(integration.ConnectResult)
}

func (m *Facebook) SyncInsights(ctx context.Context, integrationID string) (integration.InsightSync, error) {
	args := m.Called(ctx, integrationID)
	return args.Get(0).(integration.InsightSync), args.Error(1)
}

func (m *Facebook) SyncLeads(ctx context.Context, integrationID string) error {
	return m.Called(ctx, integrationID).Error(0)
}
