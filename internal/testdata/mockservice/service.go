package mockservice

import (
	"context"

	"github.com/stretchr/testify/mock"

	"crm-dashboard-service/internal/model"
	"crm-dashboard-service/internal/service"
)

// UserService mocks service.UserService.
type UserService struct {
	mock.Mock
}

// Interface compliance check
var _ service.UserService = &UserService{}

func (m *UserService) Sync(ctx context.Context, req model.UserSyncRequest) (model.User, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(model.User), args.Error(1)
}

// LeadService mocks service.LeadService.
type LeadService struct {
	mock.Mock
}

var _ service.LeadService = &LeadService{}

func (m *LeadService) UpdateStatus(ctx context.Context, id, status string) error {
	return m.Called(ctx, id, status).Error(0)
}

// SyncWorker mocks service.SyncWorker.
type SyncWorker struct {
	mock.Mock
}

var _ service.SyncWorker = &SyncWorker{}

func (m *SyncWorker) Enqueue(job service.SyncJob) bool {
	return m.Called(job).Bool(0)
}

func (m *SyncWorker) Shutdown() {
	m.Called()
}
