package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"regcheck/internal/domain"
)

// MockStatsRepo is a mock implementation of port.StatsRepository.
type MockStatsRepo struct {
	mock.Mock
}

func (m *MockStatsRepo) GetTenantStats(ctx context.Context, tenantID uuid.UUID) (*domain.DocumentStats, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentStats), args.Error(1)
}

func (m *MockStatsRepo) GetUserStats(ctx context.Context, tenantID, userID uuid.UUID) (*domain.DocumentStats, error) {
	args := m.Called(ctx, tenantID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentStats), args.Error(1)
}
