package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"regcheck/internal/domain"
	"regcheck/internal/service"
	"regcheck/mocks"
)

func TestStatsService_GetStats(t *testing.T) {
	tenantID, userID := uuid.New(), uuid.New()
	tenantStats := &domain.DocumentStats{TotalDocuments: 12, VerdictManualReview: 3, ReviewPending: 3}
	userStats := &domain.DocumentStats{TotalDocuments: 2}

	tests := []struct {
		role domain.UserRole
		want *domain.DocumentStats
	}{
		{domain.RoleAdmin, tenantStats},
		{domain.RoleReviewer, tenantStats},
		{domain.RoleMember, userStats},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			repo := new(mocks.MockStatsRepo)
			repo.On("GetTenantStats", mock.Anything, tenantID).Return(tenantStats, nil).Maybe()
			repo.On("GetUserStats", mock.Anything, tenantID, userID).Return(userStats, nil).Maybe()

			got, err := service.NewStatsService(repo).GetStats(context.Background(), tenantID, userID, tt.role)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
