package service

import (
	"context"

	"github.com/google/uuid"

	"regcheck/internal/domain"
	"regcheck/internal/port"
)

// StatsService provides aggregate document statistics.
type StatsService interface {
	GetStats(ctx context.Context, tenantID, userID uuid.UUID, role domain.UserRole) (*domain.DocumentStats, error)
}

type statsService struct {
	statsRepo port.StatsRepository
}

// NewStatsService creates a new StatsService implementation.
func NewStatsService(statsRepo port.StatsRepository) StatsService {
	return &statsService{statsRepo: statsRepo}
}

// GetStats returns tenant-wide counts for admins and reviewers and
// upload-scoped counts for members.
func (s *statsService) GetStats(ctx context.Context, tenantID, userID uuid.UUID, role domain.UserRole) (*domain.DocumentStats, error) {
	if role == domain.RoleAdmin || role == domain.RoleReviewer {
		return s.statsRepo.GetTenantStats(ctx, tenantID)
	}
	return s.statsRepo.GetUserStats(ctx, tenantID, userID)
}
