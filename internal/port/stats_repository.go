package port

import (
	"context"

	"github.com/google/uuid"

	"regcheck/internal/domain"
)

// StatsRepository provides aggregate statistics queries.
type StatsRepository interface {
	GetTenantStats(ctx context.Context, tenantID uuid.UUID) (*domain.DocumentStats, error)
	// GetUserStats counts only documents uploaded by userID.
	GetUserStats(ctx context.Context, tenantID, userID uuid.UUID) (*domain.DocumentStats, error)
}
