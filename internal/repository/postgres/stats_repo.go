package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"regcheck/internal/domain"
	"regcheck/internal/port"
)

type statsRepo struct {
	db *sqlx.DB
}

// NewStatsRepo creates a new PostgreSQL-backed StatsRepository.
func NewStatsRepo(db *sqlx.DB) port.StatsRepository {
	return &statsRepo{db: db}
}

const docStatsSelect = `SELECT
	COUNT(*) AS total_documents,
	COUNT(CASE WHEN verification_status = 'pending' THEN 1 END) AS verification_pending,
	COUNT(CASE WHEN verification_status = 'queued' THEN 1 END) AS verification_queued,
	COUNT(CASE WHEN verification_status = 'processing' THEN 1 END) AS verification_processing,
	COUNT(CASE WHEN verification_status = 'completed' THEN 1 END) AS verification_completed,
	COUNT(CASE WHEN verification_status = 'failed' THEN 1 END) AS verification_failed,
	COUNT(CASE WHEN verdict = 'passed' THEN 1 END) AS verdict_passed,
	COUNT(CASE WHEN verdict = 'failed' THEN 1 END) AS verdict_failed,
	COUNT(CASE WHEN verdict = 'manual_review' THEN 1 END) AS verdict_manual_review,
	COUNT(CASE WHEN verdict = 'ocr_failed' THEN 1 END) AS verdict_ocr_failed,
	COUNT(CASE WHEN review_status = 'pending' THEN 1 END) AS review_pending,
	COUNT(CASE WHEN review_status = 'approved' THEN 1 END) AS review_approved,
	COUNT(CASE WHEN review_status = 'rejected' THEN 1 END) AS review_rejected
FROM company_documents`

func (r *statsRepo) GetTenantStats(ctx context.Context, tenantID uuid.UUID) (*domain.DocumentStats, error) {
	var stats domain.DocumentStats
	if err := r.db.GetContext(ctx, &stats, docStatsSelect+" WHERE tenant_id = $1", tenantID); err != nil {
		return nil, fmt.Errorf("statsRepo.GetTenantStats: %w", err)
	}
	return &stats, nil
}

func (r *statsRepo) GetUserStats(ctx context.Context, tenantID, userID uuid.UUID) (*domain.DocumentStats, error) {
	var stats domain.DocumentStats
	if err := r.db.GetContext(ctx, &stats, docStatsSelect+" WHERE tenant_id = $1 AND created_by = $2", tenantID, userID); err != nil {
		return nil, fmt.Errorf("statsRepo.GetUserStats: %w", err)
	}
	return &stats, nil
}
