package port

import (
	"context"

	"github.com/google/uuid"

	"regcheck/internal/domain"
)

// DocumentRepository defines the contract for company document persistence.
// All lookups are scoped by tenantID.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.CompanyDocument) error
	GetByID(ctx context.Context, tenantID, docID uuid.UUID) (*domain.CompanyDocument, error)
	List(ctx context.Context, tenantID uuid.UUID, filter domain.DocumentFilter, offset, limit int) ([]domain.CompanyDocument, int, error)
	// UpdateVerification persists extraction output, validation result and
	// verification lifecycle fields.
	UpdateVerification(ctx context.Context, doc *domain.CompanyDocument) error
	UpdateReview(ctx context.Context, doc *domain.CompanyDocument) error
	// ClaimQueued atomically moves up to limit queued documents whose retry
	// time has passed to processing and returns them.
	ClaimQueued(ctx context.Context, limit int) ([]domain.CompanyDocument, error)
	// ListCompleted pages through completed documents across tenants.
	ListCompleted(ctx context.Context, offset, limit int) ([]domain.CompanyDocument, error)
}
