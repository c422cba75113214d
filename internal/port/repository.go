package port

import (
	"context"

	"github.com/google/uuid"

	"regcheck/internal/domain"
)

// UserRepository defines the contract for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, tenantID, userID uuid.UUID) (*domain.User, error)
	// GetByEmail looks a user up across tenants; emails are globally unique.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// ListReviewers returns active admins and reviewers of a tenant.
	ListReviewers(ctx context.Context, tenantID uuid.UUID) ([]domain.User, error)
}
