package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"regcheck/internal/domain"
	"regcheck/internal/port"
)

// CreateUserInput is the DTO for creating a user.
type CreateUserInput struct {
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required,min=8"`
	FullName string          `json:"full_name" binding:"required"`
	Role     domain.UserRole `json:"role" binding:"required"`
}

// UserService defines the user management contract.
type UserService interface {
	Create(ctx context.Context, tenantID uuid.UUID, input CreateUserInput) (*domain.User, error)
	GetByID(ctx context.Context, tenantID, userID uuid.UUID) (*domain.User, error)
}

type userService struct {
	repo port.UserRepository
}

// NewUserService creates a new UserService implementation.
func NewUserService(repo port.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) Create(ctx context.Context, tenantID uuid.UUID, input CreateUserInput) (*domain.User, error) {
	if !domain.ValidUserRoles[input.Role] {
		return nil, domain.ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &domain.User{
		TenantID:     tenantID,
		Email:        strings.TrimSpace(input.Email),
		PasswordHash: string(hash),
		FullName:     input.FullName,
		Role:         input.Role,
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, tenantID, userID uuid.UUID) (*domain.User, error) {
	return s.repo.GetByID(ctx, tenantID, userID)
}
