package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"regcheck/internal/domain"
)

// MockDocumentRepo is a mock implementation of port.DocumentRepository.
type MockDocumentRepo struct {
	mock.Mock
}

func (m *MockDocumentRepo) Create(ctx context.Context, doc *domain.CompanyDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepo) GetByID(ctx context.Context, tenantID, docID uuid.UUID) (*domain.CompanyDocument, error) {
	args := m.Called(ctx, tenantID, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompanyDocument), args.Error(1)
}

func (m *MockDocumentRepo) List(ctx context.Context, tenantID uuid.UUID, filter domain.DocumentFilter, offset, limit int) ([]domain.CompanyDocument, int, error) {
	args := m.Called(ctx, tenantID, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.CompanyDocument), args.Int(1), args.Error(2)
}

func (m *MockDocumentRepo) UpdateVerification(ctx context.Context, doc *domain.CompanyDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepo) UpdateReview(ctx context.Context, doc *domain.CompanyDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.CompanyDocument, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CompanyDocument), args.Error(1)
}

func (m *MockDocumentRepo) ListCompleted(ctx context.Context, offset, limit int) ([]domain.CompanyDocument, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CompanyDocument), args.Error(1)
}
