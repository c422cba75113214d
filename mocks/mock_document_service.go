package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"regcheck/internal/domain"
	"regcheck/internal/export"
	"regcheck/internal/service"
	"regcheck/internal/validator"
	"regcheck/internal/validator/company"
)

// MockDocumentService is a mock implementation of service.DocumentService.
type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Upload(ctx context.Context, input *service.UploadInput) (*domain.CompanyDocument, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompanyDocument), args.Error(1)
}

func (m *MockDocumentService) VerifyText(ctx context.Context, input *service.VerifyTextInput) (*company.ValidationResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*company.ValidationResult), args.Error(1)
}

func (m *MockDocumentService) GetByID(ctx context.Context, tenantID, docID uuid.UUID) (*domain.CompanyDocument, error) {
	args := m.Called(ctx, tenantID, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompanyDocument), args.Error(1)
}

func (m *MockDocumentService) List(ctx context.Context, tenantID uuid.UUID, filter domain.DocumentFilter, offset, limit int) ([]domain.CompanyDocument, int, error) {
	args := m.Called(ctx, tenantID, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.CompanyDocument), args.Int(1), args.Error(2)
}

func (m *MockDocumentService) GetVerification(ctx context.Context, tenantID, docID uuid.UUID) (*validator.ValidationResponse, error) {
	args := m.Called(ctx, tenantID, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*validator.ValidationResponse), args.Error(1)
}

func (m *MockDocumentService) Revalidate(ctx context.Context, tenantID, docID, userID uuid.UUID) (*company.ValidationResult, error) {
	args := m.Called(ctx, tenantID, docID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*company.ValidationResult), args.Error(1)
}

func (m *MockDocumentService) Retry(ctx context.Context, tenantID, docID, userID uuid.UUID) (*domain.CompanyDocument, error) {
	args := m.Called(ctx, tenantID, docID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompanyDocument), args.Error(1)
}

func (m *MockDocumentService) Review(ctx context.Context, input *service.ReviewInput) (*domain.CompanyDocument, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompanyDocument), args.Error(1)
}

func (m *MockDocumentService) ListAudit(ctx context.Context, tenantID, docID uuid.UUID, offset, limit int) ([]domain.DocumentAuditEntry, int, error) {
	args := m.Called(ctx, tenantID, docID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.DocumentAuditEntry), args.Int(1), args.Error(2)
}

func (m *MockDocumentService) GetDownloadURL(ctx context.Context, tenantID, docID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID, docID)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentService) Export(ctx context.Context, tenantID uuid.UUID, filter domain.DocumentFilter, format export.Format, w io.Writer) error {
	args := m.Called(ctx, tenantID, filter, format, w)
	return args.Error(0)
}

func (m *MockDocumentService) VerifyDocument(ctx context.Context, doc *domain.CompanyDocument, maxAttempts int) {
	m.Called(ctx, doc, maxAttempts)
}
