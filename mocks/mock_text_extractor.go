package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"regcheck/internal/port"
	"regcheck/internal/validator/company"
)

// MockTextExtractor is a mock implementation of port.TextExtractor.
type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) Extract(ctx context.Context, input port.ExtractInput) (*company.RawDocumentText, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*company.RawDocumentText), args.Error(1)
}
