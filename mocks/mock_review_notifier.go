package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"regcheck/internal/port"
)

// MockReviewNotifier is a mock implementation of port.ReviewNotifier.
type MockReviewNotifier struct {
	mock.Mock
}

func (m *MockReviewNotifier) NotifyReviewRequired(ctx context.Context, toEmail, toName string, notice port.ReviewNotice) error {
	args := m.Called(ctx, toEmail, toName, notice)
	return args.Error(0)
}
