package handler_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"regcheck/internal/domain"
	"regcheck/internal/handler"
	"regcheck/mocks"
)

func newStatsHandler() (*handler.StatsHandler, *mocks.MockStatsService) {
	mockSvc := new(mocks.MockStatsService)
	return handler.NewStatsHandler(mockSvc), mockSvc
}

func TestStatsHandler_GetStats_Success(t *testing.T) {
	h, mockSvc := newStatsHandler()

	tenantID := uuid.New()
	userID := uuid.New()
	expected := &domain.DocumentStats{
		TotalDocuments:        42,
		VerificationCompleted: 40,
		VerificationQueued:    2,
		VerdictPassed:         30,
		VerdictManualReview:   8,
		VerdictOCRFailed:      2,
		ReviewPending:         6,
	}
	mockSvc.On("GetStats", mock.Anything, tenantID, userID, domain.RoleReviewer).Return(expected, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/stats", http.NoBody)
	setAuthContext(c, tenantID, userID, domain.RoleReviewer)

	h.GetStats(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Success bool                 `json:"success"`
		Data    domain.DocumentStats `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 42, resp.Data.TotalDocuments)
	assert.Equal(t, 8, resp.Data.VerdictManualReview)
	mockSvc.AssertExpectations(t)
}

func TestStatsHandler_GetStats_ServiceError(t *testing.T) {
	h, mockSvc := newStatsHandler()

	tenantID := uuid.New()
	userID := uuid.New()
	mockSvc.On("GetStats", mock.Anything, tenantID, userID, domain.RoleMember).Return(nil, errors.New("db down"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/stats", http.NoBody)
	setAuthContext(c, tenantID, userID, domain.RoleMember)

	h.GetStats(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
