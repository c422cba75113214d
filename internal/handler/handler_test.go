package handler_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"regcheck/internal/domain"
	"regcheck/internal/handler"
	"regcheck/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setAuthContext(c *gin.Context, tenantID, userID uuid.UUID, role domain.UserRole) {
	c.Set(middleware.ContextKeyTenantID, tenantID)
	c.Set(middleware.ContextKeyUserID, userID)
	c.Set(middleware.ContextKeyRole, role)
	c.Set(middleware.ContextKeyEmail, "user@test.com")
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrDocumentNotFound, http.StatusNotFound, "DOCUMENT_NOT_FOUND"},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{domain.ErrUnsupportedFileType, http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE"},
		{domain.ErrUnsupportedDocumentType, http.StatusBadRequest, "UNSUPPORTED_DOCUMENT_TYPE"},
		{domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{domain.ErrDocumentNotVerified, http.StatusConflict, "DOCUMENT_NOT_VERIFIED"},
		{domain.ErrDocumentProcessing, http.StatusConflict, "DOCUMENT_PROCESSING"},
		{domain.ErrReviewNotRequired, http.StatusConflict, "REVIEW_NOT_REQUIRED"},
		{domain.ErrInvalidOCRScore, http.StatusBadRequest, "INVALID_OCR_SCORE"},
		{domain.ErrDuplicateEmail, http.StatusConflict, "DUPLICATE_EMAIL"},
		{fmt.Errorf("getting document: %w", domain.ErrDocumentNotFound), http.StatusNotFound, "DOCUMENT_NOT_FOUND"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			status, code, _ := handler.MapDomainError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestHealthHandler_Liveness(t *testing.T) {
	h := handler.NewHealthHandler(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/healthz", http.NoBody)

	h.Liveness(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthHandler_Readiness_NoDatabase(t *testing.T) {
	h := handler.NewHealthHandler(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/readyz", http.NoBody)

	h.Readiness(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
