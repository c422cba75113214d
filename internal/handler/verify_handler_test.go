package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"regcheck/internal/domain"
	"regcheck/internal/handler"
	"regcheck/internal/service"
	"regcheck/internal/validator/company"
	"regcheck/mocks"
)

func TestVerifyHandler_VerifyText_Success(t *testing.T) {
	mockSvc := new(mocks.MockDocumentService)
	h := handler.NewVerifyHandler(mockSvc)

	score := 91.5
	mockSvc.On("VerifyText", mock.Anything, mock.MatchedBy(func(in *service.VerifyTextInput) bool {
		return in.DocumentType == domain.DocumentTypeVAT &&
			in.ExtractionMethod == company.MethodOCRImage &&
			in.OCRConfidenceScore != nil && *in.OCRConfidenceScore == score &&
			in.Expected.VATNumber == "4123456789"
	})).Return(&company.ValidationResult{IsValid: true}, nil)

	body, _ := json.Marshal(map[string]interface{}{
		"document_type":        "vat",
		"text":                 "VAT Registration Number: 4123456789",
		"extraction_method":    "ocr_image",
		"ocr_confidence_score": score,
		"expected":             map[string]string{"vat_number": "4123456789"},
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/verify/text", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	setAuthContext(c, uuid.New(), uuid.New(), domain.RoleMember)

	h.VerifyText(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data company.ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Data.IsValid)
	mockSvc.AssertExpectations(t)
}

func TestVerifyHandler_VerifyText_MissingType(t *testing.T) {
	mockSvc := new(mocks.MockDocumentService)
	h := handler.NewVerifyHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/verify/text", bytes.NewReader([]byte(`{"text":"abc"}`)))
	c.Request.Header.Set("Content-Type", "application/json")
	setAuthContext(c, uuid.New(), uuid.New(), domain.RoleMember)

	h.VerifyText(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "VerifyText")
}

func TestVerifyHandler_VerifyText_BadScore(t *testing.T) {
	mockSvc := new(mocks.MockDocumentService)
	h := handler.NewVerifyHandler(mockSvc)

	mockSvc.On("VerifyText", mock.Anything, mock.Anything).Return(nil, domain.ErrInvalidOCRScore)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/verify/text",
		bytes.NewReader([]byte(`{"document_type":"vat","extraction_method":"ocr_image","ocr_confidence_score":140}`)))
	c.Request.Header.Set("Content-Type", "application/json")
	setAuthContext(c, uuid.New(), uuid.New(), domain.RoleMember)

	h.VerifyText(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_OCR_SCORE", resp.Error.Code)
}
