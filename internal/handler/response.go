package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"regcheck/internal/domain"
	"regcheck/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondAccepted sends a 202 success response for work that continues in the background.
func RespondAccepted(c *gin.Context, data interface{}) {
	c.JSON(http.StatusAccepted, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "forbidden"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials"
	case errors.Is(err, domain.ErrUserInactive):
		return http.StatusForbidden, "USER_INACTIVE", "user is inactive"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, "DUPLICATE_EMAIL", "email already exists"
	case errors.Is(err, domain.ErrInvalidRole):
		return http.StatusBadRequest, "INVALID_ROLE", "invalid role; allowed: admin, reviewer, member"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: pdf, jpg, png, txt"
	case errors.Is(err, domain.ErrUnsupportedDocumentType):
		return http.StatusBadRequest, "UNSUPPORTED_DOCUMENT_TYPE", "unsupported document type; allowed: vat, registration"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusInternalServerError, "UPLOAD_FAILED", "file upload to storage failed"
	case errors.Is(err, domain.ErrInvalidExpectedData):
		return http.StatusBadRequest, "INVALID_EXPECTED_DATA", "expected company data is not valid JSON"
	case errors.Is(err, domain.ErrDocumentNotFound):
		return http.StatusNotFound, "DOCUMENT_NOT_FOUND", "document not found"
	case errors.Is(err, domain.ErrDocumentNotVerified):
		return http.StatusConflict, "DOCUMENT_NOT_VERIFIED", "document verification has not completed"
	case errors.Is(err, domain.ErrDocumentProcessing):
		return http.StatusConflict, "DOCUMENT_PROCESSING", "document verification is already in progress"
	case errors.Is(err, domain.ErrReviewNotRequired):
		return http.StatusConflict, "REVIEW_NOT_REQUIRED", "document is not awaiting manual review"
	case errors.Is(err, domain.ErrInvalidReviewStatus):
		return http.StatusBadRequest, "INVALID_REVIEW_STATUS", "status must be approved or rejected"
	case errors.Is(err, domain.ErrInvalidExtractionMethod):
		return http.StatusBadRequest, "INVALID_EXTRACTION_METHOD", "extraction_method must be pdf_text, ocr_image or none"
	case errors.Is(err, domain.ErrInvalidOCRScore):
		return http.StatusBadRequest, "INVALID_OCR_SCORE", "ocr_confidence_score must be between 0 and 100"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// extractAuthContext extracts tenant ID, user ID, and role from the request context.
// Returns false if auth context is missing (error response already written).
func extractAuthContext(c *gin.Context) (tenantID, userID uuid.UUID, role domain.UserRole, ok bool) {
	var err error
	tenantID, err = middleware.GetTenantID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing tenant context")
		return uuid.Nil, uuid.Nil, "", false
	}
	userID, err = middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return uuid.Nil, uuid.Nil, "", false
	}
	return tenantID, userID, middleware.GetRole(c), true
}

// parsePagination extracts offset and limit from query params with defaults.
func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}

// parseIDParam parses the :id path parameter. Returns false if invalid
// (error response already written).
func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid document ID")
		return uuid.Nil, false
	}
	return id, true
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get(middleware.ContextKeyRequestID)
		log.Printf("[%s] internal error: %v", requestID, err)
	}
	RespondError(c, status, code, msg)
}
