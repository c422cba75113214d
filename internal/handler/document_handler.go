package handler

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"regcheck/internal/domain"
	"regcheck/internal/export"
	"regcheck/internal/service"
	"regcheck/internal/validator/company"
)

// DocumentHandler handles document upload, verification and review endpoints.
type DocumentHandler struct {
	documentService service.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// Upload handles POST /api/v1/documents
//
// Multipart form fields: file (required), document_type (required),
// company_ref, expected (JSON object of company data). Verification runs in
// the background; the response carries the queued document.
func (h *DocumentHandler) Upload(c *gin.Context) {
	tenantID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	docType := domain.DocumentType(strings.ToLower(strings.TrimSpace(c.PostForm("document_type"))))
	if docType == "" {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "document_type is required")
		return
	}

	var expected company.ExpectedCompanyData
	if raw := strings.TrimSpace(c.PostForm("expected")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &expected); err != nil {
			HandleError(c, fmt.Errorf("%w: %v", domain.ErrInvalidExpectedData, err))
			return
		}
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	doc, err := h.documentService.Upload(c.Request.Context(), &service.UploadInput{
		TenantID:     tenantID,
		CreatedBy:    userID,
		DocumentType: docType,
		CompanyRef:   strings.TrimSpace(c.PostForm("company_ref")),
		Expected:     expected,
		File:         file,
		FileName:     header.Filename,
		FileSize:     header.Size,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondAccepted(c, doc)
}

// parseFilter reads document list filters from query params.
func parseFilter(c *gin.Context) domain.DocumentFilter {
	return domain.DocumentFilter{
		Verdict:            domain.Verdict(c.Query("verdict")),
		ReviewStatus:       domain.ReviewStatus(c.Query("review_status")),
		VerificationStatus: domain.VerificationStatus(c.Query("verification_status")),
		DocumentType:       domain.DocumentType(c.Query("document_type")),
		CompanyRef:         strings.TrimSpace(c.Query("company_ref")),
	}
}

// List handles GET /api/v1/documents
func (h *DocumentHandler) List(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	offset, limit := parsePagination(c)
	docs, total, err := h.documentService.List(c.Request.Context(), tenantID, parseFilter(c), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, docs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Export handles GET /api/v1/documents/export?format=csv|xlsx
// It accepts the same filters as List and streams every matching document.
func (h *DocumentHandler) Export(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	format, valid := export.ParseFormat(c.Query("format"))
	if !valid {
		RespondError(c, http.StatusBadRequest, "INVALID_FORMAT", "format must be csv or xlsx")
		return
	}

	name := "documents"
	if ref := c.Query("company_ref"); ref != "" {
		name = ref
	}
	c.Header("Content-Type", format.ContentType())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.BuildFilename(name, format)))
	c.Status(http.StatusOK)

	if err := h.documentService.Export(c.Request.Context(), tenantID, parseFilter(c), format, c.Writer); err != nil {
		// Headers are already sent; the client sees a truncated file.
		log.Printf("documentHandler.Export: tenant %s: %v", tenantID, err)
	}
}

// GetByID handles GET /api/v1/documents/:id
func (h *DocumentHandler) GetByID(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	docID, ok := parseIDParam(c)
	if !ok {
		return
	}

	doc, err := h.documentService.GetByID(c.Request.Context(), tenantID, docID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, doc)
}

// GetVerification handles GET /api/v1/documents/:id/verification
func (h *DocumentHandler) GetVerification(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	docID, ok := parseIDParam(c)
	if !ok {
		return
	}

	resp, err := h.documentService.GetVerification(c.Request.Context(), tenantID, docID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, resp)
}

// Revalidate handles POST /api/v1/documents/:id/revalidate
// It re-runs field validation over the stored text without extracting again.
func (h *DocumentHandler) Revalidate(c *gin.Context) {
	tenantID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	docID, ok := parseIDParam(c)
	if !ok {
		return
	}

	result, err := h.documentService.Revalidate(c.Request.Context(), tenantID, docID, userID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// Retry handles POST /api/v1/documents/:id/retry
func (h *DocumentHandler) Retry(c *gin.Context) {
	tenantID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	docID, ok := parseIDParam(c)
	if !ok {
		return
	}

	doc, err := h.documentService.Retry(c.Request.Context(), tenantID, docID, userID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondAccepted(c, doc)
}

// Review handles PUT /api/v1/documents/:id/review (admin and reviewer only).
func (h *DocumentHandler) Review(c *gin.Context) {
	tenantID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	docID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Status domain.ReviewStatus `json:"status" binding:"required"`
		Notes  string              `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "status is required (approved or rejected)")
		return
	}

	doc, err := h.documentService.Review(c.Request.Context(), &service.ReviewInput{
		TenantID:   tenantID,
		DocumentID: docID,
		ReviewerID: userID,
		Status:     req.Status,
		Notes:      req.Notes,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, doc)
}

// ListAudit handles GET /api/v1/documents/:id/audit
func (h *DocumentHandler) ListAudit(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	docID, ok := parseIDParam(c)
	if !ok {
		return
	}

	offset, limit := parsePagination(c)
	entries, total, err := h.documentService.ListAudit(c.Request.Context(), tenantID, docID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, entries, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Download handles GET /api/v1/documents/:id/download
func (h *DocumentHandler) Download(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	docID, ok := parseIDParam(c)
	if !ok {
		return
	}

	url, err := h.documentService.GetDownloadURL(c.Request.Context(), tenantID, docID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"download_url": url})
}
