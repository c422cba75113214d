package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"regcheck/internal/config"
	"regcheck/internal/domain"
	"regcheck/internal/export"
	"regcheck/internal/port"
	"regcheck/internal/textextract"
	"regcheck/internal/validator"
	"regcheck/internal/validator/company"
)

const (
	defaultMaxVerifyAttempts = 5
	exportBatchSize          = 500
)

// UploadInput is the DTO for uploading a document for verification.
type UploadInput struct {
	TenantID     uuid.UUID
	CreatedBy    uuid.UUID
	DocumentType domain.DocumentType
	CompanyRef   string
	Expected     company.ExpectedCompanyData
	File         io.ReadSeeker
	FileName     string
	FileSize     int64
}

// VerifyTextInput is the DTO for validating already-extracted text without
// storing anything.
type VerifyTextInput struct {
	DocumentType       domain.DocumentType         `json:"document_type" binding:"required"`
	Text               string                      `json:"text"`
	ExtractionMethod   company.ExtractionMethod    `json:"extraction_method"`
	OCRConfidenceScore *float64                    `json:"ocr_confidence_score"`
	Expected           company.ExpectedCompanyData `json:"expected"`
}

// ReviewInput is the DTO for recording a reviewer's decision.
type ReviewInput struct {
	TenantID   uuid.UUID
	DocumentID uuid.UUID
	ReviewerID uuid.UUID
	Status     domain.ReviewStatus
	Notes      string
}

// DocumentService defines the document verification contract.
type DocumentService interface {
	Upload(ctx context.Context, input *UploadInput) (*domain.CompanyDocument, error)
	VerifyText(ctx context.Context, input *VerifyTextInput) (*company.ValidationResult, error)
	GetByID(ctx context.Context, tenantID, docID uuid.UUID) (*domain.CompanyDocument, error)
	List(ctx context.Context, tenantID uuid.UUID, filter domain.DocumentFilter, offset, limit int) ([]domain.CompanyDocument, int, error)
	GetVerification(ctx context.Context, tenantID, docID uuid.UUID) (*validator.ValidationResponse, error)
	Revalidate(ctx context.Context, tenantID, docID, userID uuid.UUID) (*company.ValidationResult, error)
	Retry(ctx context.Context, tenantID, docID, userID uuid.UUID) (*domain.CompanyDocument, error)
	Review(ctx context.Context, input *ReviewInput) (*domain.CompanyDocument, error)
	ListAudit(ctx context.Context, tenantID, docID uuid.UUID, offset, limit int) ([]domain.DocumentAuditEntry, int, error)
	GetDownloadURL(ctx context.Context, tenantID, docID uuid.UUID) (string, error)
	Export(ctx context.Context, tenantID uuid.UUID, filter domain.DocumentFilter, format export.Format, w io.Writer) error
	VerifyDocument(ctx context.Context, doc *domain.CompanyDocument, maxAttempts int)
}

type documentService struct {
	docRepo   port.DocumentRepository
	userRepo  port.UserRepository
	auditRepo port.DocumentAuditRepository
	storage   port.ObjectStorage
	extractor port.TextExtractor
	notifier  port.ReviewNotifier
	engine    *validator.Engine
	cfg       *config.S3Config
}

// NewDocumentService creates a new DocumentService implementation. notifier
// and auditRepo may be nil.
func NewDocumentService(
	docRepo port.DocumentRepository,
	userRepo port.UserRepository,
	auditRepo port.DocumentAuditRepository,
	storage port.ObjectStorage,
	extractor port.TextExtractor,
	notifier port.ReviewNotifier,
	engine *validator.Engine,
	cfg *config.S3Config,
) DocumentService {
	return &documentService{
		docRepo:   docRepo,
		userRepo:  userRepo,
		auditRepo: auditRepo,
		storage:   storage,
		extractor: extractor,
		notifier:  notifier,
		engine:    engine,
		cfg:       cfg,
	}
}

// audit records a document event. Failures are logged but never block business logic.
func (s *documentService) audit(ctx context.Context, tenantID, docID uuid.UUID, userID *uuid.UUID, action domain.AuditAction, changes map[string]interface{}) {
	if s.auditRepo == nil {
		return
	}
	changesJSON := json.RawMessage("{}")
	if len(changes) > 0 {
		if b, err := json.Marshal(changes); err == nil {
			changesJSON = b
		}
	}
	entry := &domain.DocumentAuditEntry{
		ID:         uuid.New(),
		TenantID:   tenantID,
		DocumentID: docID,
		UserID:     userID,
		Action:     action,
		Changes:    changesJSON,
	}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		log.Printf("documentService.audit: failed to write audit entry for %s/%s: %v", action, docID, err)
	}
}

func (s *documentService) Upload(ctx context.Context, input *UploadInput) (*domain.CompanyDocument, error) {
	if !domain.ValidDocumentTypes[input.DocumentType] {
		return nil, domain.ErrUnsupportedDocumentType
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.FileName), "."))
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	maxBytes := s.cfg.MaxFileSizeMB * 1024 * 1024
	if input.FileSize > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	// Read first 512 bytes for magic-byte content type detection
	buf := make([]byte, 512)
	n, err := io.ReadFull(input.File, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("reading file header: %w", err)
	}
	detected, _, _ := strings.Cut(http.DetectContentType(buf[:n]), ";")
	if detectedType, ok := domain.AllowedContentTypes[detected]; !ok || detectedType != fileType {
		return nil, domain.ErrUnsupportedFileType
	}

	if _, err := input.File.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seeking file: %w", err)
	}

	expectedJSON, err := json.Marshal(input.Expected)
	if err != nil {
		return nil, fmt.Errorf("marshaling expected data: %w", err)
	}

	docID := uuid.New()
	contentType := domain.ContentTypeFor(fileType)
	s3Key := fmt.Sprintf("tenants/%s/documents/%s/%s", input.TenantID, docID, filepath.Base(input.FileName))

	log.Printf("documentService.Upload: uploading %s document %s (%s, %d bytes) for tenant %s by user %s",
		input.DocumentType, input.FileName, contentType, input.FileSize, input.TenantID, input.CreatedBy)

	_, err = s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.cfg.Bucket,
		Key:         s3Key,
		Body:        input.File,
		ContentType: contentType,
		Size:        input.FileSize,
		Metadata: map[string]string{
			"document-id":   docID.String(),
			"document-type": string(input.DocumentType),
		},
	})
	if err != nil {
		log.Printf("documentService.Upload: S3 upload failed for document %s: %v", docID, err)
		return nil, domain.ErrUploadFailed
	}

	doc := &domain.CompanyDocument{
		ID:                 docID,
		TenantID:           input.TenantID,
		CompanyRef:         input.CompanyRef,
		DocumentType:       input.DocumentType,
		FileName:           input.FileName,
		ContentType:        contentType,
		FileSize:           input.FileSize,
		S3Bucket:           s.cfg.Bucket,
		S3Key:              s3Key,
		ExpectedData:       expectedJSON,
		ExtractedData:      json.RawMessage("{}"),
		ValidationResult:   json.RawMessage("{}"),
		VerificationStatus: domain.VerificationStatusQueued,
		ReviewStatus:       domain.ReviewStatusNotRequired,
		CreatedBy:          input.CreatedBy,
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		if delErr := s.storage.Delete(ctx, s.cfg.Bucket, s3Key); delErr != nil {
			log.Printf("documentService.Upload: failed to remove orphaned object %s: %v", s3Key, delErr)
		}
		return nil, fmt.Errorf("creating document: %w", err)
	}

	s.audit(ctx, doc.TenantID, doc.ID, &input.CreatedBy, domain.AuditDocumentCreated, map[string]interface{}{
		"document_type": input.DocumentType, "company_ref": input.CompanyRef, "file_name": input.FileName,
	})
	s.audit(ctx, doc.TenantID, doc.ID, &input.CreatedBy, domain.AuditVerificationQueued, nil)

	return doc, nil
}

// VerifyDocument downloads the stored file, recovers its text, validates it
// and saves the outcome. A rate-limited extraction is queued again until
// maxAttempts is reached; any other extraction failure still produces a
// result, flagged as OCR failed. It is called by the queue worker with the
// document already claimed and its attempt counted.
func (s *documentService) VerifyDocument(ctx context.Context, doc *domain.CompanyDocument, maxAttempts int) {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxVerifyAttempts
	}

	fileBytes, err := s.storage.Download(ctx, doc.S3Bucket, doc.S3Key)
	if err != nil {
		s.failVerification(ctx, doc, fmt.Sprintf("downloading file: %v", err))
		return
	}

	var result *company.ValidationResult
	raw, extractErr := s.extractor.Extract(ctx, port.ExtractInput{
		FileBytes:   fileBytes,
		ContentType: doc.ContentType,
	})
	if extractErr != nil {
		var rlErr *textextract.RateLimitError
		if errors.As(extractErr, &rlErr) && doc.Attempts < maxAttempts {
			s.requeue(ctx, doc, rlErr)
			return
		}
		log.Printf("documentService.VerifyDocument: extraction failed for %s: %v", doc.ID, extractErr)
		doc.RawText = ""
		doc.OCRConfidence = nil
		doc.ExtractionMethod = string(textextract.FailureMethod(doc.ContentType))
		result, err = s.engine.EvaluateFailure(doc, extractErr)
	} else {
		doc.RawText = strings.ReplaceAll(raw.Text, "\x00", "")
		doc.ExtractionMethod = string(raw.Method)
		doc.OCRConfidence = raw.OCRConfidenceScore
		doc.VerificationError = ""
		result, err = s.engine.Evaluate(doc)
	}
	if err != nil {
		s.failVerification(ctx, doc, fmt.Sprintf("validating document: %v", err))
		return
	}

	if err := s.docRepo.UpdateVerification(ctx, doc); err != nil {
		s.failVerification(ctx, doc, fmt.Sprintf("saving results: %v", err))
		return
	}

	s.audit(ctx, doc.TenantID, doc.ID, nil, domain.AuditVerificationCompleted, map[string]interface{}{
		"verdict":           doc.Verdict,
		"extraction_method": doc.ExtractionMethod,
		"confidence":        result.ExtractedData.Confidence,
		"mismatches":        len(result.Mismatches),
		"attempt":           doc.Attempts,
	})

	log.Printf("documentService.VerifyDocument: document %s verified, verdict=%s, method=%s",
		doc.ID, doc.Verdict, doc.ExtractionMethod)

	if doc.ReviewStatus == domain.ReviewStatusPending {
		s.notifyReviewers(ctx, doc, result)
	}
}

func (s *documentService) requeue(ctx context.Context, doc *domain.CompanyDocument, rlErr *textextract.RateLimitError) {
	retryAt := time.Now().Add(rlErr.RetryAfter).UTC()
	doc.VerificationStatus = domain.VerificationStatusQueued
	doc.VerificationError = fmt.Sprintf("rate limited by %s, queued for retry", rlErr.Provider)
	doc.RetryAfter = &retryAt
	if err := s.docRepo.UpdateVerification(ctx, doc); err != nil {
		s.failVerification(ctx, doc, fmt.Sprintf("queueing retry: %v", err))
		return
	}
	s.audit(ctx, doc.TenantID, doc.ID, nil, domain.AuditVerificationQueued, map[string]interface{}{
		"retry_after": retryAt.Format(time.RFC3339), "attempt": doc.Attempts, "provider": rlErr.Provider,
	})
	log.Printf("documentService.requeue: document %s queued for retry after %s", doc.ID, retryAt.Format(time.RFC3339))
}

func (s *documentService) failVerification(ctx context.Context, doc *domain.CompanyDocument, errMsg string) {
	log.Printf("documentService.failVerification: document %s failed: %s", doc.ID, errMsg)
	doc.VerificationStatus = domain.VerificationStatusFailed
	doc.VerificationError = errMsg
	doc.RetryAfter = nil
	if err := s.docRepo.UpdateVerification(ctx, doc); err != nil {
		log.Printf("documentService.failVerification: failed to update status for %s: %v", doc.ID, err)
	}
	s.audit(ctx, doc.TenantID, doc.ID, nil, domain.AuditVerificationFailed, map[string]interface{}{
		"error": errMsg, "attempt": doc.Attempts,
	})
}

func (s *documentService) notifyReviewers(ctx context.Context, doc *domain.CompanyDocument, result *company.ValidationResult) {
	if s.notifier == nil || s.userRepo == nil {
		return
	}
	reviewers, err := s.userRepo.ListReviewers(ctx, doc.TenantID)
	if err != nil {
		log.Printf("documentService.notifyReviewers: failed to list reviewers for tenant %s: %v", doc.TenantID, err)
		return
	}

	mismatches := make([]string, len(result.Mismatches))
	for i, m := range result.Mismatches {
		mismatches[i] = m.String()
	}
	notice := port.ReviewNotice{
		DocumentID:   doc.ID.String(),
		CompanyRef:   doc.CompanyRef,
		DocumentType: string(doc.DocumentType),
		Confidence:   string(result.ExtractedData.Confidence),
		Mismatches:   mismatches,
	}
	for i := range reviewers {
		r := &reviewers[i]
		if err := s.notifier.NotifyReviewRequired(ctx, r.Email, r.FullName, notice); err != nil {
			log.Printf("documentService.notifyReviewers: failed to notify %s about %s: %v", r.Email, doc.ID, err)
		}
	}
}


func (s *documentService) VerifyText(_ context.Context, input *VerifyTextInput) (*company.ValidationResult, error) {
	method := input.ExtractionMethod
	switch method {
	case "":
		method = company.MethodNone
	case company.MethodPDFText, company.MethodOCRImage, company.MethodNone:
	default:
		return nil, domain.ErrInvalidExtractionMethod
	}
	if score := input.OCRConfidenceScore; score != nil && (*score < 0 || *score > 100) {
		return nil, domain.ErrInvalidOCRScore
	}

	raw := company.RawDocumentText{
		Text:               input.Text,
		Method:             method,
		OCRConfidenceScore: input.OCRConfidenceScore,
	}
	return s.engine.Run(input.DocumentType, raw, input.Expected)
}

func (s *documentService) GetByID(ctx context.Context, tenantID, docID uuid.UUID) (*domain.CompanyDocument, error) {
	return s.docRepo.GetByID(ctx, tenantID, docID)
}

func (s *documentService) List(ctx context.Context, tenantID uuid.UUID, filter domain.DocumentFilter, offset, limit int) ([]domain.CompanyDocument, int, error) {
	return s.docRepo.List(ctx, tenantID, filter, offset, limit)
}

func (s *documentService) GetVerification(ctx context.Context, tenantID, docID uuid.UUID) (*validator.ValidationResponse, error) {
	return s.engine.GetValidation(ctx, tenantID, docID)
}

// Revalidate runs validation again over the stored text of a completed
// document without re-extracting it.
func (s *documentService) Revalidate(ctx context.Context, tenantID, docID, userID uuid.UUID) (*company.ValidationResult, error) {
	doc, err := s.docRepo.GetByID(ctx, tenantID, docID)
	if err != nil {
		return nil, err
	}
	if doc.VerificationStatus != domain.VerificationStatusCompleted {
		return nil, domain.ErrDocumentNotVerified
	}

	result, err := s.engine.ValidateDocument(ctx, tenantID, docID)
	if err != nil {
		return nil, err
	}
	s.audit(ctx, tenantID, docID, &userID, domain.AuditVerificationCompleted, map[string]interface{}{
		"trigger": "revalidate", "mismatches": len(result.Mismatches),
	})
	return result, nil
}

func (s *documentService) Retry(ctx context.Context, tenantID, docID, userID uuid.UUID) (*domain.CompanyDocument, error) {
	doc, err := s.docRepo.GetByID(ctx, tenantID, docID)
	if err != nil {
		return nil, err
	}
	if doc.VerificationStatus == domain.VerificationStatusQueued || doc.VerificationStatus == domain.VerificationStatusProcessing {
		return nil, domain.ErrDocumentProcessing
	}

	log.Printf("documentService.Retry: re-queueing document %s", docID)

	previous := doc.VerificationStatus
	doc.VerificationStatus = domain.VerificationStatusQueued
	doc.VerificationError = ""
	doc.Attempts = 0
	doc.RetryAfter = nil
	if err := s.docRepo.UpdateVerification(ctx, doc); err != nil {
		return nil, fmt.Errorf("queueing document: %w", err)
	}

	s.audit(ctx, tenantID, docID, &userID, domain.AuditVerificationRetried, map[string]interface{}{
		"previous_status": previous,
	})
	return doc, nil
}

func (s *documentService) Review(ctx context.Context, input *ReviewInput) (*domain.CompanyDocument, error) {
	if input.Status != domain.ReviewStatusApproved && input.Status != domain.ReviewStatusRejected {
		return nil, domain.ErrInvalidReviewStatus
	}

	doc, err := s.docRepo.GetByID(ctx, input.TenantID, input.DocumentID)
	if err != nil {
		return nil, err
	}
	if doc.VerificationStatus != domain.VerificationStatusCompleted {
		return nil, domain.ErrDocumentNotVerified
	}
	if doc.ReviewStatus != domain.ReviewStatusPending {
		return nil, domain.ErrReviewNotRequired
	}

	now := time.Now().UTC()
	doc.ReviewStatus = input.Status
	doc.ReviewedBy = &input.ReviewerID
	doc.ReviewedAt = &now
	doc.ReviewerNotes = input.Notes

	if err := s.docRepo.UpdateReview(ctx, doc); err != nil {
		return nil, fmt.Errorf("updating review status: %w", err)
	}

	s.audit(ctx, input.TenantID, input.DocumentID, &input.ReviewerID, domain.AuditDocumentReviewed, map[string]interface{}{
		"status": input.Status, "notes": input.Notes,
	})
	return doc, nil
}

func (s *documentService) ListAudit(ctx context.Context, tenantID, docID uuid.UUID, offset, limit int) ([]domain.DocumentAuditEntry, int, error) {
	if _, err := s.docRepo.GetByID(ctx, tenantID, docID); err != nil {
		return nil, 0, err
	}
	if s.auditRepo == nil {
		return []domain.DocumentAuditEntry{}, 0, nil
	}
	return s.auditRepo.ListByDocument(ctx, tenantID, docID, offset, limit)
}

func (s *documentService) GetDownloadURL(ctx context.Context, tenantID, docID uuid.UUID) (string, error) {
	doc, err := s.docRepo.GetByID(ctx, tenantID, docID)
	if err != nil {
		return "", err
	}
	return s.storage.GetPresignedURL(ctx, doc.S3Bucket, doc.S3Key, s.cfg.PresignExpiry)
}

// Export streams every document matching filter to w in the given format.
func (s *documentService) Export(ctx context.Context, tenantID uuid.UUID, filter domain.DocumentFilter, format export.Format, w io.Writer) error {
	ew, err := export.NewWriter(format, w)
	if err != nil {
		return err
	}
	if err := ew.WriteHeader(); err != nil {
		return fmt.Errorf("writing export header: %w", err)
	}

	for offset := 0; ; offset += exportBatchSize {
		docs, total, err := s.docRepo.List(ctx, tenantID, filter, offset, exportBatchSize)
		if err != nil {
			return fmt.Errorf("listing documents: %w", err)
		}
		if err := ew.WriteDocuments(docs); err != nil {
			return fmt.Errorf("writing export rows: %w", err)
		}
		if len(docs) < exportBatchSize || offset+len(docs) >= total {
			break
		}
	}

	return ew.Close()
}
