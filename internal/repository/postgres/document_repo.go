package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"regcheck/internal/domain"
	"regcheck/internal/port"
)

type documentRepo struct {
	db *sqlx.DB
}

// NewDocumentRepo creates a new PostgreSQL-backed DocumentRepository.
func NewDocumentRepo(db *sqlx.DB) port.DocumentRepository {
	return &documentRepo{db: db}
}

func (r *documentRepo) Create(ctx context.Context, doc *domain.CompanyDocument) error {
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	query := `INSERT INTO company_documents (
		id, tenant_id, company_ref, document_type,
		file_name, content_type, file_size, s3_bucket, s3_key,
		expected_data, extraction_method, ocr_confidence, raw_text,
		extracted_data, validation_result,
		verdict, is_valid, requires_manual_review, ocr_failed,
		verification_status, verification_error, attempts, retry_after, verified_at,
		review_status, reviewed_by, reviewed_at, reviewer_notes,
		created_by, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4,
		$5, $6, $7, $8, $9,
		$10, $11, $12, $13,
		$14, $15,
		$16, $17, $18, $19,
		$20, $21, $22, $23, $24,
		$25, $26, $27, $28,
		$29, $30, $31
	)`

	_, err := r.db.ExecContext(ctx, query,
		doc.ID, doc.TenantID, doc.CompanyRef, doc.DocumentType,
		doc.FileName, doc.ContentType, doc.FileSize, doc.S3Bucket, doc.S3Key,
		doc.ExpectedData, doc.ExtractionMethod, doc.OCRConfidence, doc.RawText,
		doc.ExtractedData, doc.ValidationResult,
		doc.Verdict, doc.IsValid, doc.RequiresManualReview, doc.OCRFailed,
		doc.VerificationStatus, doc.VerificationError, doc.Attempts, doc.RetryAfter, doc.VerifiedAt,
		doc.ReviewStatus, doc.ReviewedBy, doc.ReviewedAt, doc.ReviewerNotes,
		doc.CreatedBy, doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("documentRepo.Create: %w", err)
	}
	return nil
}

func (r *documentRepo) GetByID(ctx context.Context, tenantID, docID uuid.UUID) (*domain.CompanyDocument, error) {
	var doc domain.CompanyDocument
	err := r.db.GetContext(ctx, &doc,
		"SELECT * FROM company_documents WHERE id = $1 AND tenant_id = $2", docID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("documentRepo.GetByID: %w", err)
	}
	return &doc, nil
}

// buildDocumentFilter constructs a dynamic WHERE clause for document listings.
// It returns the clause string (starting with "WHERE") and the positional arguments.
func buildDocumentFilter(tenantID uuid.UUID, filter domain.DocumentFilter) (clause string, args []interface{}) {
	args = []interface{}{tenantID}
	clause = "WHERE tenant_id = $1"
	argN := 2

	add := func(column string, value interface{}) {
		clause += fmt.Sprintf(" AND %s = $%d", column, argN)
		args = append(args, value)
		argN++
	}
	if filter.Verdict != "" {
		add("verdict", filter.Verdict)
	}
	if filter.ReviewStatus != "" {
		add("review_status", filter.ReviewStatus)
	}
	if filter.VerificationStatus != "" {
		add("verification_status", filter.VerificationStatus)
	}
	if filter.DocumentType != "" {
		add("document_type", filter.DocumentType)
	}
	if filter.CompanyRef != "" {
		add("company_ref", filter.CompanyRef)
	}
	return clause, args
}

func (r *documentRepo) List(ctx context.Context, tenantID uuid.UUID, filter domain.DocumentFilter, offset, limit int) ([]domain.CompanyDocument, int, error) {
	where, args := buildDocumentFilter(tenantID, filter)

	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM company_documents "+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("documentRepo.List count: %w", err)
	}

	n := len(args)
	query := fmt.Sprintf(`SELECT * FROM company_documents %s
		ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, where, n+1, n+2)
	args = append(args, limit, offset)

	var docs []domain.CompanyDocument
	if err := r.db.SelectContext(ctx, &docs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("documentRepo.List: %w", err)
	}
	return docs, total, nil
}

func (r *documentRepo) UpdateVerification(ctx context.Context, doc *domain.CompanyDocument) error {
	doc.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE company_documents SET
			extraction_method = $1, ocr_confidence = $2, raw_text = $3,
			extracted_data = $4, validation_result = $5,
			verdict = $6, is_valid = $7, requires_manual_review = $8, ocr_failed = $9,
			verification_status = $10, verification_error = $11, attempts = $12,
			retry_after = $13, verified_at = $14, review_status = $15, updated_at = $16
		 WHERE id = $17 AND tenant_id = $18`,
		doc.ExtractionMethod, doc.OCRConfidence, doc.RawText,
		doc.ExtractedData, doc.ValidationResult,
		doc.Verdict, doc.IsValid, doc.RequiresManualReview, doc.OCRFailed,
		doc.VerificationStatus, doc.VerificationError, doc.Attempts,
		doc.RetryAfter, doc.VerifiedAt, doc.ReviewStatus, doc.UpdatedAt,
		doc.ID, doc.TenantID)
	if err != nil {
		return fmt.Errorf("documentRepo.UpdateVerification: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

func (r *documentRepo) UpdateReview(ctx context.Context, doc *domain.CompanyDocument) error {
	doc.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE company_documents SET
			review_status = $1, reviewed_by = $2, reviewed_at = $3,
			reviewer_notes = $4, updated_at = $5
		 WHERE id = $6 AND tenant_id = $7`,
		doc.ReviewStatus, doc.ReviewedBy, doc.ReviewedAt,
		doc.ReviewerNotes, doc.UpdatedAt,
		doc.ID, doc.TenantID)
	if err != nil {
		return fmt.Errorf("documentRepo.UpdateReview: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

func (r *documentRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.CompanyDocument, error) {
	var docs []domain.CompanyDocument
	err := r.db.SelectContext(ctx, &docs,
		`UPDATE company_documents SET verification_status = 'processing', updated_at = NOW()
		 WHERE id IN (
			SELECT id FROM company_documents
			WHERE verification_status = 'queued'
			  AND (retry_after IS NULL OR retry_after <= NOW())
			ORDER BY created_at ASC
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		 )
		 RETURNING *`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("documentRepo.ClaimQueued: %w", err)
	}
	return docs, nil
}

func (r *documentRepo) ListCompleted(ctx context.Context, offset, limit int) ([]domain.CompanyDocument, error) {
	var docs []domain.CompanyDocument
	err := r.db.SelectContext(ctx, &docs,
		`SELECT * FROM company_documents WHERE verification_status = 'completed'
		 ORDER BY created_at ASC, id ASC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("documentRepo.ListCompleted: %w", err)
	}
	return docs, nil
}
