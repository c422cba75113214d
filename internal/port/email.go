package port

import "context"

// ReviewNotice describes a document that is waiting for a human reviewer.
type ReviewNotice struct {
	DocumentID   string
	CompanyRef   string
	DocumentType string
	Confidence   string
	Mismatches   []string
}

// ReviewNotifier tells reviewers that a document needs manual review.
type ReviewNotifier interface {
	NotifyReviewRequired(ctx context.Context, toEmail, toName string, notice ReviewNotice) error
}
