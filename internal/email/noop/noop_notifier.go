package noop

import (
	"context"
	"log"
	"strings"

	"regcheck/internal/port"
)

type noopNotifier struct {
	frontendURL string
}

// NewNoopNotifier creates a no-op ReviewNotifier that logs review links to stdout.
func NewNoopNotifier(frontendURL string) port.ReviewNotifier {
	return &noopNotifier{frontendURL: strings.TrimRight(frontendURL, "/")}
}

func (s *noopNotifier) NotifyReviewRequired(_ context.Context, toEmail, toName string, notice port.ReviewNotice) error {
	log.Printf("[NOOP EMAIL] Review needed for %s (%s): %s/documents/%s company=%s type=%s mismatches=[%s]",
		toName, toEmail, s.frontendURL, notice.DocumentID, notice.CompanyRef, notice.DocumentType,
		strings.Join(notice.Mismatches, "; "))
	return nil
}
