package ses

import (
	"context"
	"fmt"
	"html"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"regcheck/internal/port"
)

type sesNotifier struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
	frontendURL string
}

// NewSESNotifier creates a new SES-backed ReviewNotifier.
func NewSESNotifier(region, fromAddress, fromName, frontendURL string) (port.ReviewNotifier, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return &sesNotifier{
		client:      sesv2.NewFromConfig(cfg),
		fromAddress: fromAddress,
		fromName:    fromName,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}, nil
}

func (s *sesNotifier) NotifyReviewRequired(ctx context.Context, toEmail, toName string, notice port.ReviewNotice) error {
	reviewURL := fmt.Sprintf("%s/documents/%s", s.frontendURL, notice.DocumentID)

	subject := fmt.Sprintf("Manual review needed: %s %s certificate", notice.CompanyRef, strings.ToUpper(notice.DocumentType))
	htmlBody := BuildReviewHTML(toName, reviewURL, notice)
	textBody := BuildReviewText(toName, reviewURL, notice)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

// BuildReviewText renders the plain-text body of a review notice.
func BuildReviewText(name, reviewURL string, notice port.ReviewNotice) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", name)
	fmt.Fprintf(&b, "The %s document uploaded for %s could not be verified automatically ", notice.DocumentType, notice.CompanyRef)
	fmt.Fprintf(&b, "(extraction confidence: %s).\n\n", notice.Confidence)
	if len(notice.Mismatches) > 0 {
		b.WriteString("Fields that did not match:\n")
		for _, m := range notice.Mismatches {
			fmt.Fprintf(&b, "  - %s\n", m)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Review it here:\n%s\n\nregcheck", reviewURL)
	return b.String()
}

// BuildReviewHTML renders the HTML body of a review notice.
func BuildReviewHTML(name, reviewURL string, notice port.ReviewNotice) string {
	var items strings.Builder
	for _, m := range notice.Mismatches {
		fmt.Fprintf(&items, "<li>%s</li>", html.EscapeString(m))
	}
	mismatches := ""
	if items.Len() > 0 {
		mismatches = "<p>Fields that did not match:</p><ul>" + items.String() + "</ul>"
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Document needs manual review</h2>
  <p>Hi %s,</p>
  <p>The <strong>%s</strong> document uploaded for <strong>%s</strong> could not be verified automatically
  (extraction confidence: %s).</p>
  %s
  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #4F46E5; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Review Document</a>
  </p>
  <p style="word-break: break-all; color: #666;">%s</p>
</body>
</html>`,
		html.EscapeString(name), html.EscapeString(notice.DocumentType), html.EscapeString(notice.CompanyRef),
		html.EscapeString(notice.Confidence), mismatches, reviewURL, reviewURL)
}
