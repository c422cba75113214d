// Package claude transcribes scanned documents with the Anthropic Messages API.
package claude

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kaptinlin/jsonrepair"

	"regcheck/internal/config"
	"regcheck/internal/port"
	"regcheck/internal/textextract"
	"regcheck/internal/validator/company"
)

const (
	apiURL     = "https://api.anthropic.com/v1/messages"
	apiVersion = "2023-06-01"
)

const transcribePrompt = `You are an OCR engine. Transcribe every piece of text visible in this company
registration or tax document exactly as printed, preserving line breaks and reading order.
Do not summarise, translate, correct or reformat numbers.

Respond with a single JSON object and nothing else:
{"text": "<full transcription>", "confidence": <0-100, how legible the document was>}`

// Extractor implements port.TextExtractor using Claude vision.
type Extractor struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// New creates a Claude-backed OCR extractor from a provider config.
func New(cfg *config.OCRProviderConfig) *Extractor {
	return newExtractor(cfg, apiURL)
}

// NewWithEndpoint creates an extractor pointing at a custom API endpoint (for testing).
func NewWithEndpoint(cfg *config.OCRProviderConfig, endpoint string) *Extractor {
	return newExtractor(cfg, endpoint)
}

func newExtractor(cfg *config.OCRProviderConfig, endpoint string) *Extractor {
	model := cfg.DefaultModel
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Extractor{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Register adds the claude provider to the textextract factory registry.
func Register() {
	textextract.RegisterProvider("claude", func(cfg *config.OCRProviderConfig, _ int) (port.TextExtractor, error) {
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("claude OCR provider requires an API key")
		}
		return New(cfg), nil
	})
}

func (e *Extractor) Extract(ctx context.Context, input port.ExtractInput) (*company.RawDocumentText, error) {
	contentBlocks, err := buildContentBlocks(input)
	if err != nil {
		return nil, fmt.Errorf("building content blocks: %w", err)
	}

	reqBody := map[string]interface{}{
		"model":      e.model,
		"max_tokens": 8192,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": contentBlocks,
			},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", e.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling anthropic API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("anthropic API error (status %d): %s", resp.StatusCode, truncate(string(respBody), 500))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := textextract.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return nil, textextract.NewRateLimitError("claude", baseErr, retryAfter)
		}
		return nil, baseErr
	}

	return parseResponse(respBody)
}

func buildContentBlocks(input port.ExtractInput) ([]map[string]interface{}, error) {
	encoded := base64.StdEncoding.EncodeToString(input.FileBytes)
	var blocks []map[string]interface{}

	switch input.ContentType {
	case "application/pdf":
		blocks = append(blocks, map[string]interface{}{
			"type": "document",
			"source": map[string]interface{}{
				"type":       "base64",
				"media_type": "application/pdf",
				"data":       encoded,
			},
		})
	case "image/jpeg", "image/png":
		blocks = append(blocks, map[string]interface{}{
			"type": "image",
			"source": map[string]interface{}{
				"type":       "base64",
				"media_type": input.ContentType,
				"data":       encoded,
			},
		})
	default:
		return nil, fmt.Errorf("unsupported content type for OCR: %s", input.ContentType)
	}

	blocks = append(blocks, map[string]interface{}{
		"type": "text",
		"text": transcribePrompt,
	})

	return blocks, nil
}

// apiResponse models the Anthropic Messages API response.
type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

type transcription struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

func parseResponse(body []byte) (*company.RawDocumentText, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	if len(resp.Content) == 0 {
		return nil, fmt.Errorf("empty response from API")
	}

	if resp.StopReason == "max_tokens" {
		return nil, fmt.Errorf("output truncated (stop_reason: max_tokens): response exceeded output token limit")
	}

	t, err := decodeTranscription(resp.Content[0].Text)
	if err != nil {
		return nil, err
	}

	score := min(max(t.Confidence, 0), 100)
	return &company.RawDocumentText{
		Text:               t.Text,
		Method:             company.MethodOCRImage,
		OCRConfidenceScore: &score,
	}, nil
}

// decodeTranscription reads the model's JSON, repairing it when the model
// wrapped it in a code fence or left it unterminated.
func decodeTranscription(content string) (transcription, error) {
	var t transcription
	content = stripCodeFence(content)
	if err := json.Unmarshal([]byte(content), &t); err == nil {
		return t, nil
	}

	repaired, err := jsonrepair.JSONRepair(content)
	if err != nil {
		return t, fmt.Errorf("parsing transcription JSON: %w (raw: %s)", err, truncate(content, 500))
	}
	if err := json.Unmarshal([]byte(repaired), &t); err != nil {
		return t, fmt.Errorf("parsing repaired transcription JSON: %w (raw: %s)", err, truncate(content, 500))
	}
	return t, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
