package claude_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regcheck/internal/config"
	"regcheck/internal/port"
	"regcheck/internal/textextract"
	"regcheck/internal/textextract/claude"
	"regcheck/internal/validator/company"
)

func newTestExtractor(serverURL string) *claude.Extractor {
	cfg := &config.OCRProviderConfig{
		Provider:     "claude",
		APIKey:       "test-api-key",
		DefaultModel: "claude-sonnet-4-20250514",
		TimeoutSecs:  30,
	}
	return claude.NewWithEndpoint(cfg, serverURL)
}

func respondWith(t *testing.T, text string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		err := json.NewEncoder(w).Encode(map[string]interface{}{
			"content": []map[string]interface{}{{"type": "text", "text": text}},
		})
		assert.NoError(t, err)
	}
}

func TestClaudeExtractor_Image_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-api-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "claude-sonnet-4-20250514", reqBody["model"])

		messages := reqBody["messages"].([]interface{})
		content := messages[0].(map[string]interface{})["content"].([]interface{})
		require.Len(t, content, 2)
		imgBlock := content[0].(map[string]interface{})
		assert.Equal(t, "image", imgBlock["type"])
		source := imgBlock["source"].(map[string]interface{})
		assert.Equal(t, "image/png", source["media_type"])
		assert.Equal(t, "text", content[1].(map[string]interface{})["type"])

		respondWith(t, `{"text":"VAT 4123456789\nACME TRADING (PTY) LTD","confidence":88}`)(w, r)
	}))
	defer server.Close()

	out, err := newTestExtractor(server.URL).Extract(context.Background(), port.ExtractInput{
		FileBytes:   []byte("png-bytes"),
		ContentType: "image/png",
	})

	require.NoError(t, err)
	assert.Equal(t, "VAT 4123456789\nACME TRADING (PTY) LTD", out.Text)
	assert.Equal(t, company.MethodOCRImage, out.Method)
	require.NotNil(t, out.OCRConfidenceScore)
	assert.Equal(t, 88.0, *out.OCRConfidenceScore)
}

func TestClaudeExtractor_PDFUsesDocumentBlock(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		messages := reqBody["messages"].([]interface{})
		content := messages[0].(map[string]interface{})["content"].([]interface{})
		assert.Equal(t, "document", content[0].(map[string]interface{})["type"])

		respondWith(t, `{"text":"scan","confidence":50}`)(w, r)
	}))
	defer server.Close()

	out, err := newTestExtractor(server.URL).Extract(context.Background(), port.ExtractInput{
		FileBytes:   []byte("%PDF-1.4"),
		ContentType: "application/pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, "scan", out.Text)
}

func TestClaudeExtractor_RepairsFencedJSON(t *testing.T) {
	server := httptest.NewServer(respondWith(t, "```json\n{\"text\": \"ACME TRADING\", \"confidence\": 140,}\n```"))
	defer server.Close()

	out, err := newTestExtractor(server.URL).Extract(context.Background(), port.ExtractInput{
		FileBytes:   []byte("jpg"),
		ContentType: "image/jpeg",
	})
	require.NoError(t, err)
	assert.Equal(t, "ACME TRADING", out.Text)
	assert.Equal(t, 100.0, *out.OCRConfidenceScore)
}

func TestClaudeExtractor_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"type":"rate_limit_error"}}`))
	}))
	defer server.Close()

	_, err := newTestExtractor(server.URL).Extract(context.Background(), port.ExtractInput{
		FileBytes:   []byte("png"),
		ContentType: "image/png",
	})

	var rlErr *textextract.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "claude", rlErr.Provider)
	assert.Equal(t, 30*time.Second, rlErr.RetryAfter)
}

func TestClaudeExtractor_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("internal error"))
	}))
	defer server.Close()

	_, err := newTestExtractor(server.URL).Extract(context.Background(), port.ExtractInput{
		FileBytes:   []byte("png"),
		ContentType: "image/png",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")

	var rlErr *textextract.RateLimitError
	assert.False(t, errors.As(err, &rlErr))
}

func TestClaudeExtractor_MaxTokens(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"content":     []map[string]interface{}{{"type": "text", "text": `{"text":"partial`}},
			"stop_reason": "max_tokens",
		})
	}))
	defer server.Close()

	_, err := newTestExtractor(server.URL).Extract(context.Background(), port.ExtractInput{
		FileBytes:   []byte("png"),
		ContentType: "image/png",
	})
	assert.ErrorContains(t, err, "max_tokens")
}

func TestClaudeExtractor_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"content":[]}`))
	}))
	defer server.Close()

	_, err := newTestExtractor(server.URL).Extract(context.Background(), port.ExtractInput{
		FileBytes:   []byte("png"),
		ContentType: "image/png",
	})
	assert.ErrorContains(t, err, "empty response")
}

func TestClaudeExtractor_UnsupportedContentType(t *testing.T) {
	_, err := newTestExtractor("http://127.0.0.1:1").Extract(context.Background(), port.ExtractInput{
		FileBytes:   []byte("x"),
		ContentType: "text/plain",
	})
	assert.ErrorContains(t, err, "unsupported content type")
}

func TestRegister_RequiresAPIKey(t *testing.T) {
	claude.Register()

	_, err := textextract.NewExtractor(&config.OCRProviderConfig{Provider: "claude"}, 10)
	assert.ErrorContains(t, err, "API key")

	ex, err := textextract.NewExtractor(&config.OCRProviderConfig{Provider: "claude", APIKey: "k"}, 10)
	require.NoError(t, err)
	assert.IsType(t, &claude.Extractor{}, ex)
}
