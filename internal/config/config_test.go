package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regcheck/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10, cfg.Extraction.PDFMaxPages)
	assert.Equal(t, 10, cfg.Extraction.MinTextLength)
	assert.Equal(t, "tesseract", cfg.Extraction.Primary.Provider)
	assert.Equal(t, "eng", cfg.Extraction.Primary.Language)
	assert.Equal(t, 300, cfg.Extraction.Primary.DPI)
	assert.Nil(t, cfg.Extraction.SecondaryConfig())
	assert.Equal(t, "noop", cfg.Email.Provider)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("REGCHECK_EXTRACTION_SECONDARY_PROVIDER", "claude")
	t.Setenv("REGCHECK_EXTRACTION_SECONDARY_API_KEY", "sk-test")
	t.Setenv("REGCHECK_EXTRACTION_PDF_MAX_PAGES", "3")
	t.Setenv("REGCHECK_CORS_ALLOWED_ORIGINS", " https://app.example.com , ,https://admin.example.com")
	t.Setenv("REGCHECK_QUEUE_CONCURRENCY", "8")

	cfg, err := config.Load()
	require.NoError(t, err)

	secondary := cfg.Extraction.SecondaryConfig()
	require.NotNil(t, secondary)
	assert.Equal(t, "claude", secondary.Provider)
	assert.Equal(t, "sk-test", secondary.APIKey)
	assert.Equal(t, "claude-sonnet-4-20250514", secondary.DefaultModel)
	assert.Equal(t, 3, cfg.Extraction.PDFMaxPages)
	assert.Equal(t, 8, cfg.Queue.Concurrency)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_PlatformPort(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("REGCHECK_SERVER_PORT", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Port)
}

func TestDBConfig_DSN(t *testing.T) {
	db := config.DBConfig{Host: "db", Port: 5433, User: "u", Password: "p", Name: "n", SSLMode: "require"}
	assert.Equal(t, "postgres://u:p@db:5433/n?sslmode=require", db.DSN())
}
