package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	DB         DBConfig
	JWT        JWTConfig
	S3         S3Config
	Log        LogConfig
	Extraction ExtractionConfig
	CORS       CORSConfig
	Queue      QueueConfig
	Email      EmailConfig
}

// EmailConfig holds reviewer notification settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	FrontendURL string `mapstructure:"frontend_url"`
}

// QueueConfig holds verification queue worker settings.
type QueueConfig struct {
	PollIntervalSecs int `mapstructure:"poll_interval_secs"`
	MaxRetries       int `mapstructure:"max_retries"`
	Concurrency      int `mapstructure:"concurrency"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// OCRProviderConfig holds settings for a single OCR provider. Binary
// settings apply to tesseract, API settings to claude.
type OCRProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
	Binary       string `mapstructure:"binary"`
	RasterBinary string `mapstructure:"raster_binary"`
	Language     string `mapstructure:"language"`
	DPI          int    `mapstructure:"dpi"`
	PSM          int    `mapstructure:"psm"`
}

// ExtractionConfig holds text extraction settings.
type ExtractionConfig struct {
	PDFMaxPages   int `mapstructure:"pdf_max_pages"`
	MinTextLength int `mapstructure:"min_text_length"`

	Primary   OCRProviderConfig `mapstructure:"primary"`
	Secondary OCRProviderConfig `mapstructure:"secondary"`
}

// PrimaryConfig returns the primary OCR provider config.
func (e *ExtractionConfig) PrimaryConfig() *OCRProviderConfig {
	return &e.Primary
}

// SecondaryConfig returns the secondary OCR provider config, or nil if not configured.
func (e *ExtractionConfig) SecondaryConfig() *OCRProviderConfig {
	if e.Secondary.Provider != "" {
		return &e.Secondary
	}
	return nil
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the REGCHECK_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("REGCHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "regcheck")
	v.SetDefault("db.password", "regcheck_secret")
	v.SetDefault("db.name", "regcheck_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "regcheck")

	// S3 defaults
	v.SetDefault("s3.region", "af-south-1")
	v.SetDefault("s3.bucket", "regcheck-documents")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 20)
	v.SetDefault("s3.presign_expiry", 900)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Queue defaults
	v.SetDefault("queue.poll_interval_secs", 10)
	v.SetDefault("queue.max_retries", 5)
	v.SetDefault("queue.concurrency", 4)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "af-south-1")
	v.SetDefault("email.from_address", "noreply@regcheck.local")
	v.SetDefault("email.from_name", "RegCheck")
	v.SetDefault("email.frontend_url", "http://localhost:3000")

	// Extraction defaults
	v.SetDefault("extraction.pdf_max_pages", 10)
	v.SetDefault("extraction.min_text_length", 10)
	v.SetDefault("extraction.primary.provider", "tesseract")
	v.SetDefault("extraction.primary.api_key", "")
	v.SetDefault("extraction.primary.default_model", "")
	v.SetDefault("extraction.primary.timeout_secs", 120)
	v.SetDefault("extraction.primary.binary", "tesseract")
	v.SetDefault("extraction.primary.raster_binary", "pdftoppm")
	v.SetDefault("extraction.primary.language", "eng")
	v.SetDefault("extraction.primary.dpi", 300)
	v.SetDefault("extraction.primary.psm", 3)
	v.SetDefault("extraction.secondary.provider", "")
	v.SetDefault("extraction.secondary.api_key", "")
	v.SetDefault("extraction.secondary.default_model", "claude-sonnet-4-20250514")
	v.SetDefault("extraction.secondary.timeout_secs", 120)
	v.SetDefault("extraction.secondary.binary", "tesseract")
	v.SetDefault("extraction.secondary.raster_binary", "pdftoppm")
	v.SetDefault("extraction.secondary.language", "eng")
	v.SetDefault("extraction.secondary.dpi", 300)
	v.SetDefault("extraction.secondary.psm", 3)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                        "REGCHECK_SERVER_PORT",
		"server.read_timeout":                "REGCHECK_SERVER_READ_TIMEOUT",
		"server.write_timeout":               "REGCHECK_SERVER_WRITE_TIMEOUT",
		"server.environment":                 "REGCHECK_SERVER_ENVIRONMENT",
		"db.host":                            "REGCHECK_DB_HOST",
		"db.port":                            "REGCHECK_DB_PORT",
		"db.user":                            "REGCHECK_DB_USER",
		"db.password":                        "REGCHECK_DB_PASSWORD",
		"db.name":                            "REGCHECK_DB_NAME",
		"db.sslmode":                         "REGCHECK_DB_SSLMODE",
		"db.max_open":                        "REGCHECK_DB_MAX_OPEN",
		"db.max_idle":                        "REGCHECK_DB_MAX_IDLE",
		"jwt.secret":                         "REGCHECK_JWT_SECRET",
		"jwt.access_expiry":                  "REGCHECK_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":                 "REGCHECK_JWT_REFRESH_EXPIRY",
		"jwt.issuer":                         "REGCHECK_JWT_ISSUER",
		"s3.region":                          "REGCHECK_S3_REGION",
		"s3.bucket":                          "REGCHECK_S3_BUCKET",
		"s3.endpoint":                        "REGCHECK_S3_ENDPOINT",
		"s3.access_key":                      "REGCHECK_S3_ACCESS_KEY",
		"s3.secret_key":                      "REGCHECK_S3_SECRET_KEY",
		"s3.max_file_size_mb":                "REGCHECK_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":                  "REGCHECK_S3_PRESIGN_EXPIRY",
		"log.level":                          "REGCHECK_LOG_LEVEL",
		"log.format":                         "REGCHECK_LOG_FORMAT",
		"cors.allowed_origins":               "REGCHECK_CORS_ALLOWED_ORIGINS",
		"queue.poll_interval_secs":           "REGCHECK_QUEUE_POLL_INTERVAL_SECS",
		"queue.max_retries":                  "REGCHECK_QUEUE_MAX_RETRIES",
		"queue.concurrency":                  "REGCHECK_QUEUE_CONCURRENCY",
		"email.provider":                     "REGCHECK_EMAIL_PROVIDER",
		"email.region":                       "REGCHECK_EMAIL_REGION",
		"email.from_address":                 "REGCHECK_EMAIL_FROM_ADDRESS",
		"email.from_name":                    "REGCHECK_EMAIL_FROM_NAME",
		"email.frontend_url":                 "REGCHECK_EMAIL_FRONTEND_URL",
		"extraction.pdf_max_pages":           "REGCHECK_EXTRACTION_PDF_MAX_PAGES",
		"extraction.min_text_length":         "REGCHECK_EXTRACTION_MIN_TEXT_LENGTH",
		"extraction.primary.provider":        "REGCHECK_EXTRACTION_PRIMARY_PROVIDER",
		"extraction.primary.api_key":         "REGCHECK_EXTRACTION_PRIMARY_API_KEY",
		"extraction.primary.default_model":   "REGCHECK_EXTRACTION_PRIMARY_DEFAULT_MODEL",
		"extraction.primary.timeout_secs":    "REGCHECK_EXTRACTION_PRIMARY_TIMEOUT_SECS",
		"extraction.primary.binary":          "REGCHECK_EXTRACTION_PRIMARY_BINARY",
		"extraction.primary.raster_binary":   "REGCHECK_EXTRACTION_PRIMARY_RASTER_BINARY",
		"extraction.primary.language":        "REGCHECK_EXTRACTION_PRIMARY_LANGUAGE",
		"extraction.primary.dpi":             "REGCHECK_EXTRACTION_PRIMARY_DPI",
		"extraction.primary.psm":             "REGCHECK_EXTRACTION_PRIMARY_PSM",
		"extraction.secondary.provider":      "REGCHECK_EXTRACTION_SECONDARY_PROVIDER",
		"extraction.secondary.api_key":       "REGCHECK_EXTRACTION_SECONDARY_API_KEY",
		"extraction.secondary.default_model": "REGCHECK_EXTRACTION_SECONDARY_DEFAULT_MODEL",
		"extraction.secondary.timeout_secs":  "REGCHECK_EXTRACTION_SECONDARY_TIMEOUT_SECS",
		"extraction.secondary.binary":        "REGCHECK_EXTRACTION_SECONDARY_BINARY",
		"extraction.secondary.raster_binary": "REGCHECK_EXTRACTION_SECONDARY_RASTER_BINARY",
		"extraction.secondary.language":      "REGCHECK_EXTRACTION_SECONDARY_LANGUAGE",
		"extraction.secondary.dpi":           "REGCHECK_EXTRACTION_SECONDARY_DPI",
		"extraction.secondary.psm":           "REGCHECK_EXTRACTION_SECONDARY_PSM",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if REGCHECK_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("REGCHECK_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}

	cfg.Extraction = ExtractionConfig{
		PDFMaxPages:   v.GetInt("extraction.pdf_max_pages"),
		MinTextLength: v.GetInt("extraction.min_text_length"),
		Primary:       loadOCRProvider(v, "extraction.primary"),
		Secondary:     loadOCRProvider(v, "extraction.secondary"),
	}

	cfg.Queue = QueueConfig{
		PollIntervalSecs: v.GetInt("queue.poll_interval_secs"),
		MaxRetries:       v.GetInt("queue.max_retries"),
		Concurrency:      v.GetInt("queue.concurrency"),
	}

	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		FrontendURL: v.GetString("email.frontend_url"),
	}

	return cfg, nil
}

func loadOCRProvider(v *viper.Viper, prefix string) OCRProviderConfig {
	return OCRProviderConfig{
		Provider:     v.GetString(prefix + ".provider"),
		APIKey:       v.GetString(prefix + ".api_key"),
		DefaultModel: v.GetString(prefix + ".default_model"),
		TimeoutSecs:  v.GetInt(prefix + ".timeout_secs"),
		Binary:       v.GetString(prefix + ".binary"),
		RasterBinary: v.GetString(prefix + ".raster_binary"),
		Language:     v.GetString(prefix + ".language"),
		DPI:          v.GetInt(prefix + ".dpi"),
		PSM:          v.GetInt(prefix + ".psm"),
	}
}

// splitList parses a comma-separated string, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
