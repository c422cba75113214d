package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"regcheck/internal/config"
	"regcheck/internal/email/noop"
	"regcheck/internal/email/ses"
	"regcheck/internal/handler"
	"regcheck/internal/port"
	"regcheck/internal/repository/postgres"
	"regcheck/internal/router"
	"regcheck/internal/service"
	s3storage "regcheck/internal/storage/s3"
	"regcheck/internal/textextract"
	"regcheck/internal/textextract/claude"
	"regcheck/internal/textextract/pdftext"
	"regcheck/internal/textextract/tesseract"
	"regcheck/internal/validator"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	docRepo := postgres.NewDocumentRepo(db)
	auditRepo := postgres.NewDocumentAuditRepo(db)
	statsRepo := postgres.NewStatsRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize text extraction
	tesseract.Register()
	claude.Register()
	ocr, err := textextract.NewOCRChain(&cfg.Extraction)
	if err != nil {
		return fmt.Errorf("failed to initialize OCR providers: %w", err)
	}
	if ocr == nil {
		log.Println("No OCR provider configured; image uploads will fail verification")
	}
	extractor := textextract.NewRouter(pdftext.New(cfg.Extraction.PDFMaxPages), ocr, cfg.Extraction.MinTextLength)

	notifier, err := newNotifier(&cfg.Email)
	if err != nil {
		return fmt.Errorf("failed to initialize notifier: %w", err)
	}

	// Initialize services
	engine := validator.NewEngine(validator.NewDefaultRegistry(), docRepo)
	authSvc := service.NewAuthService(userRepo, cfg.JWT)
	userSvc := service.NewUserService(userRepo)
	statsSvc := service.NewStatsService(statsRepo)
	docSvc := service.NewDocumentService(docRepo, userRepo, auditRepo, s3Client, extractor, notifier, engine, &cfg.S3)

	worker := service.NewVerifyQueueWorker(docRepo, docSvc, service.VerifyQueueConfig{
		PollInterval: time.Duration(cfg.Queue.PollIntervalSecs) * time.Second,
		MaxRetries:   cfg.Queue.MaxRetries,
		Concurrency:  cfg.Queue.Concurrency,
	})

	// Setup router
	r := router.Setup(authSvc, cfg.CORS.AllowedOrigins, router.Handlers{
		Auth:     handler.NewAuthHandler(authSvc),
		User:     handler.NewUserHandler(userSvc),
		Document: handler.NewDocumentHandler(docSvc),
		Verify:   handler.NewVerifyHandler(docSvc),
		Stats:    handler.NewStatsHandler(statsSvc),
		Health:   handler.NewHealthHandler(db),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Start(ctx)
	}()

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		stop()
		<-workerDone
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	<-workerDone
	return nil
}

func newNotifier(cfg *config.EmailConfig) (port.ReviewNotifier, error) {
	switch cfg.Provider {
	case "ses":
		return ses.NewSESNotifier(cfg.Region, cfg.FromAddress, cfg.FromName, cfg.FrontendURL)
	case "", "noop":
		return noop.NewNoopNotifier(cfg.FrontendURL), nil
	default:
		return nil, fmt.Errorf("unknown email provider: %s", cfg.Provider)
	}
}
