package service

import (
	"context"
	"log"
	"sync"
	"time"

	"regcheck/internal/port"
)

const verifyTimeout = 5 * time.Minute

// VerifyQueueConfig holds settings for the verification queue worker.
type VerifyQueueConfig struct {
	PollInterval time.Duration
	MaxRetries   int
	Concurrency  int
}

// VerifyQueueWorker polls for queued documents and dispatches them for verification.
type VerifyQueueWorker struct {
	docRepo    port.DocumentRepository
	docService DocumentService
	cfg        VerifyQueueConfig
	wg         sync.WaitGroup
}

// NewVerifyQueueWorker creates a new VerifyQueueWorker.
func NewVerifyQueueWorker(docRepo port.DocumentRepository, docService DocumentService, cfg VerifyQueueConfig) *VerifyQueueWorker {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 10 * time.Second
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &VerifyQueueWorker{
		docRepo:    docRepo,
		docService: docService,
		cfg:        cfg,
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight verifications have finished.
func (w *VerifyQueueWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	log.Printf("verifyQueueWorker: started (poll=%s, concurrency=%d, maxRetries=%d)",
		w.cfg.PollInterval, w.cfg.Concurrency, w.cfg.MaxRetries)

	for {
		select {
		case <-ctx.Done():
			log.Printf("verifyQueueWorker: shutting down, waiting for in-flight verifications...")
			w.wg.Wait()
			log.Printf("verifyQueueWorker: shutdown complete")
			return
		case <-ticker.C:
			w.poll(ctx, sem)
		}
	}
}

func (w *VerifyQueueWorker) poll(ctx context.Context, sem chan struct{}) {
	available := w.cfg.Concurrency - len(sem)
	if available <= 0 {
		return
	}

	docs, err := w.docRepo.ClaimQueued(ctx, available)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("verifyQueueWorker: ClaimQueued error: %v", err)
		}
		return
	}

	for i := range docs {
		doc := docs[i]
		doc.Attempts++

		sem <- struct{}{}
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			defer func() { <-sem }()

			// Fresh context so in-flight verifications complete during shutdown.
			verifyCtx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
			defer cancel()

			log.Printf("verifyQueueWorker: dispatching document %s (attempt %d)", doc.ID, doc.Attempts)
			w.docService.VerifyDocument(verifyCtx, &doc, w.cfg.MaxRetries)
		}()
	}
}
