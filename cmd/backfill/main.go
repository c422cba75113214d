// Command backfill re-runs field validation over every completed document
// using its stored raw text. Run it after extraction rules change so stored
// verdicts reflect the current rules. No file is downloaded or re-extracted.
// Usage: go run ./cmd/backfill [-dry-run]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	_ "github.com/joho/godotenv/autoload"

	"regcheck/internal/config"
	"regcheck/internal/repository/postgres"
	"regcheck/internal/validator"
)

const batchSize = 100

func main() {
	dryRun := flag.Bool("dry-run", false, "report verdict changes without saving them")
	flag.Parse()

	if err := run(*dryRun); err != nil {
		log.Fatal(err)
	}
}

func run(dryRun bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	docRepo := postgres.NewDocumentRepo(db)
	engine := validator.NewEngine(validator.NewDefaultRegistry(), docRepo)

	ctx := context.Background()
	offset := 0
	total, changed, skipped := 0, 0, 0

	for {
		docs, err := docRepo.ListCompleted(ctx, offset, batchSize)
		if err != nil {
			return fmt.Errorf("listing documents at offset %d: %w", offset, err)
		}
		if len(docs) == 0 {
			break
		}

		for i := range docs {
			doc := &docs[i]
			before := doc.Verdict

			if _, err := engine.Evaluate(doc); err != nil {
				log.Printf("WARN: skipping document %s: %v", doc.ID, err)
				skipped++
				continue
			}
			total++
			if doc.Verdict != before {
				changed++
				log.Printf("Document %s: verdict %s -> %s", doc.ID, before, doc.Verdict)
			}
			if dryRun {
				continue
			}
			if err := docRepo.UpdateVerification(ctx, doc); err != nil {
				log.Printf("WARN: failed to save document %s: %v", doc.ID, err)
				skipped++
			}
		}

		if total > 0 && total%batchSize == 0 {
			log.Printf("Progress: %d documents processed", total)
		}

		offset += len(docs)
	}

	mode := "saved"
	if dryRun {
		mode = "not saved (dry run)"
	}
	log.Printf("Backfill complete: %d documents re-validated, %d verdicts changed (%s), %d skipped",
		total, changed, mode, skipped)
	return nil
}
