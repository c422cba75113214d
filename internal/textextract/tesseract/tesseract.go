// Package tesseract recovers text from scanned documents with the tesseract
// OCR engine. PDFs are rasterised with pdftoppm first.
package tesseract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"regcheck/internal/config"
	"regcheck/internal/port"
	"regcheck/internal/textextract"
	"regcheck/internal/validator/company"
)

// Extractor implements port.TextExtractor by shelling out to tesseract.
type Extractor struct {
	binary       string
	rasterBinary string
	language     string
	dpi          int
	psm          int
	maxPages     int
	runner       Runner
}

// New creates a tesseract Extractor from a provider config.
func New(cfg *config.OCRProviderConfig, maxPages int) *Extractor {
	return NewWithRunner(cfg, maxPages, execRunner{})
}

// NewWithRunner creates an Extractor that runs commands through r.
func NewWithRunner(cfg *config.OCRProviderConfig, maxPages int, r Runner) *Extractor {
	e := &Extractor{
		binary:       cfg.Binary,
		rasterBinary: cfg.RasterBinary,
		language:     cfg.Language,
		dpi:          cfg.DPI,
		psm:          cfg.PSM,
		maxPages:     maxPages,
		runner:       r,
	}
	if e.binary == "" {
		e.binary = "tesseract"
	}
	if e.rasterBinary == "" {
		e.rasterBinary = "pdftoppm"
	}
	if e.language == "" {
		e.language = "eng"
	}
	if e.dpi <= 0 {
		e.dpi = 300
	}
	return e
}

func (e *Extractor) Extract(ctx context.Context, input port.ExtractInput) (*company.RawDocumentText, error) {
	ext, ok := extensions[input.ContentType]
	if !ok {
		return nil, fmt.Errorf("tesseract: unsupported content type %s", input.ContentType)
	}

	tmpDir, err := os.MkdirTemp("", "regcheck-ocr-*")
	if err != nil {
		return nil, fmt.Errorf("tesseract: creating temp dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	src := filepath.Join(tmpDir, "input"+ext)
	if err := os.WriteFile(src, input.FileBytes, 0o600); err != nil {
		return nil, fmt.Errorf("tesseract: writing input: %w", err)
	}

	images := []string{src}
	if input.ContentType == "application/pdf" {
		images, err = e.rasterise(ctx, src, tmpDir)
		if err != nil {
			return nil, err
		}
	}

	var (
		pages     []string
		confSum   float64
		wordCount int
	)
	for _, img := range images {
		page, err := e.recognise(ctx, img)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page.text)
		confSum += page.confSum
		wordCount += page.words
	}

	score := 0.0
	if wordCount > 0 {
		score = confSum / float64(wordCount)
	}
	return &company.RawDocumentText{
		Text:               strings.Join(pages, "\n"),
		Method:             company.MethodOCRImage,
		OCRConfidenceScore: &score,
	}, nil
}

var extensions = map[string]string{
	"application/pdf": ".pdf",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
}

// rasterise renders PDF pages to PNG files and returns them in page order.
func (e *Extractor) rasterise(ctx context.Context, pdfPath, dir string) ([]string, error) {
	prefix := filepath.Join(dir, "page")
	args := []string{"-r", strconv.Itoa(e.dpi), "-png"}
	if e.maxPages > 0 {
		args = append(args, "-l", strconv.Itoa(e.maxPages))
	}
	args = append(args, pdfPath, prefix)

	// pdftoppm -r <dpi> -png [-l <n>] <in.pdf> <dir/page>
	if _, errb, err := e.runner.Run(ctx, e.rasterBinary, args...); err != nil {
		return nil, fmt.Errorf("pdftoppm: %w: %s", err, strings.TrimSpace(string(errb)))
	}

	matches, _ := filepath.Glob(prefix + "-*.png")
	if len(matches) == 0 {
		return nil, fmt.Errorf("pdftoppm produced no images")
	}
	sort.Slice(matches, func(i, j int) bool { return pageNumber(matches[i]) < pageNumber(matches[j]) })
	return matches, nil
}

// pageNumber parses N from ".../page-N.png"; pdftoppm zero-pads only
// when the document has ten or more pages.
func pageNumber(path string) int {
	base := strings.TrimSuffix(filepath.Base(path), ".png")
	n, _ := strconv.Atoi(base[strings.LastIndex(base, "-")+1:])
	return n
}

type pageResult struct {
	text    string
	confSum float64
	words   int
}

// recognise runs tesseract once in TSV mode and rebuilds both the text and
// the word confidences from its output.
func (e *Extractor) recognise(ctx context.Context, imgPath string) (pageResult, error) {
	args := []string{imgPath, "stdout", "-l", e.language}
	if e.psm > 0 {
		args = append(args, "--psm", strconv.Itoa(e.psm))
	}
	args = append(args, "tsv")

	out, errb, err := e.runner.Run(ctx, e.binary, args...)
	if err != nil {
		return pageResult{}, fmt.Errorf("tesseract: %w: %s", err, strings.TrimSpace(string(errb)))
	}
	return parseTSV(string(out)), nil
}

// tsvColumns is the column count of tesseract's TSV output:
// level page_num block_num par_num line_num word_num left top width height conf text.
const tsvColumns = 12

func parseTSV(out string) pageResult {
	var (
		res     pageResult
		lines   []string
		current []string
		lineKey string
	)
	flush := func() {
		if len(current) > 0 {
			lines = append(lines, strings.Join(current, " "))
			current = nil
		}
	}

	for i, ln := range strings.Split(out, "\n") {
		if i == 0 || ln == "" {
			continue
		}
		cols := strings.Split(strings.TrimRight(ln, "\r"), "\t")
		if len(cols) < tsvColumns || cols[0] != "5" {
			continue
		}
		word := strings.TrimSpace(cols[11])
		if word == "" {
			continue
		}
		key := strings.Join(cols[1:5], ".")
		if key != lineKey {
			flush()
			lineKey = key
		}
		current = append(current, word)

		if conf, err := strconv.ParseFloat(cols[10], 64); err == nil && conf >= 0 {
			res.confSum += conf
			res.words++
		}
	}
	flush()

	res.text = strings.Join(lines, "\n")
	return res
}

// Register adds the tesseract provider to the textextract factory registry.
func Register() {
	textextract.RegisterProvider("tesseract", func(cfg *config.OCRProviderConfig, maxPages int) (port.TextExtractor, error) {
		return New(cfg, maxPages), nil
	})
}
