// Package pdftext reads the embedded text layer of PDF documents.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"regcheck/internal/port"
	"regcheck/internal/validator/company"
)

const defaultMaxPages = 10

// Extractor implements port.TextExtractor over a PDF's text layer. It does
// no OCR; scanned PDFs come back with little or no text.
type Extractor struct {
	maxPages int
}

// New creates an Extractor that reads at most maxPages pages.
func New(maxPages int) *Extractor {
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}
	return &Extractor{maxPages: maxPages}
}

func (e *Extractor) Extract(ctx context.Context, input port.ExtractInput) (*company.RawDocumentText, error) {
	if input.ContentType != "application/pdf" {
		return nil, fmt.Errorf("pdftext: unsupported content type %s", input.ContentType)
	}

	pageCount, err := validate(input.FileBytes)
	if err != nil {
		return nil, err
	}

	text, err := e.readText(ctx, input.FileBytes, pageCount)
	if err != nil {
		return nil, err
	}
	return &company.RawDocumentText{Text: text, Method: company.MethodPDFText}, nil
}

// validate rejects malformed PDFs before the text reader sees them and
// returns the page count.
func validate(data []byte) (int, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	pdfCtx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return 0, fmt.Errorf("pdftext: invalid PDF: %w", err)
	}
	return pdfCtx.PageCount, nil
}

func (e *Extractor) readText(ctx context.Context, data []byte, pageCount int) (text string, err error) {
	// The text reader panics on some malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdftext: reading text layer: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdftext: opening PDF: %w", err)
	}

	pages := min(r.NumPage(), pageCount, e.maxPages)
	if pages == 0 {
		pages = min(r.NumPage(), e.maxPages)
	}

	var buf strings.Builder
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		pageText, err := pageText(p)
		if err != nil {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(pageText)
	}
	return buf.String(), nil
}

// pageText reads a page row by row so that line structure survives, and
// falls back to plain text extraction when row grouping fails.
func pageText(p pdf.Page) (string, error) {
	rows, err := p.GetTextByRow()
	if err != nil {
		return p.GetPlainText(nil)
	}

	var buf strings.Builder
	for _, row := range rows {
		if row == nil || len(row.Content) == 0 {
			continue
		}
		line := rowText(row.Content)
		if strings.TrimSpace(line) == "" {
			continue
		}
		buf.WriteString(line)
		buf.WriteString("\n")
	}
	return buf.String(), nil
}

// rowText joins the text runs of one row left to right, inserting a space
// where the horizontal gap is wider than a fraction of the font size.
func rowText(runs []pdf.Text) string {
	sorted := make([]pdf.Text, len(runs))
	copy(sorted, runs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	var buf strings.Builder
	for i, run := range sorted {
		buf.WriteString(run.S)
		if i == len(sorted)-1 {
			break
		}
		fontSize := run.FontSize
		if fontSize <= 0 {
			fontSize = 12
		}
		width := run.W
		if width <= 0 {
			width = float64(len([]rune(run.S))) * fontSize * 0.5
		}
		gap := sorted[i+1].X - (run.X + width)
		if gap > fontSize*0.2 && !strings.HasSuffix(run.S, " ") && !strings.HasPrefix(sorted[i+1].S, " ") {
			buf.WriteString(" ")
		}
	}
	return buf.String()
}
