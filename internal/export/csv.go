package export

import (
	"encoding/csv"
	"io"

	"regcheck/internal/domain"
)

// BOM is the UTF-8 byte order mark Excel needs to read UTF-8 CSV on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter wraps csv.Writer for exporting documents as CSV.
type CSVWriter struct {
	out io.Writer
	csv *csv.Writer
}

// NewCSVWriter creates a CSVWriter that writes to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{out: w, csv: csv.NewWriter(w)}
}

// WriteHeader writes the BOM and the header row.
func (w *CSVWriter) WriteHeader() error {
	if _, err := w.out.Write(BOM); err != nil {
		return err
	}
	return w.csv.Write(columns)
}

// WriteDocuments converts a batch of documents to CSV rows and writes them.
func (w *CSVWriter) WriteDocuments(docs []domain.CompanyDocument) error {
	for i := range docs {
		if err := w.csv.Write(documentToRow(&docs[i])); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes buffered rows and reports any write error.
func (w *CSVWriter) Close() error {
	w.csv.Flush()
	return w.csv.Error()
}
