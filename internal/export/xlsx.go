package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"regcheck/internal/domain"
)

const sheetName = "Documents"

// XLSXWriter accumulates documents into a single-sheet workbook that is
// written out on Close.
type XLSXWriter struct {
	out  io.Writer
	file *excelize.File
	row  int
}

// NewXLSXWriter creates an XLSXWriter that writes the workbook to w on Close.
func NewXLSXWriter(w io.Writer) (*XLSXWriter, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("naming sheet: %w", err)
	}
	return &XLSXWriter{out: w, file: f, row: 1}, nil
}

// WriteHeader writes a bold, frozen header row.
func (w *XLSXWriter) WriteHeader() error {
	if err := w.writeRow(columns); err != nil {
		return err
	}

	style, err := w.file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(columns), 1)
	if err := w.file.SetCellStyle(sheetName, "A1", last, style); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}
	return w.file.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// WriteDocuments appends one row per document.
func (w *XLSXWriter) WriteDocuments(docs []domain.CompanyDocument) error {
	for i := range docs {
		if err := w.writeRow(documentToRow(&docs[i])); err != nil {
			return err
		}
	}
	return nil
}

func (w *XLSXWriter) writeRow(values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return err
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := w.file.SetSheetRow(sheetName, cell, &row); err != nil {
		return fmt.Errorf("writing row %d: %w", w.row, err)
	}
	w.row++
	return nil
}

// Close widens the text-heavy columns, writes the workbook and releases it.
func (w *XLSXWriter) Close() error {
	defer func() { _ = w.file.Close() }()

	_ = w.file.SetColWidth(sheetName, "A", "A", 38) // document id
	_ = w.file.SetColWidth(sheetName, "B", "D", 22)
	_ = w.file.SetColWidth(sheetName, "M", "M", 80) // mismatches
	_ = w.file.SetColWidth(sheetName, "O", "O", 40) // reviewer notes

	if _, err := w.file.WriteTo(w.out); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
