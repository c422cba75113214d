package textextract_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"regcheck/internal/domain"
	"regcheck/internal/port"
	"regcheck/internal/textextract"
	"regcheck/internal/validator/company"
	"regcheck/mocks"
)

func pdfOutput(text string) *company.RawDocumentText {
	return &company.RawDocumentText{Text: text, Method: company.MethodPDFText}
}

func TestRouter_PDFTextLayer(t *testing.T) {
	pdf := new(mocks.MockTextExtractor)
	ocr := new(mocks.MockTextExtractor)
	input := port.ExtractInput{FileBytes: []byte("%PDF"), ContentType: "application/pdf"}
	pdf.On("Extract", mock.Anything, input).Return(pdfOutput("VAT Registration Number 4123456789"), nil)

	out, err := textextract.NewRouter(pdf, ocr, 10).Extract(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, company.MethodPDFText, out.Method)
	ocr.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
}

func TestRouter_PDFShortTextFallsBackToOCR(t *testing.T) {
	pdf := new(mocks.MockTextExtractor)
	ocr := new(mocks.MockTextExtractor)
	input := port.ExtractInput{FileBytes: []byte("%PDF"), ContentType: "application/pdf"}
	pdf.On("Extract", mock.Anything, input).Return(pdfOutput("  \n abc \n"), nil)
	ocr.On("Extract", mock.Anything, input).Return(ocrOutput("scanned text"), nil)

	out, err := textextract.NewRouter(pdf, ocr, 10).Extract(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, company.MethodOCRImage, out.Method)
	assert.Equal(t, "scanned text", out.Text)
}

func TestRouter_PDFErrorFallsBackToOCR(t *testing.T) {
	pdf := new(mocks.MockTextExtractor)
	ocr := new(mocks.MockTextExtractor)
	input := port.ExtractInput{FileBytes: []byte("%PDF"), ContentType: "application/pdf"}
	pdf.On("Extract", mock.Anything, input).Return(nil, errors.New("invalid PDF"))
	ocr.On("Extract", mock.Anything, input).Return(ocrOutput("scanned text"), nil)

	out, err := textextract.NewRouter(pdf, ocr, 0).Extract(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, "scanned text", out.Text)
}

func TestRouter_PDFWithoutOCRReturnsTextLayer(t *testing.T) {
	pdf := new(mocks.MockTextExtractor)
	input := port.ExtractInput{FileBytes: []byte("%PDF"), ContentType: "application/pdf"}
	pdf.On("Extract", mock.Anything, input).Return(pdfOutput("abc"), nil)

	out, err := textextract.NewRouter(pdf, nil, 10).Extract(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, "abc", out.Text)
}

func TestRouter_ImageGoesToOCR(t *testing.T) {
	pdf := new(mocks.MockTextExtractor)
	ocr := new(mocks.MockTextExtractor)
	input := port.ExtractInput{FileBytes: []byte("jpg"), ContentType: "image/jpeg"}
	ocr.On("Extract", mock.Anything, input).Return(ocrOutput("photo text"), nil)

	out, err := textextract.NewRouter(pdf, ocr, 10).Extract(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, "photo text", out.Text)
	pdf.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
}

func TestRouter_ImageWithoutOCR(t *testing.T) {
	input := port.ExtractInput{FileBytes: []byte("png"), ContentType: "image/png"}

	_, err := textextract.NewRouter(new(mocks.MockTextExtractor), nil, 10).Extract(context.Background(), input)

	assert.ErrorIs(t, err, textextract.ErrNoOCRProvider)
}

func TestRouter_PlainText(t *testing.T) {
	input := port.ExtractInput{FileBytes: []byte("VAT 4123456789"), ContentType: "text/plain"}

	out, err := textextract.NewRouter(new(mocks.MockTextExtractor), nil, 10).Extract(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, "VAT 4123456789", out.Text)
	assert.Equal(t, company.MethodNone, out.Method)
	assert.Nil(t, out.OCRConfidenceScore)

	_, err = textextract.NewRouter(new(mocks.MockTextExtractor), nil, 10).Extract(context.Background(),
		port.ExtractInput{FileBytes: []byte{0xff, 0xfe, 0xfd}, ContentType: "text/plain"})
	assert.ErrorContains(t, err, "UTF-8")
}

func TestRouter_UnsupportedType(t *testing.T) {
	input := port.ExtractInput{FileBytes: []byte("x"), ContentType: "application/zip"}

	_, err := textextract.NewRouter(new(mocks.MockTextExtractor), nil, 10).Extract(context.Background(), input)

	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestFailureMethod(t *testing.T) {
	tests := []struct {
		contentType string
		want        company.ExtractionMethod
	}{
		{"application/pdf", company.MethodOCRImage},
		{"image/jpeg", company.MethodOCRImage},
		{"image/png", company.MethodOCRImage},
		{"text/plain", company.MethodNone},
		{"application/zip", company.MethodNone},
	}
	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			assert.Equal(t, tt.want, textextract.FailureMethod(tt.contentType))
		})
	}
}
