package company_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regcheck/internal/validator/company"
)

const vatCertificate = `SOUTH AFRICAN REVENUE SERVICE
Notice of Registration
VAT Registration Number: 4123456789
Company Registration: 2021/123456/07
Registered Name: ACME TRADING (PTY) LTD`

const registrationCertificate = `CIPC
Certificate of Incorporation
Registration Number: 2021/123456/07
Enterprise Name: ACME TRADING (PTY) LTD
Registered Address:
12 Main Road
Sandton
Gauteng 2196

Issued 2021`

func pdfText(text string) company.RawDocumentText {
	return company.RawDocumentText{Text: text, Method: company.MethodPDFText}
}

func ocrText(text string, score float64) company.RawDocumentText {
	return company.RawDocumentText{Text: text, Method: company.MethodOCRImage, OCRConfidenceScore: &score}
}

func TestParseVatDocument_AllFields(t *testing.T) {
	got := company.ParseVatDocument(pdfText(vatCertificate))

	assert.True(t, got.Success)
	assert.Equal(t, "4123456789", got.VATNumber)
	assert.Equal(t, "2021/123456/07", got.RegistrationNumber)
	assert.Equal(t, "ACME TRADING (PTY) LTD", got.CompanyName)
	assert.Equal(t, company.ConfidenceHigh, got.Confidence)
	assert.Equal(t, company.ConfidenceHigh, got.FieldConfidence)
	assert.Equal(t, company.MethodPDFText, got.ExtractionMethod)
	assert.Equal(t, vatCertificate, got.RawText)
	assert.Empty(t, got.Errors)
	assert.NotNil(t, got.Errors)
}

func TestParseVatDocument_ConfidenceBuckets(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		success bool
		want    company.Confidence
		errs    int
	}{
		{
			name:    "two fields",
			text:    "VAT number 4123456789 issued to ACME TRADING (PTY) LTD",
			success: true,
			want:    company.ConfidenceMedium,
			errs:    1,
		},
		{
			name:    "one field",
			text:    "Your VAT number is 4123456789.",
			success: true,
			want:    company.ConfidenceLow,
			errs:    2,
		},
		{
			name:    "nothing found",
			text:    "This document has nothing useful in it",
			success: false,
			want:    company.ConfidenceLow,
			errs:    3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := company.ParseVatDocument(pdfText(tt.text))
			assert.Equal(t, tt.success, got.Success)
			assert.Equal(t, tt.want, got.Confidence)
			assert.Len(t, got.Errors, tt.errs)
		})
	}
}

func TestParseVatDocument_VATNumberShape(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"ten digits starting with 4", "VAT No: 4123456789 registered", "4123456789"},
		{"nine digits", "VAT No: 412345678 registered", ""},
		{"does not start with 4", "VAT No: 5123456789 registered", ""},
		{"eleven digits", "VAT No: 41234567890 registered", ""},
		{"first of several", "VAT 4000000001 and 4999999999", "4000000001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := company.ParseVatDocument(pdfText(tt.text))
			assert.Equal(t, tt.want, got.VATNumber)
			if tt.want == "" {
				assert.Contains(t, got.Errors, "VAT number not found in document")
			}
		})
	}
}

func TestParseVatDocument_UnusableText(t *testing.T) {
	for _, text := range []string{"", "   ", "short", " \n 123456789 \n "} {
		got := company.ParseVatDocument(company.RawDocumentText{Text: text, Method: company.MethodOCRImage})
		assert.False(t, got.Success, "text %q", text)
		assert.Equal(t, company.ConfidenceLow, got.Confidence)
		assert.Equal(t, []string{"text extraction produced no usable text"}, got.Errors)
		assert.Equal(t, company.MethodOCRImage, got.ExtractionMethod)
		assert.Empty(t, got.VATNumber)
	}
}

func TestParseVatDocument_EmptyMethodDefaultsToNone(t *testing.T) {
	got := company.ParseVatDocument(company.RawDocumentText{Text: vatCertificate})
	assert.Equal(t, company.MethodNone, got.ExtractionMethod)
}

func TestParseVatDocument_OCRScoreOverridesConfidence(t *testing.T) {
	onlyVAT := "Your VAT number is 4123456789."

	tests := []struct {
		name  string
		score float64
		want  company.Confidence
	}{
		{"high score", 85, company.ConfidenceHigh},
		{"medium score", 70, company.ConfidenceMedium},
		{"boundary 80 is medium", 80, company.ConfidenceMedium},
		{"boundary 60 is low", 60, company.ConfidenceLow},
		{"low score", 12.5, company.ConfidenceLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := company.ParseVatDocument(ocrText(onlyVAT, tt.score))
			assert.Equal(t, tt.want, got.Confidence)
			assert.Equal(t, company.ConfidenceLow, got.FieldConfidence)
		})
	}
}

func TestParseVatDocument_OCRScoreIgnoredForPDFText(t *testing.T) {
	score := 99.0
	raw := company.RawDocumentText{
		Text:               "Your VAT number is 4123456789.",
		Method:             company.MethodPDFText,
		OCRConfidenceScore: &score,
	}
	got := company.ParseVatDocument(raw)
	assert.Equal(t, company.ConfidenceLow, got.Confidence)
}

func TestParseVatDocument_OCRLowScoreDowngradesFullExtraction(t *testing.T) {
	got := company.ParseVatDocument(ocrText(vatCertificate, 40))
	assert.Equal(t, company.ConfidenceHigh, got.FieldConfidence)
	assert.Equal(t, company.ConfidenceLow, got.Confidence)
}

func TestParseRegistrationDocument_AllFields(t *testing.T) {
	got := company.ParseRegistrationDocument(pdfText(registrationCertificate))

	require.True(t, got.Success)
	assert.Equal(t, "2021/123456/07", got.RegistrationNumber)
	assert.Equal(t, "ACME TRADING (PTY) LTD", got.CompanyName)
	assert.Equal(t, "12 MAIN ROAD", got.StreetAddress)
	assert.Equal(t, "SANDTON", got.City)
	assert.Equal(t, "GAUTENG", got.ProvinceState)
	assert.Equal(t, "2196", got.PostalCode)
	assert.Empty(t, got.VATNumber)
	assert.Equal(t, company.ConfidenceHigh, got.Confidence)
	assert.Empty(t, got.Errors)
}

func TestParseRegistrationDocument_PostalCodeSkipsYears(t *testing.T) {
	text := "Established 2021. Registration 2021/123456/07\nPostal code 0181, renewed 1999"
	got := company.ParseRegistrationDocument(pdfText(text))
	assert.Equal(t, "0181", got.PostalCode)
}

func TestParseRegistrationDocument_PostalCodeLastCandidateWins(t *testing.T) {
	text := "Registration 2021/123456/07 branch 1899 head office 2100"
	got := company.ParseRegistrationDocument(pdfText(text))
	assert.Equal(t, "2100", got.PostalCode)
}

func TestParseRegistrationDocument_ProvinceListOrderWins(t *testing.T) {
	text := "Registration 2021/123456/07\nBranch in Western Cape, head office in Gauteng"
	got := company.ParseRegistrationDocument(pdfText(text))
	assert.Equal(t, "GAUTENG", got.ProvinceState)
}

func TestParseRegistrationDocument_SingleLineCity(t *testing.T) {
	text := "Registration 2021/123456/07\nPhysical Address: 5 Long Street\nCape Town, 8001"
	got := company.ParseRegistrationDocument(pdfText(text))

	assert.Equal(t, "5 LONG STREET", got.StreetAddress)
	assert.Equal(t, "CAPE TOWN", got.City)
	assert.Equal(t, "8001", got.PostalCode)
	assert.Empty(t, got.ProvinceState)
	assert.Contains(t, got.Errors, "province not found in document")
}

func TestParseRegistrationDocument_StreetOnly(t *testing.T) {
	text := "Registration Number: 2021/123456/07\nBusiness Address: 7 Pier Road"
	got := company.ParseRegistrationDocument(pdfText(text))

	assert.Equal(t, "7 PIER ROAD", got.StreetAddress)
	assert.Empty(t, got.City)
	assert.Contains(t, got.Errors, "city not found in document")
}

func TestParseRegistrationDocument_LabelOnOwnLine(t *testing.T) {
	text := "Registered Address:\n12 Main Road\nHatfield\nPretoria\nGauteng\n0083"
	got := company.ParseRegistrationDocument(pdfText(text))

	assert.Equal(t, "12 MAIN ROAD", got.StreetAddress)
	assert.Equal(t, "PRETORIA", got.City)
	assert.Equal(t, "GAUTENG", got.ProvinceState)
	assert.Equal(t, "0083", got.PostalCode)
}

func TestParseRegistrationDocument_AddressBlockStopsAfterFourLines(t *testing.T) {
	text := "Physical Address: 3 Dock Road\nWaterfront\nCape Town\nWestern Cape\nDirectors: J SMITH"
	got := company.ParseRegistrationDocument(pdfText(text))

	assert.Equal(t, "3 DOCK ROAD", got.StreetAddress)
	assert.Equal(t, "CAPE TOWN", got.City)
}

func TestParseRegistrationDocument_RegistrationNumberInsideLongerDigits(t *testing.T) {
	got := company.ParseRegistrationDocument(pdfText("Reference 12021/123456/07 issued"))
	assert.Equal(t, "2021/123456/07", got.RegistrationNumber)
}

func TestParseRegistrationDocument_ConfidenceBuckets(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		success bool
		want    company.Confidence
	}{
		{"registration only", "Registration Number: 2021/123456/07", true, company.ConfidenceLow},
		{
			"three fields",
			"Registration Number: 2021/123456/07 for ACME TRADING (PTY) LTD in Gauteng",
			true,
			company.ConfidenceMedium,
		},
		{"address without identity", "Registered Address: 12 Main Road\nSandton\nGauteng 2196", false, company.ConfidenceMedium},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := company.ParseRegistrationDocument(pdfText(tt.text))
			assert.Equal(t, tt.success, got.Success)
			assert.Equal(t, tt.want, got.Confidence)
		})
	}
}

func TestCompanyName_SuffixPriority(t *testing.T) {
	text := "Holding Company: BIG GROUP LIMITED\nEntity: SMALL CO (PTY) LTD\nVAT 4123456789"
	got := company.ParseVatDocument(pdfText(text))
	assert.Equal(t, "SMALL CO (PTY) LTD", got.CompanyName)
}

func TestCompanyName_WhitespaceCollapsed(t *testing.T) {
	text := "acme   trading\n(pty)   ltd\nVAT 4123456789"
	got := company.ParseVatDocument(pdfText(text))
	assert.Equal(t, "ACME TRADING (PTY) LTD", got.CompanyName)
}

func TestCompanyName_NonProfit(t *testing.T) {
	text := "Hope Foundation (RF) NPC\nRegistration 2019/000001/08"
	got := company.ParseRegistrationDocument(pdfText(text))
	assert.Equal(t, "HOPE FOUNDATION (RF) NPC", got.CompanyName)
}

func TestCompanyName_LabeledFallback(t *testing.T) {
	text := "Trading Name: Blue Sky Consulting\nVAT 4123456789"
	got := company.ParseVatDocument(pdfText(text))
	assert.Equal(t, "BLUE SKY CONSULTING", got.CompanyName)
}

func TestFailedExtraction(t *testing.T) {
	got := company.FailedExtraction(company.MethodOCRImage, errors.New("tesseract exited 1"))
	assert.False(t, got.Success)
	assert.Equal(t, company.ConfidenceLow, got.Confidence)
	assert.Equal(t, company.MethodOCRImage, got.ExtractionMethod)
	assert.Equal(t, []string{"text extraction failed: tesseract exited 1"}, got.Errors)

	got = company.FailedExtraction("", nil)
	assert.Equal(t, company.MethodNone, got.ExtractionMethod)
	assert.Equal(t, []string{"text extraction produced no usable text"}, got.Errors)
}
