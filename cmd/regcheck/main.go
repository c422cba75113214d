// Command regcheck verifies a local onboarding document against expected
// company data and prints the verdict.
//
// Usage:
//
//	regcheck -type vat -expected acme.yaml certificate.pdf
//	regcheck -type registration -name "Acme Trading" -reg 2019/123456/07 scan.png
//
// Exit status is 0 when the document passes, 1 when it fails or needs
// review, and 2 on usage or input errors.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"

	"regcheck/internal/cli"
	"regcheck/internal/config"
	"regcheck/internal/domain"
	"regcheck/internal/port"
	"regcheck/internal/textextract"
	"regcheck/internal/textextract/pdftext"
	"regcheck/internal/textextract/tesseract"
	"regcheck/internal/validator"
	"regcheck/internal/validator/company"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("regcheck", flag.ContinueOnError)
	var (
		docType      = fs.String("type", "", "document type: vat or registration (required)")
		expectedPath = fs.String("expected", "", "YAML or JSON file with expected company data")
		format       = fs.String("format", cli.FormatText, "output format: text, json or yaml")
		noColor      = fs.Bool("no-color", false, "disable coloured output")
		noOCR        = fs.Bool("no-ocr", false, "do not fall back to tesseract OCR")
		maxPages     = fs.Int("max-pages", 10, "maximum PDF pages to read")
		ocrScore     = fs.Float64("ocr-score", -1, "override the OCR confidence score (0-100)")
		lang         = fs.String("lang", "eng", "tesseract language")

		override company.ExpectedCompanyData
	)
	fs.StringVar(&override.VATNumber, "vat", "", "expected VAT number")
	fs.StringVar(&override.RegistrationNumber, "reg", "", "expected registration number")
	fs.StringVar(&override.CompanyName, "name", "", "expected company name")
	fs.StringVar(&override.StreetAddress, "street", "", "expected street address")
	fs.StringVar(&override.City, "city", "", "expected city")
	fs.StringVar(&override.ProvinceState, "province", "", "expected province or state")
	fs.StringVar(&override.PostalCode, "postal", "", "expected postal code")

	if err := fs.Parse(args); err != nil {
		return cli.ExitError
	}
	if *noColor {
		color.NoColor = true
	}
	if fs.NArg() != 1 || *docType == "" {
		fmt.Fprintln(os.Stderr, "usage: regcheck -type vat|registration [flags] FILE")
		fs.PrintDefaults()
		return cli.ExitError
	}

	var expected company.ExpectedCompanyData
	if *expectedPath != "" {
		loaded, err := cli.LoadExpected(*expectedPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "regcheck:", err)
			return cli.ExitError
		}
		expected = loaded
	}
	expected = cli.Override(expected, override)

	var ocr port.TextExtractor
	if !*noOCR {
		ocr = tesseract.New(&config.OCRProviderConfig{Language: *lang}, *maxPages)
	}
	extractor := textextract.NewRouter(pdftext.New(*maxPages), ocr, 0)
	checker := cli.NewChecker(extractor, validator.NewEngine(validator.NewDefaultRegistry(), nil))

	in := cli.CheckInput{
		Path:         fs.Arg(0),
		DocumentType: domain.DocumentType(*docType),
		Expected:     expected,
	}
	if *ocrScore >= 0 {
		in.OCRScore = ocrScore
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := checker.Check(ctx, in)
	if err != nil {
		fmt.Fprintln(os.Stderr, "regcheck:", err)
		return cli.ExitError
	}
	if err := cli.Write(os.Stdout, *format, result); err != nil {
		fmt.Fprintln(os.Stderr, "regcheck:", err)
		return cli.ExitError
	}
	return cli.ExitCodeFor(result)
}
