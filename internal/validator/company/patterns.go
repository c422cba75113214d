package company

import "regexp"

const minUsableTextLength = 10

const noUsableTextError = "text extraction produced no usable text"

var (
	vatNumberPattern          = regexp.MustCompile(`\b4\d{9}\b`)
	registrationNumberPattern = regexp.MustCompile(`\d{4}/\d{6}/\d{2}`)
	fourDigitToken            = regexp.MustCompile(`\b\d{4}\b`)
	labeledNamePattern        = regexp.MustCompile(`(?i)(?:company\s+name|trading\s+name|name)\s*:[ \t]*([^\r\n]*)`)
	addressBlockPattern       = regexp.MustCompile(`(?im)\b(?:(?:registered|physical|business)[ \t]+)?address[ \t]*:\s*(.*(?:\r?\n.*){0,3})`)
)

// nameTokens matches up to six name words directly before a legal suffix.
// Words cannot contain ':' or '/', so labels and identifiers end the run.
const nameTokens = `([A-Z0-9][A-Z0-9&'.\-]*(?:\s+[A-Z0-9&'.\-]+){0,5})`

func suffixPattern(suffix string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + nameTokens + `\s+(` + suffix + `)(?:\W|$)`)
}

// companySuffixPatterns is ordered by priority; the first pattern that
// matches anywhere in the text wins.
var companySuffixPatterns = []*regexp.Regexp{
	suffixPattern(`\(PTY\)\s*LTD`),
	suffixPattern(`\(PTY\)\s*LIMITED`),
	suffixPattern(`LIMITED`),
	suffixPattern(`\(RF\)\s*NPC`),
	suffixPattern(`NPC`),
	suffixPattern(`CC`),
}

// provinces is scanned in list order; list position, not document position,
// decides between several matches.
var provinces = []string{
	"EASTERN CAPE",
	"FREE STATE",
	"GAUTENG",
	"KWAZULU-NATAL",
	"KWAZULU NATAL",
	"LIMPOPO",
	"MPUMALANGA",
	"NORTHERN CAPE",
	"NORTH WEST",
	"WESTERN CAPE",
}

// Four-digit tokens in this range are treated as calendar years.
const (
	yearRangeStart = 1900
	yearRangeEnd   = 2099
)

var missingFieldErrors = map[Field]string{
	FieldVATNumber:          "VAT number not found in document",
	FieldRegistrationNumber: "registration number not found in document",
	FieldCompanyName:        "company name not found in document",
	FieldStreetAddress:      "street address not found in document",
	FieldCity:               "city not found in document",
	FieldProvinceState:      "province not found in document",
	FieldPostalCode:         "postal code not found in document",
}
