package company

import (
	"regexp"
	"strings"
)

var (
	identifierStrip = regexp.MustCompile(`[\s-]+`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
	namePunctuation = regexp.MustCompile("[.,/#!$%^&*;:{}=\\-_`~()]")
)

// legalSuffixes is tried in order; multi-token suffixes come before the
// generic tokens they contain so "(PTY) LTD" is never left as "(PTY)".
var legalSuffixes = []*regexp.Regexp{
	regexp.MustCompile(`\s*\(PTY\)\s*LTD\.?\s*$`),
	regexp.MustCompile(`\s*\(PTY\)\s*LIMITED\s*$`),
	regexp.MustCompile(`\s*\(RF\)\s*NPC\s*$`),
	regexp.MustCompile(`\s*\bPTY\.?\s+LTD\.?\s*$`),
	regexp.MustCompile(`\s*\bPTY\.?\s+LIMITED\s*$`),
	regexp.MustCompile(`\s*\bLTD\.?\s*$`),
	regexp.MustCompile(`\s*\bLIMITED\s*$`),
	regexp.MustCompile(`\s*\bNPC\s*$`),
	regexp.MustCompile(`\s*\bCC\s*$`),
	regexp.MustCompile(`\s*\bINC\.?\s*$`),
	regexp.MustCompile(`\s*\bINCORPORATED\s*$`),
	regexp.MustCompile(`\s*\bCORP\.?\s*$`),
	regexp.MustCompile(`\s*\bCORPORATION\s*$`),
}

// NormalizeIdentifier strips whitespace and hyphens and uppercases the value.
// Used for exact-match identifiers (VAT, registration, postal code).
func NormalizeIdentifier(value string) string {
	return strings.ToUpper(identifierStrip.ReplaceAllString(value, ""))
}

// NormalizeCompanyName canonicalizes a company name for comparison: legal
// entity suffix removed, punctuation dropped, whitespace collapsed.
func NormalizeCompanyName(value string) string {
	s := strings.ToUpper(value)
	// Repeat to a fixed point so "ABC LTD LTD" and "ABC CC." settle in one call.
	for {
		next := normalizeNameOnce(s)
		if next == s {
			return s
		}
		s = next
	}
}

func normalizeNameOnce(s string) string {
	s = strings.TrimSpace(s)
	for _, re := range legalSuffixes {
		if re.MatchString(s) {
			s = re.ReplaceAllString(s, "")
			break
		}
	}
	s = namePunctuation.ReplaceAllString(s, "")
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// cleanName collapses whitespace and uppercases an extracted name. Unlike
// NormalizeCompanyName it keeps the legal suffix.
func cleanName(value string) string {
	return strings.ToUpper(strings.TrimSpace(whitespaceRun.ReplaceAllString(value, " ")))
}

func collapseWhitespace(value string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(value, " "))
}
