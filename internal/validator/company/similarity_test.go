package company_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"regcheck/internal/validator/company"
)

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 3, company.LevenshteinDistance("kitten", "sitting"))
	assert.Equal(t, 3, company.LevenshteinDistance("", "abc"))
	assert.Equal(t, 3, company.LevenshteinDistance("abc", ""))
	assert.Equal(t, 0, company.LevenshteinDistance("", ""))
	assert.Equal(t, 1, company.LevenshteinDistance("SANDTON", "SANDT0N"))
	assert.Equal(t, 1, company.LevenshteinDistance("é", "e"))
}

func TestLevenshteinDistance_MetricProperties(t *testing.T) {
	words := []string{"", "ACME", "ACNE", "ACME TRADING", "TRADING", "SANDTON", "DURBAN", "kitten", "sitting"}
	for _, a := range words {
		assert.Equal(t, 0, company.LevenshteinDistance(a, a))
		for _, b := range words {
			dab := company.LevenshteinDistance(a, b)
			assert.Equal(t, dab, company.LevenshteinDistance(b, a), "symmetry %q %q", a, b)
			for _, c := range words {
				assert.LessOrEqual(t, company.LevenshteinDistance(a, c), dab+company.LevenshteinDistance(b, c),
					"triangle %q %q %q", a, b, c)
			}
		}
	}
}

func TestSimilarityPercent(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"suffix ignored", "ACME TRADING", "ACME TRADING (PTY) LTD", 100},
		{"suffix variants", "ABC (PTY) LTD", "ABC PTY LIMITED", 100},
		{"both empty", "", "", 100},
		{"both normalize empty", "LTD", "(PTY) LTD", 100},
		{"one substitution", "ABCD", "ABCE", 75},
		{"three substitutions", "ACME TRADING", "ACME TRADERS", 75},
		{"abbreviation", "12 Main Road", "12 Main Rd", 83},
		{"nothing shared", "ACME", "XYZ", 0},
		{"one side empty", "ACME", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, company.SimilarityPercent(tt.a, tt.b))
		})
	}
}

func TestSimilarityPercent_ReflexiveAndSymmetric(t *testing.T) {
	values := []string{"ACME", "Acme Trading (Pty) Ltd", "12 MAIN ROAD", "Sandton", "Durban", "x"}
	for _, a := range values {
		assert.Equal(t, 100, company.SimilarityPercent(a, a))
		for _, b := range values {
			assert.Equal(t, company.SimilarityPercent(a, b), company.SimilarityPercent(b, a), "%q vs %q", a, b)
		}
	}
}
