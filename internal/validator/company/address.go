package company

import (
	"strconv"
	"strings"
)

type address struct {
	street     string
	city       string
	province   string
	postalCode string
}

func extractAddress(text string) address {
	var a address
	a.province = extractProvince(text)
	a.postalCode = extractPostalCode(text)
	a.street, a.city = extractStreetAndCity(text, a.province, a.postalCode)
	return a
}

func extractProvince(text string) string {
	flat := strings.ToUpper(collapseWhitespace(text))
	for _, p := range provinces {
		if strings.Contains(flat, p) {
			return p
		}
	}
	return ""
}

// extractPostalCode returns the last four-digit token that is not a
// plausible calendar year.
func extractPostalCode(text string) string {
	last := ""
	for _, tok := range fourDigitToken.FindAllString(text, -1) {
		n, err := strconv.Atoi(tok)
		if err != nil || (n >= yearRangeStart && n <= yearRangeEnd) {
			continue
		}
		last = tok
	}
	return last
}

func extractStreetAndCity(text, province, postalCode string) (street, city string) {
	m := addressBlockPattern.FindStringSubmatch(text)
	if m == nil {
		return "", ""
	}

	var lines []string
	for _, ln := range strings.Split(m[1], "\n") {
		if ln = strings.TrimSpace(ln); ln != "" {
			lines = append(lines, ln)
		}
	}
	if len(lines) == 0 {
		return "", ""
	}

	street = strings.ToUpper(lines[0])
	rest := lines[1:]
	if len(rest) == 0 {
		return street, ""
	}

	candidate := rest[len(rest)-1]
	if len(rest) > 1 {
		candidate = rest[len(rest)-2]
	}
	candidate = strings.ToUpper(candidate)
	if postalCode != "" {
		candidate = strings.ReplaceAll(candidate, postalCode, "")
	}
	if province != "" {
		candidate = strings.ReplaceAll(candidate, province, "")
	}
	candidate = strings.TrimSpace(strings.TrimRight(candidate, ", \t"))
	return street, candidate
}
