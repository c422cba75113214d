package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"regcheck/internal/validator/company"
)

// LoadExpected reads expected company data from a YAML or JSON file.
func LoadExpected(path string) (company.ExpectedCompanyData, error) {
	var expected company.ExpectedCompanyData
	data, err := os.ReadFile(path)
	if err != nil {
		return expected, fmt.Errorf("reading expected data: %w", err)
	}
	// JSON documents are valid YAML.
	if err := yaml.Unmarshal(data, &expected); err != nil {
		return expected, fmt.Errorf("parsing expected data %s: %w", path, err)
	}
	return expected, nil
}

// Override replaces fields of base with the non-empty fields of o.
func Override(base, o company.ExpectedCompanyData) company.ExpectedCompanyData {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&base.VATNumber, o.VATNumber)
	set(&base.RegistrationNumber, o.RegistrationNumber)
	set(&base.CompanyName, o.CompanyName)
	set(&base.StreetAddress, o.StreetAddress)
	set(&base.City, o.City)
	set(&base.ProvinceState, o.ProvinceState)
	set(&base.PostalCode, o.PostalCode)
	return base
}
