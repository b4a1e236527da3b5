// Package validation provides configuration validation utilities.
package validation

import (
	"errors"
	"fmt"
	"path/filepath"
	"unicode/utf8"

	"github.com/iwvelando/city-budget/pkg/fiscalyear"
)

// ValidateDelimiter checks that a ledger delimiter is a single character.
func ValidateDelimiter(delimiter string) error {
	if utf8.RuneCountInString(delimiter) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", delimiter)
	}
	return nil
}

// ValidateYears checks that every label is a fiscal year.
func ValidateYears(years []string) error {
	for _, year := range years {
		if !fiscalyear.IsYear(year) {
			return fmt.Errorf("invalid fiscal year %q", year)
		}
	}
	return nil
}

// DataConfig holds the ledger settings that are checked together.
type DataConfig struct {
	ExpenseFile string
	RevenueFile string
	Delimiter   string
	Years       []string
}

// ValidateData returns an error describing every invalid ledger setting.
func ValidateData(data DataConfig) error {
	var errs []error
	if data.ExpenseFile == "" {
		errs = append(errs, errors.New("expense file is required"))
	}
	if data.RevenueFile == "" {
		errs = append(errs, errors.New("revenue file is required"))
	}
	if err := ValidateDelimiter(data.Delimiter); err != nil {
		errs = append(errs, err)
	}
	if err := ValidateYears(data.Years); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// DataWarnings returns non-fatal observations about the ledger settings.
func DataWarnings(data DataConfig) []string {
	var warnings []string

	if data.ExpenseFile != "" && filepath.Clean(data.ExpenseFile) == filepath.Clean(data.RevenueFile) {
		warnings = append(warnings, fmt.Sprintf("expense and revenue ledgers point at the same file (%s)", data.ExpenseFile))
	}

	seen := make(map[string]bool, len(data.Years))
	for _, year := range data.Years {
		if seen[year] {
			warnings = append(warnings, fmt.Sprintf("fiscal year %s is listed more than once", year))
		}
		seen[year] = true
	}

	return warnings
}
