package chart

import (
	"github.com/iwvelando/city-budget/internal/budget"
	"github.com/iwvelando/city-budget/internal/ledger"
	"github.com/iwvelando/city-budget/pkg/fiscalyear"
)

// Options lists the values a UI offers in its selection widgets.
type Options struct {
	// Years is ordered latest first, as shown in the year dropdown.
	Years       []string `json:"years"`
	DefaultYear string   `json:"defaultYear"`
	// RangeYears is ordered oldest first; trend range indices refer to it.
	RangeYears  []string            `json:"rangeYears"`
	Departments map[string][]string `json:"departments"`
}

// OptionsFor builds the widget options of a budget. Departments of each ledger
// are ordered by their latest-year amount, largest first.
func OptionsFor(b *budget.Budget) (Options, error) {
	latest := b.LatestYear()
	opts := Options{
		Years:       fiscalyear.Descending(b.Years()),
		DefaultYear: latest,
		RangeYears:  b.Years(),
		Departments: make(map[string][]string, len(budget.Kinds)),
	}

	for _, kind := range budget.Kinds {
		rows, err := ledger.SortedDepartments(b.Ledger(kind), latest)
		if err != nil {
			return Options{}, err
		}
		names := make([]string, 0, len(rows))
		for _, row := range rows {
			names = append(names, row.DisplayName())
		}
		opts.Departments[string(kind)] = names
	}
	return opts, nil
}
