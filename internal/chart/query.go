package chart

import (
	"fmt"

	"github.com/iwvelando/city-budget/internal/budget"
	"github.com/iwvelando/city-budget/internal/ledger"
	"github.com/iwvelando/city-budget/pkg/constants"
	"github.com/iwvelando/city-budget/pkg/fiscalyear"
)

// Pie placement of the combined expense and revenue view.
var (
	expenseDomain     = []float64{0, 0.48}
	revenueDomain     = []float64{0.52, 1}
	expenseAnnotation = Annotation{Text: constants.ExpenseLedger, X: 0.21, Y: 0.5}
	revenueAnnotation = Annotation{Text: constants.RevenueLedger, X: 0.79, Y: 0.5}
)

// SplitByCategory returns a pie spec of one ledger's department totals for year.
// Departments appear in file order, labelled by their display names.
func SplitByCategory(b *budget.Budget, kind budget.Kind, year string) (Spec, error) {
	series, err := splitSeries(b.Ledger(kind), kind, year)
	if err != nil {
		return Spec{}, err
	}

	return Spec{
		Kind:        Pie,
		Title:       fmt.Sprintf("%s %s", kind.Label(), year),
		Hole:        constants.PieHole,
		Series:      []Series{series},
		Annotations: []Annotation{{Text: kind.Label(), X: 0.5, Y: 0.5}},
	}, nil
}

// ExpenseVsRevenue places the expense and revenue splits for year side by side.
func ExpenseVsRevenue(b *budget.Budget, year string) (Spec, error) {
	expense, err := SplitByCategory(b, budget.Expense, year)
	if err != nil {
		return Spec{}, err
	}
	revenue, err := SplitByCategory(b, budget.Revenue, year)
	if err != nil {
		return Spec{}, err
	}

	left := expense.Series[0]
	left.Domain = append([]float64(nil), expenseDomain...)
	right := revenue.Series[0]
	right.Domain = append([]float64(nil), revenueDomain...)

	return Spec{
		Kind:        Pie,
		Title:       fmt.Sprintf("%s VS %s %s", constants.ExpenseLedger, constants.RevenueLedger, year),
		Hole:        constants.PieHole,
		Series:      []Series{left, right},
		Annotations: []Annotation{expenseAnnotation, revenueAnnotation},
	}, nil
}

// AggregateTrend returns a grouped bar spec of both grand totals over the
// inclusive year index range [start, end]. Indices are clamped to the known
// years; an inverted range produces empty series rather than an error.
func AggregateTrend(b *budget.Budget, start, end int) (Spec, error) {
	window := fiscalyear.Window(b.Years(), start, end)

	title := fmt.Sprintf("%s VS %s", constants.ExpenseLedger, constants.RevenueLedger)
	if span := fiscalyear.Span(window); span != "" {
		title += " " + span
	}

	spec := Spec{
		Kind:        Bar,
		Title:       title,
		XAxisTitle:  constants.YearAxisTitle,
		YAxisTitle:  constants.AmountAxisTitle,
		BarMode:     "group",
		BarGap:      constants.BarGap,
		BarGroupGap: constants.BarGroupGap,
		Series:      make([]Series, 0, len(budget.Kinds)),
		Annotations: []Annotation{},
	}

	for _, kind := range budget.Kinds {
		totals, err := ledger.Totals(b.Ledger(kind))
		if err != nil {
			return Spec{}, err
		}
		spec.Series = append(spec.Series, yearSeries(kind.Label(), totals, window))
	}
	return spec, nil
}

// DepartmentTrend returns a line spec with one series per named department of a
// ledger over every known year. Names are matched ignoring case, surrounding
// whitespace and the " Total" suffix; repeated names collapse onto their first
// occurrence and names without a matching department are skipped.
func DepartmentTrend(b *budget.Budget, kind budget.Kind, names []string) Spec {
	years := b.Years()
	l := b.Ledger(kind)

	spec := Spec{
		Kind:        Line,
		Title:       fmt.Sprintf("%s by Department %s", kind.Label(), fiscalyear.Span(years)),
		XAxisTitle:  constants.YearAxisTitle,
		YAxisTitle:  constants.AmountAxisTitle,
		Series:      []Series{},
		Annotations: []Annotation{},
	}

	seen := make(map[string]bool, len(names))
	for _, name := range names {
		key := ledger.MatchKey(name)
		if seen[key] {
			continue
		}
		seen[key] = true

		row, ok := ledger.FindDepartment(l, name)
		if !ok {
			continue
		}
		spec.Series = append(spec.Series, yearSeries(row.DisplayName(), row, years))
	}
	return spec
}

// UnmatchedDepartments returns the names DepartmentTrend would skip, in the order
// given and without repeats.
func UnmatchedDepartments(b *budget.Budget, kind budget.Kind, names []string) []string {
	var unmatched []string
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		key := ledger.MatchKey(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		if _, ok := ledger.FindDepartment(b.Ledger(kind), name); !ok {
			unmatched = append(unmatched, name)
		}
	}
	return unmatched
}

func splitSeries(l *ledger.Ledger, kind budget.Kind, year string) (Series, error) {
	if !l.HasYear(year) {
		return Series{}, &ledger.KeyError{Ledger: l.Name, Year: year}
	}

	departments := ledger.Departments(l)
	series := Series{
		Label:   kind.Label(),
		XValues: make([]string, 0, len(departments)),
		YValues: make([]float64, 0, len(departments)),
	}
	for _, row := range departments {
		value, _ := row.Amount(year)
		series.XValues = append(series.XValues, row.DisplayName())
		series.YValues = append(series.YValues, value)
	}
	return series, nil
}

func yearSeries(label string, row ledger.Row, years []string) Series {
	series := Series{
		Label:   label,
		XValues: make([]string, 0, len(years)),
		YValues: make([]float64, 0, len(years)),
	}
	for _, year := range years {
		value, _ := row.Amount(year)
		series.XValues = append(series.XValues, year)
		series.YValues = append(series.YValues, value)
	}
	return series
}
