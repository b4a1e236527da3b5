package ledger

import (
	"sort"
	"strings"

	"github.com/iwvelando/city-budget/pkg/constants"
)

// Totals returns the single grand total row of the ledger.
func Totals(l *Ledger) (Row, error) {
	rows := atLevel(l, constants.GrandTotalLevel)
	if len(rows) != 1 {
		return Row{}, &IntegrityError{Ledger: l.Name, Level: constants.GrandTotalLevel, Count: len(rows)}
	}
	return rows[0], nil
}

// Departments returns the per-department total rows in file order.
func Departments(l *Ledger) []Row {
	return atLevel(l, constants.DepartmentLevel)
}

// SortedDepartments returns the department rows ordered by their referenceYear
// amount, largest first. Rows with equal amounts keep their file order.
func SortedDepartments(l *Ledger, referenceYear string) ([]Row, error) {
	if !l.HasYear(referenceYear) {
		return nil, &KeyError{Ledger: l.Name, Year: referenceYear}
	}

	rows := Departments(l)
	sort.SliceStable(rows, func(i, j int) bool {
		a, _ := rows[i].Amount(referenceYear)
		b, _ := rows[j].Amount(referenceYear)
		return a > b
	})
	return rows, nil
}

// DisplayName strips one trailing " Total" from a level1 name.
func DisplayName(level1 string) string {
	return strings.TrimSuffix(level1, constants.TotalSuffix)
}

// MatchKey normalizes a department name for lookups so that "Police",
// " police total" and "POLICE Total" all compare equal.
func MatchKey(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.TrimSuffix(key, strings.ToLower(constants.TotalSuffix))
	return strings.TrimSpace(key)
}

// FindDepartment looks up a department row by name using MatchKey.
func FindDepartment(l *Ledger, name string) (Row, bool) {
	key := MatchKey(name)
	for _, row := range Departments(l) {
		if MatchKey(row.Level1) == key {
			return row, true
		}
	}
	return Row{}, false
}

func atLevel(l *Ledger, level int) []Row {
	var rows []Row
	for _, row := range l.Rows {
		if row.Level == level {
			rows = append(rows, row)
		}
	}
	return rows
}
