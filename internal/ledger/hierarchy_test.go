package ledger

import (
	"errors"
	"strings"
	"testing"
)

func mustParse(t *testing.T, data string) *Ledger {
	t.Helper()
	l, err := Parse(strings.NewReader(data), Options{Name: "Expense"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return l
}

func TestTotals(t *testing.T) {
	l := mustParse(t, "level;level1;2016;2017\n0;ALL Total;100;110\n1;POLICE Total;40;45\n")

	row, err := Totals(l)
	if err != nil {
		t.Fatalf("Totals() error = %v", err)
	}
	if row.Level1 != "ALL Total" {
		t.Errorf("expected ALL Total, got %q", row.Level1)
	}
	if v, _ := row.Amount("2017"); v != 110 {
		t.Errorf("expected 110, got %v", v)
	}
}

func TestTotalsIntegrity(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		count int
	}{
		{
			name:  "No grand total",
			data:  "level;level1;2017\n1;POLICE Total;45\n",
			count: 0,
		},
		{
			name:  "Two grand totals",
			data:  "level;level1;2017\n0;ALL Total;100\n0;ALL Total;100\n1;POLICE Total;45\n",
			count: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Totals(mustParse(t, tt.data))
			var integrityErr *IntegrityError
			if !errors.As(err, &integrityErr) {
				t.Fatalf("expected IntegrityError, got %v", err)
			}
			if integrityErr.Count != tt.count {
				t.Errorf("expected count %d, got %d", tt.count, integrityErr.Count)
			}
			if integrityErr.Ledger != "Expense" {
				t.Errorf("expected ledger name in error, got %q", integrityErr.Ledger)
			}
		})
	}
}

func TestDepartmentsKeepFileOrder(t *testing.T) {
	l := mustParse(t, "level;level1;2017\n0;ALL Total;100\n1;Zoo Total;5\n2;Zoo Total;1\n1;Art Total;50\n1;Parks Total;45\n")

	rows := Departments(l)
	var names []string
	for _, row := range rows {
		names = append(names, row.Level1)
	}
	if strings.Join(names, ",") != "Zoo Total,Art Total,Parks Total" {
		t.Errorf("Departments() = %v", names)
	}
}

func TestSortedDepartments(t *testing.T) {
	l := mustParse(t, "level;level1;2016;2017\n0;ALL Total;0;0\n1;A Total;10;5\n1;B Total;30;50\n1;C Total;20;5\n1;D Total;40;70\n")

	rows, err := SortedDepartments(l, "2017")
	if err != nil {
		t.Fatalf("SortedDepartments() error = %v", err)
	}
	var names []string
	for _, row := range rows {
		names = append(names, row.DisplayName())
	}
	// A and C tie in 2017 and keep their file order.
	if strings.Join(names, ",") != "D,B,A,C" {
		t.Errorf("SortedDepartments(2017) = %v", names)
	}

	original := Departments(l)
	if original[0].Level1 != "A Total" {
		t.Error("sorting must not reorder the ledger")
	}

	_, err = SortedDepartments(l, "2020")
	var keyErr *KeyError
	if !errors.As(err, &keyErr) {
		t.Fatalf("expected KeyError, got %v", err)
	}
	if keyErr.Year != "2020" {
		t.Errorf("expected year 2020 in error, got %q", keyErr.Year)
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"POLICE Total", "POLICE"},
		{"Police", "Police"},
		{"Police total", "Police total"},
		{"Police Total ", "Police Total "},
		{"Total", "Total"},
		{" Total", ""},
		{"Grand Total Total", "Grand Total"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if result := DisplayName(tt.input); result != tt.expected {
				t.Errorf("DisplayName(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestDisplayNameIdempotent(t *testing.T) {
	for _, name := range []string{"POLICE Total", "Fire", "General Government Total", ""} {
		once := DisplayName(name)
		if twice := DisplayName(once); twice != once {
			t.Errorf("DisplayName(DisplayName(%q)) = %q, expected %q", name, twice, once)
		}
	}
}

func TestFindDepartment(t *testing.T) {
	l := mustParse(t, "level;level1;2017\n0;ALL Total;100\n1;Police Total;45\n2;Police Total;10\n")

	for _, name := range []string{"Police Total", "police", "  POLICE  ", "POLICE TOTAL"} {
		row, ok := FindDepartment(l, name)
		if !ok {
			t.Errorf("FindDepartment(%q) found nothing", name)
			continue
		}
		if row.Level != 1 {
			t.Errorf("FindDepartment(%q) returned level %d row", name, row.Level)
		}
	}

	if _, ok := FindDepartment(l, "Nonexistent Dept"); ok {
		t.Error("expected no match for unknown department")
	}
	if _, ok := FindDepartment(l, "ALL"); ok {
		t.Error("expected grand total row to be excluded from department lookups")
	}
}
