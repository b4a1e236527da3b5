// Package testutil provides common utility functions for testing.
package testutil

import (
	"context"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/iwvelando/city-budget/internal/budget"
	"github.com/iwvelando/city-budget/internal/config"
	"github.com/iwvelando/city-budget/internal/ledger"
	"go.uber.org/zap"
)

// FixturePath returns the absolute path of a file under the repository's test
// directory, e.g. FixturePath("data", "expenses.csv").
func FixturePath(parts ...string) string {
	_, file, _, _ := runtime.Caller(0)
	root := filepath.Join(filepath.Dir(file), "..", "..", "test")
	return filepath.Join(append([]string{root}, parts...)...)
}

// FixtureData describes the ledger fixtures under test/data.
func FixtureData() config.DataConfig {
	return config.DataConfig{
		ExpenseFile: FixturePath("data", "expenses.csv"),
		RevenueFile: FixturePath("data", "revenues.csv"),
		Delimiter:   ";",
	}
}

// FixtureBudget loads the ledger fixtures under test/data.
func FixtureBudget(t testing.TB) *budget.Budget {
	t.Helper()
	b, err := budget.Load(context.Background(), zap.NewNop(), FixtureData())
	if err != nil {
		t.Fatalf("failed to load fixture budget: %v", err)
	}
	return b
}

// NewBudget builds a budget from two semicolon-delimited ledger texts.
func NewBudget(t testing.TB, expenseData, revenueData string) *budget.Budget {
	t.Helper()
	expense, err := ledger.Parse(strings.NewReader(expenseData), ledger.Options{Name: "Expense"})
	if err != nil {
		t.Fatalf("failed to parse expense ledger: %v", err)
	}
	revenue, err := ledger.Parse(strings.NewReader(revenueData), ledger.Options{Name: "Revenue"})
	if err != nil {
		t.Fatalf("failed to parse revenue ledger: %v", err)
	}
	b, err := budget.New(expense, revenue)
	if err != nil {
		t.Fatalf("failed to build budget: %v", err)
	}
	return b
}
