// Package budget holds the immutable pair of expense and revenue ledgers that
// every chart query reads from.
package budget

import (
	"context"
	"fmt"
	"strings"

	"github.com/iwvelando/city-budget/internal/config"
	"github.com/iwvelando/city-budget/internal/ledger"
	"github.com/iwvelando/city-budget/pkg/constants"
	"github.com/iwvelando/city-budget/pkg/fiscalyear"
	"github.com/iwvelando/city-budget/pkg/mathutil"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Kind selects one of the two ledgers.
type Kind string

const (
	Expense Kind = "expense"
	Revenue Kind = "revenue"
)

// Kinds lists both ledgers in display order.
var Kinds = []Kind{Expense, Revenue}

// ParseKind converts user input such as "Expense" or " revenue " into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case Expense:
		return Expense, nil
	case Revenue:
		return Revenue, nil
	default:
		return "", fmt.Errorf("unknown ledger %q, expected %s or %s", s, Expense, Revenue)
	}
}

// Label returns the display name of the ledger, e.g. "Expense".
func (k Kind) Label() string {
	if k == Revenue {
		return constants.RevenueLedger
	}
	return constants.ExpenseLedger
}

// Budget is the read-only context shared by all queries. It is safe for
// concurrent use because nothing mutates it after New returns.
type Budget struct {
	expense *ledger.Ledger
	revenue *ledger.Ledger
	years   []string
}

// New validates the ledger pair and fixes the canonical ascending year sequence.
// Each ledger must contain exactly one grand total row and the revenue ledger
// must carry every year column of the expense ledger.
func New(expense, revenue *ledger.Ledger) (*Budget, error) {
	if expense == nil || revenue == nil {
		return nil, fmt.Errorf("both expense and revenue ledgers are required")
	}

	for _, l := range []*ledger.Ledger{expense, revenue} {
		if _, err := ledger.Totals(l); err != nil {
			return nil, err
		}
	}

	years := fiscalyear.Ascending(expense.Years)
	for _, year := range years {
		if !revenue.HasYear(year) {
			return nil, &ledger.FormatError{
				Path:   revenue.Path,
				Column: year,
				Reason: "fiscal year column missing from revenue ledger",
			}
		}
	}

	return &Budget{expense: expense, revenue: revenue, years: years}, nil
}

// Load reads both ledgers described by data concurrently. Either failure aborts
// the whole load.
func Load(ctx context.Context, logger *zap.Logger, data config.DataConfig) (*Budget, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var expense, revenue *ledger.Ledger
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		l, err := ledger.Load(logger, data.ExpenseFile, ledger.Options{
			Name:      constants.ExpenseLedger,
			Delimiter: data.Delimiter,
			Years:     data.Years,
		})
		if err != nil {
			return err
		}
		expense = l
		return nil
	})

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		l, err := ledger.Load(logger, data.RevenueFile, ledger.Options{
			Name:      constants.RevenueLedger,
			Delimiter: data.Delimiter,
			Years:     data.Years,
		})
		if err != nil {
			return err
		}
		revenue = l
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	b, err := New(expense, revenue)
	if err != nil {
		return nil, err
	}

	logger.Info("budget loaded",
		zap.String("op", "budget.Load"),
		zap.Int("expenseRows", expense.Len()),
		zap.Int("revenueRows", revenue.Len()),
		zap.String("years", fiscalyear.Span(b.years)),
	)
	return b, nil
}

// Ledger returns the ledger selected by kind.
func (b *Budget) Ledger(kind Kind) *ledger.Ledger {
	if kind == Revenue {
		return b.revenue
	}
	return b.expense
}

// Expense returns the expense ledger.
func (b *Budget) Expense() *ledger.Ledger {
	return b.expense
}

// Revenue returns the revenue ledger.
func (b *Budget) Revenue() *ledger.Ledger {
	return b.revenue
}

// Years returns a copy of the canonical year sequence, oldest first.
func (b *Budget) Years() []string {
	return append([]string(nil), b.years...)
}

// LatestYear returns the most recent fiscal year.
func (b *Budget) LatestYear() string {
	if len(b.years) == 0 {
		return ""
	}
	return b.years[len(b.years)-1]
}

// HasYear reports whether year belongs to the canonical sequence.
func (b *Budget) HasYear(year string) bool {
	return fiscalyear.Index(b.years, year) >= 0
}

// Reconcile compares each ledger's grand total with the sum of its department
// totals for every year and describes the years that differ by more than the
// tolerance. The source files are not required to reconcile.
func (b *Budget) Reconcile() []string {
	var warnings []string
	for _, kind := range Kinds {
		l := b.Ledger(kind)
		totals, err := ledger.Totals(l)
		if err != nil {
			warnings = append(warnings, err.Error())
			continue
		}
		departments := ledger.Departments(l)
		for _, year := range b.years {
			total, _ := totals.Amount(year)
			values := make([]float64, 0, len(departments))
			for _, row := range departments {
				v, _ := row.Amount(year)
				values = append(values, v)
			}
			sum := mathutil.Sum(values)
			if !mathutil.WithinTolerance(total, sum, constants.ReconciliationTolerance) {
				warnings = append(warnings, fmt.Sprintf("%s %s: departments sum to %.2f but the grand total is %.2f",
					kind.Label(), year, mathutil.Round(sum), mathutil.Round(total)))
			}
		}
	}
	return warnings
}
