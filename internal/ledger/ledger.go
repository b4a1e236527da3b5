// Package ledger loads the expense and revenue tables and selects rows by their
// hierarchy level.
package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/iwvelando/city-budget/pkg/constants"
	"github.com/iwvelando/city-budget/pkg/fiscalyear"
	"go.uber.org/zap"
)

// Amount is the value of one fiscal year column for a row.
type Amount struct {
	Year  string  `json:"year"`
	Value float64 `json:"value"`
}

// Row is one budget category at one hierarchy level.
type Row struct {
	Level   int      `json:"level"`
	Level1  string   `json:"level1"`
	Amounts []Amount `json:"amounts"`
}

// Ledger is an ordered, read-only collection of rows sharing the same year columns.
type Ledger struct {
	Name    string
	Path    string
	Columns []string
	Years   []string
	Rows    []Row
}

// Options controls how a ledger file is read.
type Options struct {
	// Name labels the ledger in errors, logs and chart series.
	Name string
	// Delimiter is the single-character field separator; ";" when empty.
	Delimiter string
	// Years lists the fiscal year columns that must be present. When empty every
	// header column that looks like a year is used, in header order.
	Years []string
}

// Amount returns the value of the given fiscal year.
func (r Row) Amount(year string) (float64, bool) {
	for _, a := range r.Amounts {
		if a.Year == year {
			return a.Value, true
		}
	}
	return 0, false
}

// DisplayName returns the row's level1 name without the " Total" suffix.
func (r Row) DisplayName() string {
	return DisplayName(r.Level1)
}

// HasYear reports whether year is one of the ledger's fiscal year columns.
func (l *Ledger) HasYear(year string) bool {
	return fiscalyear.Index(l.Years, year) >= 0
}

// Len returns the number of rows.
func (l *Ledger) Len() int {
	return len(l.Rows)
}

// Load reads the ledger file at path.
func Load(logger *zap.Logger, path string, opts Options) (*Ledger, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			logger.Warn("failed to close ledger file",
				zap.String("op", "ledger.Load"),
				zap.String("path", path),
				zap.Error(closeErr),
			)
		}
	}()

	l, err := parse(path, f, opts)
	if err != nil {
		return nil, err
	}

	logger.Debug("ledger loaded",
		zap.String("op", "ledger.Load"),
		zap.String("ledger", l.Name),
		zap.String("path", path),
		zap.Int("rows", len(l.Rows)),
		zap.Strings("years", l.Years),
	)
	return l, nil
}

// Parse reads a ledger from r. It behaves like Load without touching the file system.
func Parse(r io.Reader, opts Options) (*Ledger, error) {
	return parse("", r, opts)
}

func parse(path string, r io.Reader, opts Options) (*Ledger, error) {
	delimiter, err := delimiterRune(opts.Delimiter)
	if err != nil {
		return nil, &FormatError{Path: path, Reason: err.Error()}
	}

	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &FormatError{Path: path, Line: 1, Reason: "missing header row"}
		}
		return nil, readError(path, err)
	}

	columns := make([]string, len(header))
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if _, dup := index[name]; dup {
			return nil, &FormatError{Path: path, Line: 1, Column: name, Reason: "duplicate column"}
		}
		columns[i] = name
		index[name] = i
	}

	for _, required := range []string{constants.LevelColumn, constants.Level1Column} {
		if _, ok := index[required]; !ok {
			return nil, &FormatError{Path: path, Line: 1, Column: required, Reason: "missing required column"}
		}
	}

	years := opts.Years
	if len(years) == 0 {
		for _, name := range columns {
			if fiscalyear.IsYear(name) {
				years = append(years, name)
			}
		}
		if len(years) == 0 {
			return nil, &FormatError{Path: path, Line: 1, Reason: "no fiscal year columns"}
		}
	} else {
		for _, year := range years {
			if _, ok := index[year]; !ok {
				return nil, &FormatError{Path: path, Line: 1, Column: year, Reason: "missing fiscal year column"}
			}
		}
	}

	l := &Ledger{
		Name:    opts.Name,
		Path:    path,
		Columns: columns,
		Years:   append([]string(nil), years...),
	}

	levelIdx := index[constants.LevelColumn]
	level1Idx := index[constants.Level1Column]
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, readError(path, err)
		}
		line, _ := reader.FieldPos(0)

		level, err := parseLevel(record[levelIdx])
		if err != nil {
			return nil, &FormatError{Path: path, Line: line, Column: constants.LevelColumn, Reason: "level is not an integer", Err: err}
		}

		row := Row{
			Level:   level,
			Level1:  strings.TrimSpace(record[level1Idx]),
			Amounts: make([]Amount, 0, len(years)),
		}
		for _, year := range years {
			cell := strings.TrimSpace(record[index[year]])
			if cell == "" {
				return nil, &FormatError{Path: path, Line: line, Column: year, Reason: "empty amount"}
			}
			value, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, &FormatError{Path: path, Line: line, Column: year, Reason: "amount is not numeric", Err: err}
			}
			row.Amounts = append(row.Amounts, Amount{Year: year, Value: value})
		}
		l.Rows = append(l.Rows, row)
	}

	return l, nil
}

func delimiterRune(delimiter string) (rune, error) {
	if delimiter == "" {
		delimiter = constants.DefaultDelimiter
	}
	if utf8.RuneCountInString(delimiter) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", delimiter)
	}
	r, _ := utf8.DecodeRuneInString(delimiter)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("unsupported delimiter %q", delimiter)
	}
	return r, nil
}

func parseLevel(cell string) (int, error) {
	cell = strings.TrimSpace(cell)
	if level, err := strconv.Atoi(cell); err == nil {
		return level, nil
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%q has a fractional part", cell)
	}
	return int(f), nil
}

func readError(path string, err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return &FormatError{Path: path, Line: parseErr.Line, Reason: "malformed record", Err: parseErr.Err}
	}
	return &IOError{Path: path, Err: err}
}
