package ledger

import (
	"fmt"
	"strings"
)

// IOError reports a ledger file that is missing or unreadable.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to read ledger %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// FormatError reports a ledger whose header or cells do not have the expected shape.
// Line is 1-based and counts the header; it is zero when the problem is not tied to
// a line.
type FormatError struct {
	Path   string
	Line   int
	Column string
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	parts := []string{"invalid ledger"}
	if e.Path != "" {
		parts = append(parts, e.Path)
	}
	if e.Line > 0 {
		parts = append(parts, fmt.Sprintf("line %d", e.Line))
	}
	if e.Column != "" {
		parts = append(parts, fmt.Sprintf("column %q", e.Column))
	}
	msg := strings.Join(parts, ": ") + ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// IntegrityError reports a ledger without exactly one grand total row.
type IntegrityError struct {
	Ledger string
	Level  int
	Count  int
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("ledger %s: expected exactly one level %d row, found %d", e.Ledger, e.Level, e.Count)
}

// KeyError reports a query for a fiscal year that is not a column of the ledger.
type KeyError struct {
	Ledger string
	Year   string
}

func (e *KeyError) Error() string {
	if e.Ledger == "" {
		return fmt.Sprintf("unknown fiscal year %q", e.Year)
	}
	return fmt.Sprintf("ledger %s: unknown fiscal year %q", e.Ledger, e.Year)
}
