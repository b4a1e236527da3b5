// Package fiscalyear provides helpers for fiscal year column labels.
package fiscalyear

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/iwvelando/city-budget/pkg/mathutil"
)

// IsYear reports whether a column label names a fiscal year, i.e. is exactly four
// ASCII digits once surrounding whitespace is removed.
func IsYear(label string) bool {
	trimmed := strings.TrimSpace(label)
	if len(trimmed) != 4 {
		return false
	}
	for _, r := range trimmed {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Parse returns the numeric year of a label.
func Parse(label string) (int, error) {
	if !IsYear(label) {
		return 0, fmt.Errorf("invalid fiscal year label %q", label)
	}
	return strconv.Atoi(strings.TrimSpace(label))
}

// Ascending returns a sorted copy of the labels, oldest year first.
func Ascending(labels []string) []string {
	sorted := append([]string(nil), labels...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return yearValue(sorted[i]) < yearValue(sorted[j])
	})
	return sorted
}

// Descending returns a sorted copy of the labels, latest year first.
func Descending(labels []string) []string {
	sorted := Ascending(labels)
	for i, j := 0, len(sorted)-1; i < j; i, j = i+1, j-1 {
		sorted[i], sorted[j] = sorted[j], sorted[i]
	}
	return sorted
}

// Window returns the years at the inclusive index range [start, end] after clamping
// both indices to the bounds of years. An inverted range yields an empty, non-nil
// slice.
func Window(years []string, start, end int) []string {
	if len(years) == 0 {
		return []string{}
	}
	last := len(years) - 1
	start = mathutil.Clamp(start, 0, last)
	end = mathutil.Clamp(end, 0, last)
	if start > end {
		return []string{}
	}
	return append([]string(nil), years[start:end+1]...)
}

// Span renders the first and last year of a window, e.g. "2008-2017". A window of a
// single year renders just that year and an empty window renders "".
func Span(window []string) string {
	switch len(window) {
	case 0:
		return ""
	case 1:
		return window[0]
	default:
		return window[0] + "-" + window[len(window)-1]
	}
}

// Index returns the position of label within years, or -1.
func Index(years []string, label string) int {
	for i, year := range years {
		if year == label {
			return i
		}
	}
	return -1
}

func yearValue(label string) int {
	n, err := Parse(label)
	if err != nil {
		return 0
	}
	return n
}
