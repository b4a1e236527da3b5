// Package output provides utilities for formatting and displaying chart specs.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/city-budget/internal/chart"
	"github.com/iwvelando/city-budget/pkg/constants"
	"github.com/iwvelando/city-budget/pkg/format"
	"github.com/iwvelando/city-budget/pkg/mathutil"
)

// Write renders spec to w in the named output format.
func Write(w io.Writer, outputFormat string, spec chart.Spec) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		return PrettyFormat(w, spec)
	case constants.OutputFormatCSV:
		return CsvFormat(w, spec)
	case constants.OutputFormatJSON:
		return JSONFormat(w, spec)
	case constants.OutputFormatHTML:
		return HTMLFormat(w, spec)
	default:
		return fmt.Errorf("unsupported output format %q", outputFormat)
	}
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, spec chart.Spec) error {
	if _, err := fmt.Fprintf(w, "=== %s ===\n", spec.Title); err != nil {
		return err
	}
	for i, series := range spec.Series {
		total := mathutil.Sum(series.YValues)
		if _, err := fmt.Fprintf(w, "--- %s ---\n", series.Label); err != nil {
			return err
		}
		if len(series.YValues) == 0 {
			if _, err := fmt.Fprintln(w, "(no data)"); err != nil {
				return err
			}
		}
		for j, x := range series.XValues {
			line := fmt.Sprintf("%s | %s", x, format.Currency(series.YValues[j]))
			if spec.Kind == chart.Pie {
				line += " | " + format.Percent(mathutil.CalculatePercentage(series.YValues[j], total))
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		if spec.Kind == chart.Pie && len(series.YValues) > 0 {
			if _, err := fmt.Fprintf(w, "Total | %s\n", format.Currency(total)); err != nil {
				return err
			}
		}
		if i < len(spec.Series)-1 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
	}
	return nil
}

// CsvFormat outputs one record per point in comma-separated value format.
func CsvFormat(w io.Writer, spec chart.Spec) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"series", "label", "value"}); err != nil {
		return err
	}
	for _, series := range spec.Series {
		for i, x := range series.XValues {
			value := strconv.FormatFloat(series.YValues[i], 'f', 2, 64)
			if err := writer.Write([]string{series.Label, x, value}); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

// JSONFormat outputs the spec exactly as a renderer receives it.
func JSONFormat(w io.Writer, spec chart.Spec) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(spec)
}
