// Package format renders amounts for people.
package format

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	formatted := NumericCurrency(math.Abs(amount))
	if amount < 0 {
		return "-$" + formatted
	}
	return "$" + formatted
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	if amount == 0 {
		amount = 0 // normalize negative zero
	}
	return printer.Sprintf("%.2f", amount)
}

// Percent renders a percentage with one decimal, e.g. "12.5%".
func Percent(value float64) string {
	return printer.Sprintf("%.1f%%", value)
}
