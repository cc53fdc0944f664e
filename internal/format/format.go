// Package format renders dashboard numbers for people.
package format

import (
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Currency formats an amount with a dollar sign, grouped thousands and two
// decimals.
func Currency(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	if f < 0 {
		return printer.Sprintf("-$%.2f", -f)
	}
	return printer.Sprintf("$%.2f", f)
}

// Percent formats a 0-100 value with one decimal.
func Percent(v float64) string {
	return printer.Sprintf("%.1f%%", v)
}

// Rate formats a 0-100 conversion rate with two decimals.
func Rate(v float64) string {
	return printer.Sprintf("%.2f%%", v)
}

func Count(n int) string {
	return printer.Sprintf("%d", n)
}

// CompactCurrency abbreviates large amounts for chart axes: $950, $1.2K, $3.4M.
func CompactCurrency(v float64) string {
	abs := math.Abs(v)
	sign := ""
	if v < 0 {
		sign = "-"
	}
	switch {
	case abs >= 1e9:
		return printer.Sprintf("%s$%.1fB", sign, abs/1e9)
	case abs >= 1e6:
		return printer.Sprintf("%s$%.1fM", sign, abs/1e6)
	case abs >= 1e3:
		return printer.Sprintf("%s$%.1fK", sign, abs/1e3)
	}
	return printer.Sprintf("%s$%.0f", sign, abs)
}
