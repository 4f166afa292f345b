// Package format holds the display formatting helpers shared by every
// report: dates, Indian-grouped currency, and the running balance rule.
package format

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// CurrencySymbol prefixes every currency amount.
const CurrencySymbol = "₹"

// displayLayout is the date form used across all reports.
const displayLayout = "02-Jan-2006"

var inr = message.NewPrinter(language.MustParse("en-IN"))

// parseLayouts are the date shapes the backend is known to emit.
var parseLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	displayLayout,
	"02/01/2006",
}

// Date renders a backend date string as dd-Mon-yyyy. Empty input renders
// as a dash; unparseable input is passed through untouched.
func Date(s string) string {
	if s == "" {
		return "-"
	}
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(displayLayout)
		}
	}
	return s
}

// Amount renders a number with en-IN digit grouping and two decimals,
// without the currency symbol.
func Amount(v float64) string {
	return inr.Sprintf("%v", number.Decimal(v,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2)))
}

// Currency renders an amount with the currency symbol.
func Currency(v float64) string {
	return CurrencySymbol + Amount(v)
}

// Number renders an integer with en-IN digit grouping.
func Number(n int64) string {
	return inr.Sprintf("%v", number.Decimal(n))
}

// ParseAmount reads a currency string back into a number, tolerating the
// symbol, grouping commas, and surrounding space. Unparseable input is 0.
func ParseAmount(s string) float64 {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.ReplaceAll(cleaned, CurrencySymbol, "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}

// RunningBalance advances a ledger statement's running balance by one
// entry. Sign convention: debits reduce the balance, credits increase it
// (the sundry-debtors convention).
func RunningBalance(balance, debit, credit float64) float64 {
	return balance - debit + credit
}
