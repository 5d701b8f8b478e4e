package output

import (
	"strconv"

	"github.com/rpgo/financial-freedom/pkg/money"
	"github.com/shopspring/decimal"
)

var decimalHundred = decimal.NewFromInt(100)

// FormatCurrency formats an amount with grouping separators and 2 decimals.
// Kept here so it can be reused by multiple formatters and unit tested in isolation.
func FormatCurrency(amount decimal.Decimal) string { return money.Format(amount) }

// FormatPercentage formats a decimal fraction as a percentage with 2 decimals (0.047 -> "4.70%").
func FormatPercentage(rate decimal.Decimal) string {
	return rate.Mul(decimalHundred).StringFixed(2) + "%"
}

// FormatAge renders an optional freedom age.
func FormatAge(age *int) string {
	if age == nil {
		return "not achieved by the desired age"
	}
	return strconv.Itoa(*age)
}

func intToString(i int) string { return strconv.Itoa(i) }

func boolToString(b bool) string { return strconv.FormatBool(b) }

func optionalAge(age *int) string {
	if age == nil {
		return ""
	}
	return strconv.Itoa(*age)
}
