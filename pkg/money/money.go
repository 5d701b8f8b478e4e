// Package money holds grouping-aware helpers for monetary amounts.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned when text cannot be read as an amount.
var ErrInvalidAmount = errors.New("invalid amount")

// MaxAmountLength caps the digits, sign and point Parse accepts once separators are removed.
const MaxAmountLength = 40

// Money represents a monetary amount with proper financial precision
type Money struct {
	decimal.Decimal
}

// New wraps a decimal.Decimal.
func New(d decimal.Decimal) Money {
	return Money{d}
}

// NewFromInt creates a Money instance from a whole amount.
func NewFromInt(value int64) Money {
	return Money{decimal.NewFromInt(value)}
}

// Parse reads an amount that may carry grouping separators ("100,000,000", "1 234.5",
// "7_000_000"). Only plain decimal notation is accepted: exponents ("1e9"), overlong
// values, empty or malformed text are errors, never zero.
func Parse(text string) (Money, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ',', '_', ' ', '\u00a0':
			return -1
		}
		return r
	}, strings.TrimSpace(text))
	if cleaned == "" {
		return Money{}, fmt.Errorf("%w: empty value", ErrInvalidAmount)
	}
	if len(cleaned) > MaxAmountLength {
		return Money{}, fmt.Errorf("%w: more than %d characters", ErrInvalidAmount, MaxAmountLength)
	}
	if !isPlainDecimal(cleaned) {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}
	return Money{d}, nil
}

// isPlainDecimal matches [+-]digits[.digits] with at least one digit.
func isPlainDecimal(s string) bool {
	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}
	digits, point := 0, false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.' && !point:
			point = true
		default:
			return false
		}
	}
	return digits > 0
}

// Round rounds the money amount to two decimal places
func (m Money) Round() Money {
	return Money{m.Decimal.Round(2)}
}

// Annual converts a monthly amount to annual
func (m Money) Annual() Money {
	return Money{m.Decimal.Mul(decimal.NewFromInt(12))}
}

// Monthly converts an annual amount to monthly
func (m Money) Monthly() Money {
	return Money{m.Decimal.Div(decimal.NewFromInt(12))}
}

// String returns the amount with two decimal places and no grouping.
func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

// Format returns the amount with two decimal places and comma grouping.
func (m Money) Format() string {
	return Format(m.Decimal)
}

// Format renders d as "1,234,567.89".
func Format(d decimal.Decimal) string {
	return group(d.StringFixed(2))
}

// FormatWhole renders d rounded to a whole amount, e.g. "30,000,000".
func FormatWhole(d decimal.Decimal) string {
	return group(d.StringFixed(0))
}

func group(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	var b strings.Builder
	b.Grow(len(s) + len(intPart)/3 + 1)
	b.WriteString(sign)
	lead := len(intPart) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(intPart[:lead])
	for i := lead; i < len(intPart); i += 3 {
		b.WriteByte(',')
		b.WriteString(intPart[i : i+3])
	}
	b.WriteString(frac)
	return b.String()
}
