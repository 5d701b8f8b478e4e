package money

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"100,000,000", "100000000"},
		{"1,234.5", "1234.5"},
		{" 7_000_000 ", "7000000"},
		{"1 234 567", "1234567"},
		{"-2,500", "-2500"},
		{"0", "0"},
		{"+12.50", "12.5"},
		{".5", "0.5"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m, err := Parse(tt.in)
			require.NoError(t, err)
			assert.True(t, m.Decimal.Equal(decimal.RequireFromString(tt.want)), "got %s", m.Decimal)
		})
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "   ", ",,,", "abc", "12a", "1.2.3", "-", ".", "1e8000000", "2E5", "0x10", "Inf", "NaN"} {
		_, err := Parse(in)
		assert.ErrorIs(t, err, ErrInvalidAmount, "input %q", in)
	}
}

func TestParseRejectsOverlongValues(t *testing.T) {
	_, err := Parse(strings.Repeat("9", MaxAmountLength+1))
	assert.ErrorIs(t, err, ErrInvalidAmount)

	m, err := Parse(strings.Repeat("9", MaxAmountLength))
	require.NoError(t, err)
	assert.True(t, m.Decimal.IsPositive())
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"12.345", "12.35"},
		{"999", "999.00"},
		{"1000", "1,000.00"},
		{"1234.5", "1,234.50"},
		{"30000000", "30,000,000.00"},
		{"-1234567.891", "-1,234,567.89"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestFormatWhole(t *testing.T) {
	assert.Equal(t, "294,081,607,646", FormatWhole(decimal.RequireFromString("294081607646.3")))
	assert.Equal(t, "100", FormatWhole(decimal.NewFromInt(100)))
}

func TestPeriodConversions(t *testing.T) {
	m := NewFromInt(100)
	assert.Equal(t, "1200.00", m.Annual().String())
	assert.Equal(t, "100.00", m.Annual().Monthly().String())
	assert.Equal(t, "1,200.00", m.Annual().Format())
}

func TestRound(t *testing.T) {
	assert.Equal(t, "2.35", New(decimal.RequireFromString("2.345")).Round().String())
	assert.Equal(t, "2.34", New(decimal.RequireFromString("2.344")).Round().String())
}
