package calculation

import (
	"fmt"

	"github.com/rpgo/financial-freedom/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultWithdrawalRate is the safe withdrawal rate assumed when a run does not override it.
var DefaultWithdrawalRate = decimal.RequireFromString("0.040805")

var (
	decimalOne    = decimal.NewFromInt(1)
	decimalTwelve = decimal.NewFromInt(12)
)

// RequiredCorpus is the capital needed at retirement to fund desiredMonthlySpending,
// inflated to retirement, at the given withdrawal rate:
//
//	spend * 12 * (1+inflation)^(retirementAge-currentAge) / withdrawalRate
func RequiredCorpus(desiredMonthlySpending, inflationRate decimal.Decimal, currentAge, retirementAge int, withdrawalRate decimal.Decimal) (decimal.Decimal, error) {
	years := retirementAge - currentAge
	if years < 0 {
		return decimal.Zero, fmt.Errorf("%w: retirement age %d is before current age %d", domain.ErrInvalidParameter, retirementAge, currentAge)
	}
	if !withdrawalRate.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: withdrawal rate must be positive, got %s", domain.ErrInvalidParameter, withdrawalRate)
	}

	growth := decimalOne.Add(inflationRate).Pow(decimal.NewFromInt(int64(years)))
	futureAnnualSpending := desiredMonthlySpending.Mul(decimalTwelve).Mul(growth)
	return futureAnnualSpending.Div(withdrawalRate), nil
}

// withdrawalRateFor resolves the optional override on a parameter set.
func withdrawalRateFor(p domain.ParameterSet) decimal.Decimal {
	if p.WithdrawalRate.IsZero() {
		return DefaultWithdrawalRate
	}
	return p.WithdrawalRate
}

// CorpusFor computes the required corpus of a parameter set.
func CorpusFor(p domain.ParameterSet) (decimal.Decimal, error) {
	return RequiredCorpus(p.DesiredMonthlySpending, p.InflationRate, p.CurrentAge, p.RetirementAge, withdrawalRateFor(p))
}
