package output

import (
	"fmt"

	"github.com/rpgo/financial-freedom/internal/calculation"
	"github.com/rpgo/financial-freedom/internal/domain"
)

// GenerateAssumptions lists the modelling assumptions behind a projection.
func GenerateAssumptions(p domain.ParameterSet) []string {
	withdrawal := p.WithdrawalRate
	if withdrawal.IsZero() {
		withdrawal = calculation.DefaultWithdrawalRate
	}

	assumptions := []string{
		fmt.Sprintf("Safe withdrawal rate: %s of the corpus per year", withdrawal.Mul(decimalHundred).String()+"%"),
		fmt.Sprintf("Inflation: %s annually until retirement", FormatPercentage(p.InflationRate)),
		fmt.Sprintf("Average interest rate: %s annually, compounded monthly", FormatPercentage(p.AverageInterestRate)),
	}
	if len(p.SavingsStages) > 0 {
		for _, st := range p.SavingsStages {
			assumptions = append(assumptions, fmt.Sprintf("Ages %d-%d: save %s per month, rising %s per year",
				st.StartAge, st.EndAge, FormatCurrency(st.MonthlySavings), FormatPercentage(st.AnnualIncreaseRate)))
		}
	} else {
		assumptions = append(assumptions, fmt.Sprintf("Savings rise %s per year", FormatPercentage(p.AnnualSavingsIncreaseRate)))
	}
	if !p.MonthlyInsuranceCost.IsZero() {
		assumptions = append(assumptions, fmt.Sprintf("Insurance premium: %s per month", FormatCurrency(p.MonthlyInsuranceCost)))
	}
	if p.Risk != nil && p.AllocationFraction().IsPositive() {
		r := p.Risk
		assumptions = append(assumptions, fmt.Sprintf("Risky allocation: %s (expected %s, volatility %s; risk-free %s)",
			FormatPercentage(r.AllocationFraction), FormatPercentage(r.RiskyExpectedReturn),
			FormatPercentage(r.RiskyVolatility), FormatPercentage(r.RiskFreeReturn)))
	}
	return assumptions
}
