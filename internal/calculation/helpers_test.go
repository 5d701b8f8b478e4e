package calculation

import (
	"testing"

	"github.com/rpgo/financial-freedom/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// flatParams is a risk-free run with no growth, savings or spending.
func flatParams(currentAge, retirementAge int, bank string) domain.ParameterSet {
	return domain.ParameterSet{
		CurrentAge:       currentAge,
		RetirementAge:    retirementAge,
		CurrentBankAsset: d(bank),
	}
}

// riskyParams allocates half the portfolio to a volatile asset.
func riskyParams() domain.ParameterSet {
	return domain.ParameterSet{
		CurrentAge:                30,
		RetirementAge:             34,
		DesiredMonthlySpending:    d("2000"),
		InflationRate:             d("0.03"),
		CurrentBankAsset:          d("50000"),
		AverageInterestRate:       d("0.04"),
		MonthlySavingsAmount:      d("1000"),
		AnnualSavingsIncreaseRate: d("0.05"),
		Risk: &domain.RiskProfile{
			AllocationFraction:  d("0.5"),
			RiskFreeReturn:      d("0.03"),
			RiskyExpectedReturn: d("0.08"),
			RiskyVolatility:     d("0.18"),
		},
	}
}

// uniformRecords builds a trajectory where every track holds wealth at every age.
func uniformRecords(from, to int, wealth, corpus string) domain.Trajectory {
	var t domain.Trajectory
	for age := from; age <= to; age++ {
		t = append(t, domain.YearRecord{
			Age:                age,
			ActualWealth:       d(wealth),
			RequiredCorpus:     d(corpus),
			AnnualContribution: decimal.Zero,
			RiskFreeWealth:     d(wealth),
			ExpectedWealth:     d(wealth),
			ConservativeWealth: d(wealth),
		})
	}
	return t
}

func assertTrajectoriesEqual(t *testing.T, expected, actual domain.Trajectory) {
	t.Helper()
	require.Len(t, actual, len(expected))
	for i := range expected {
		e, a := expected[i], actual[i]
		assert.Equal(t, e.Age, a.Age)
		assert.True(t, e.ActualWealth.Equal(a.ActualWealth), "age %d actual: expected %s, got %s", e.Age, e.ActualWealth, a.ActualWealth)
		assert.True(t, e.RequiredCorpus.Equal(a.RequiredCorpus), "age %d corpus: expected %s, got %s", e.Age, e.RequiredCorpus, a.RequiredCorpus)
		assert.True(t, e.AnnualContribution.Equal(a.AnnualContribution), "age %d contribution: expected %s, got %s", e.Age, e.AnnualContribution, a.AnnualContribution)
		assert.True(t, e.RiskFreeWealth.Equal(a.RiskFreeWealth), "age %d risk-free: expected %s, got %s", e.Age, e.RiskFreeWealth, a.RiskFreeWealth)
		assert.True(t, e.ExpectedWealth.Equal(a.ExpectedWealth), "age %d expected: expected %s, got %s", e.Age, e.ExpectedWealth, a.ExpectedWealth)
		assert.True(t, e.ConservativeWealth.Equal(a.ConservativeWealth), "age %d conservative: expected %s, got %s", e.Age, e.ConservativeWealth, a.ConservativeWealth)
	}
}
