package calculation

import (
	"context"
	"math"
	"testing"

	"github.com/rpgo/financial-freedom/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulateZeroHorizon(t *testing.T) {
	params := flatParams(64, 64, "1000")

	trajectory, err := NewWealthSimulator().Simulate(context.Background(), params, nil)
	require.NoError(t, err)
	require.Len(t, trajectory, 1)

	record := trajectory[0]
	assert.Equal(t, 64, record.Age)
	assert.True(t, record.ActualWealth.Equal(d("1000")), "got %s", record.ActualWealth)
	assert.True(t, record.RequiredCorpus.IsZero())

	age, ok := FirstCrossing(trajectory, ActualWealth)
	assert.True(t, ok)
	assert.Equal(t, 64, age)
}

func TestSimulateUnreachableCorpus(t *testing.T) {
	params := flatParams(60, 61, "0")
	params.DesiredMonthlySpending = d("1000000000")
	params.WithdrawalRate = d("0.040805")

	trajectory, err := NewWealthSimulator().Simulate(context.Background(), params, nil)
	require.NoError(t, err)
	require.Len(t, trajectory, 2)

	for _, r := range trajectory {
		assert.True(t, r.ActualWealth.IsZero(), "age %d wealth %s", r.Age, r.ActualWealth)
		assert.InDelta(t, 2.94e11, r.RequiredCorpus.InexactFloat64(), 0.01e11)
	}
	_, ok := FirstCrossing(trajectory, ActualWealth)
	assert.False(t, ok)
}

func TestSimulateAgesAreContiguous(t *testing.T) {
	params := riskyParams()
	trajectory, err := NewWealthSimulator().Simulate(context.Background(), params, NewMathRandSource(1))
	require.NoError(t, err)
	require.Len(t, trajectory, params.SimulatedYears())

	corpus, err := CorpusFor(params)
	require.NoError(t, err)
	for i, r := range trajectory {
		assert.Equal(t, params.CurrentAge+i, r.Age)
		assert.True(t, r.RequiredCorpus.Equal(corpus))
	}
}

func TestSimulateRiskDegeneracy(t *testing.T) {
	params := riskyParams()
	params.Risk.AllocationFraction = decimal.Zero

	src := NewSequenceSource(0.01, 0.99, 0.5)
	trajectory, err := NewWealthSimulator().Simulate(context.Background(), params, src)
	require.NoError(t, err)

	assert.Zero(t, src.Draws(), "a risk-free run must not consume draws")
	for _, r := range trajectory {
		assert.Equal(t, r.RiskFreeWealth.String(), r.ActualWealth.String(), "age %d", r.Age)
	}

	withoutSource, err := NewWealthSimulator().Simulate(context.Background(), params, nil)
	require.NoError(t, err)
	assertTrajectoriesEqual(t, trajectory, withoutSource)
}

func TestSimulateDeterministicGivenDraws(t *testing.T) {
	params := riskyParams()
	draws := []float64{0.12, 0.87, 0.45, 0.33, 0.91, 0.05, 0.64}

	first, err := NewWealthSimulator().Simulate(context.Background(), params, NewSequenceSource(draws...))
	require.NoError(t, err)
	second, err := NewWealthSimulator().Simulate(context.Background(), params, NewSequenceSource(draws...))
	require.NoError(t, err)

	assertTrajectoriesEqual(t, first, second)
}

func TestSimulateConsumesTwoDrawsPerMonth(t *testing.T) {
	params := riskyParams()
	src := NewSequenceSource(0.3, 0.7)

	_, err := NewWealthSimulator().Simulate(context.Background(), params, src)
	require.NoError(t, err)
	assert.Equal(t, params.SimulatedYears()*12*2, src.Draws())
}

func TestSimulateRequiresSourceForRiskyRun(t *testing.T) {
	_, err := NewWealthSimulator().Simulate(context.Background(), riskyParams(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestSimulateSavingsEscalation(t *testing.T) {
	params := flatParams(30, 31, "0")
	params.MonthlySavingsAmount = d("100")
	params.AnnualSavingsIncreaseRate = d("0.1")

	trajectory, err := NewWealthSimulator().Simulate(context.Background(), params, nil)
	require.NoError(t, err)
	require.Len(t, trajectory, 2)

	assert.True(t, trajectory[0].AnnualContribution.Equal(d("1200")))
	assert.True(t, trajectory[0].ActualWealth.Equal(d("1200")))
	assert.True(t, trajectory[1].AnnualContribution.Equal(d("1320")))
	assert.True(t, trajectory[1].ActualWealth.Equal(d("2520")))
}

func TestSimulateInsuranceDeduction(t *testing.T) {
	params := flatParams(40, 40, "1000")
	params.MonthlyInsuranceCost = d("10")

	trajectory, err := NewWealthSimulator().Simulate(context.Background(), params, nil)
	require.NoError(t, err)

	r := trajectory[0]
	for _, w := range []decimal.Decimal{r.ActualWealth, r.RiskFreeWealth, r.ExpectedWealth, r.ConservativeWealth} {
		assert.True(t, w.Equal(d("880")), "got %s", w)
	}
}

func TestSimulateTrackRates(t *testing.T) {
	params := flatParams(50, 50, "100")
	params.AverageInterestRate = d("0.06")
	params.Risk = &domain.RiskProfile{
		AllocationFraction:  d("1"),
		RiskFreeReturn:      d("0.03"),
		RiskyExpectedReturn: d("0.12"),
		RiskyVolatility:     d("0.06"),
	}

	trajectory, err := NewWealthSimulator().Simulate(context.Background(), params, NewSequenceSource(0.5, 0.25))
	require.NoError(t, err)

	compound := func(monthly string) decimal.Decimal {
		w := d("100")
		for i := 0; i < 12; i++ {
			w = w.Mul(decimalOne.Add(d(monthly))).Round(WealthPrecision)
		}
		return w
	}

	r := trajectory[0]
	assert.True(t, r.RiskFreeWealth.Equal(compound("0.005")), "risk-free %s", r.RiskFreeWealth)
	assert.True(t, r.ExpectedWealth.Equal(compound("0.01")), "expected %s", r.ExpectedWealth)
	assert.True(t, r.ConservativeWealth.Equal(compound("0.005")), "conservative %s", r.ConservativeWealth)
}

func TestSimulatePartialRiskBlendsActualRate(t *testing.T) {
	params := flatParams(50, 50, "100")
	params.AverageInterestRate = d("0.06")
	params.Risk = &domain.RiskProfile{
		AllocationFraction:  d("0.25"),
		RiskFreeReturn:      d("0.03"),
		RiskyExpectedReturn: d("0.08"),
		RiskyVolatility:     d("0.18"),
	}

	// u1 = e^-0.5 and u2 = 0 give Z = 1 every month.
	u1 := math.Exp(-0.5)
	trajectory, err := NewWealthSimulator().Simulate(context.Background(), params, NewSequenceSource(u1, 0))
	require.NoError(t, err)

	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(0)
	require.InDelta(t, 1.0, z, 1e-12)
	mu, sigma := 0.08, 0.18
	risky := math.Exp((mu-sigma*sigma/2)/12+(sigma/math.Sqrt(12))*z) - 1
	riskFreeLeg := math.Pow(1+0.03, 1.0/12) - 1
	rate := d("0.25").Mul(decimal.NewFromFloat(risky)).Add(d("0.75").Mul(decimal.NewFromFloat(riskFreeLeg)))

	want := d("100")
	for i := 0; i < 12; i++ {
		want = want.Mul(decimalOne.Add(rate)).Round(WealthPrecision)
	}

	actual := trajectory[0].ActualWealth
	assert.True(t, actual.Equal(want), "actual %s, want %s", actual, want)
	assert.InDelta(t, 121.824915453, actual.InexactFloat64(), 1e-6)
}

func TestSimulateReturnFallbacks(t *testing.T) {
	params := flatParams(50, 52, "1000")
	params.AverageInterestRate = d("0.06")
	params.MonthlySavingsAmount = d("10")
	params.Risk = &domain.RiskProfile{AllocationFraction: d("0.5")}

	trajectory, err := NewWealthSimulator().Simulate(context.Background(), params, NewSequenceSource(0.4, 0.6))
	require.NoError(t, err)

	// Missing returns fall back to the average interest rate and a missing volatility to 0,
	// so the expected and conservative tracks collapse onto the risk-free one.
	for _, r := range trajectory {
		assert.True(t, r.ExpectedWealth.Equal(r.RiskFreeWealth), "age %d", r.Age)
		assert.True(t, r.ConservativeWealth.Equal(r.RiskFreeWealth), "age %d", r.Age)
	}
}

func TestSimulateSavingsStages(t *testing.T) {
	params := flatParams(30, 33, "0")
	params.MonthlySavingsAmount = d("999")
	params.SavingsStages = []domain.SavingsStage{
		{StartAge: 30, EndAge: 31, MonthlySavings: d("100"), AnnualIncreaseRate: d("0.5")},
		{StartAge: 33, EndAge: 33, MonthlySavings: d("50")},
	}

	trajectory, err := NewWealthSimulator().Simulate(context.Background(), params, nil)
	require.NoError(t, err)
	require.Len(t, trajectory, 4)

	expected := []string{"1200", "1800", "0", "600"}
	for i, want := range expected {
		assert.True(t, trajectory[i].AnnualContribution.Equal(d(want)),
			"age %d: expected %s, got %s", trajectory[i].Age, want, trajectory[i].AnnualContribution)
	}
}

func TestSimulateStageAlreadyRunning(t *testing.T) {
	params := flatParams(35, 35, "0")
	params.SavingsStages = []domain.SavingsStage{
		{StartAge: 30, EndAge: 40, MonthlySavings: d("100")},
	}

	trajectory, err := NewWealthSimulator().Simulate(context.Background(), params, nil)
	require.NoError(t, err)
	assert.True(t, trajectory[0].AnnualContribution.Equal(d("1200")))
}

func TestSimulateRejectsInvalidParameters(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *domain.ParameterSet)
	}{
		{"retirement before current age", func(p *domain.ParameterSet) { p.RetirementAge = p.CurrentAge - 1 }},
		{"negative bank asset", func(p *domain.ParameterSet) { p.CurrentBankAsset = d("-1") }},
		{"allocation above one", func(p *domain.ParameterSet) { p.Risk.AllocationFraction = d("1.5") }},
		{"negative volatility", func(p *domain.ParameterSet) { p.Risk.RiskyVolatility = d("-0.1") }},
		{"overlapping stages", func(p *domain.ParameterSet) {
			p.SavingsStages = []domain.SavingsStage{
				{StartAge: 30, EndAge: 32, MonthlySavings: d("1")},
				{StartAge: 32, EndAge: 34, MonthlySavings: d("1")},
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := riskyParams()
			tt.mutate(&params)

			src := NewSequenceSource(0.5)
			_, err := NewWealthSimulator().Simulate(context.Background(), params, src)
			assert.ErrorIs(t, err, domain.ErrInvalidParameter)
			assert.Zero(t, src.Draws(), "simulation must not start on invalid input")
		})
	}
}

func TestSimulateCapsYears(t *testing.T) {
	params := flatParams(0, 150, "0")
	_, err := NewWealthSimulator().Simulate(context.Background(), params, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)

	sim := &WealthSimulator{MaxYears: 200}
	trajectory, err := sim.Simulate(context.Background(), params, nil)
	require.NoError(t, err)
	assert.Len(t, trajectory, 151)
}

func TestSimulateHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewWealthSimulator().Simulate(ctx, riskyParams(), NewMathRandSource(1))
	assert.ErrorIs(t, err, context.Canceled)
}
