package calculation

import (
	"context"
	"fmt"

	"github.com/rpgo/financial-freedom/internal/domain"
	"github.com/shopspring/decimal"
)

// WealthPrecision is the number of decimal places wealth and contribution values are
// rounded to after every monthly step. Every track is rounded the same way.
const WealthPrecision = 10

// MaxSimulatedYears caps retirementAge - currentAge + 1 so a single request cannot run
// an unbounded loop.
const MaxSimulatedYears = 120

// WealthSimulator steps a ParameterSet month by month and records the four wealth tracks
// at the end of every simulated age.
type WealthSimulator struct {
	MaxYears int
	Logger   Logger
}

// NewWealthSimulator creates a simulator with the default year cap.
func NewWealthSimulator() *WealthSimulator {
	return &WealthSimulator{MaxYears: MaxSimulatedYears, Logger: NopLogger{}}
}

// growthRates holds the per-run constants of the four tracks.
type growthRates struct {
	riskFree     decimal.Decimal // averageInterestRate/12, also the actual rate when u = 0
	expected     decimal.Decimal
	conservative decimal.Decimal

	stochastic      bool
	allocation      decimal.Decimal
	remainder       decimal.Decimal // 1 - u
	riskFreeLeg     decimal.Decimal // (1+rf)^(1/12) - 1
	riskyMean       float64
	riskyVolatility float64
}

func newGrowthRates(p domain.ParameterSet) growthRates {
	u := p.AllocationFraction()
	rf := p.AverageInterestRate
	mu := p.AverageInterestRate
	sigma := decimal.Zero
	if p.Risk != nil {
		if !p.Risk.RiskFreeReturn.IsZero() {
			rf = p.Risk.RiskFreeReturn
		}
		if !p.Risk.RiskyExpectedReturn.IsZero() {
			mu = p.Risk.RiskyExpectedReturn
		}
		sigma = p.Risk.RiskyVolatility
	}
	remainder := decimalOne.Sub(u)

	rates := growthRates{
		riskFree:     p.AverageInterestRate.Div(decimalTwelve),
		expected:     u.Mul(mu).Add(remainder.Mul(rf)).Div(decimalTwelve),
		conservative: u.Mul(mu.Sub(sigma)).Add(remainder.Mul(rf)).Div(decimalTwelve),
		stochastic:   u.IsPositive(),
		allocation:   u,
		remainder:    remainder,
	}
	if rates.stochastic {
		rates.riskFreeLeg = decimal.NewFromFloat(monthlyCompounded(rf.InexactFloat64()))
		rates.riskyMean = mu.InexactFloat64()
		rates.riskyVolatility = sigma.InexactFloat64()
	}
	return rates
}

// actual returns this month's risk-adjusted rate. With no risky allocation the source is
// never touched and the rate is exactly the risk-free track's rate.
func (g growthRates) actual(src RandomVariateSource) decimal.Decimal {
	if !g.stochastic {
		return g.riskFree
	}
	risky := decimal.NewFromFloat(MonthlyRiskyReturn(src, g.riskyMean, g.riskyVolatility))
	return g.allocation.Mul(risky).Add(g.remainder.Mul(g.riskFreeLeg))
}

// savingsSchedule yields the monthly contribution for each simulated age.
type savingsSchedule struct {
	stages  []domain.SavingsStage
	monthly decimal.Decimal
	growth  decimal.Decimal
}

func newSavingsSchedule(p domain.ParameterSet) *savingsSchedule {
	return &savingsSchedule{
		stages:  p.SavingsStages,
		monthly: p.MonthlySavingsAmount,
		growth:  p.AnnualSavingsIncreaseRate,
	}
}

// begin positions the schedule at age and returns the monthly amount for that year.
func (s *savingsSchedule) begin(age int, first bool) decimal.Decimal {
	if len(s.stages) == 0 {
		return s.monthly
	}
	for _, st := range s.stages {
		if !st.Contains(age) {
			continue
		}
		if first || age == st.StartAge {
			s.monthly = st.MonthlySavings
			s.growth = st.AnnualIncreaseRate
		}
		return s.monthly
	}
	s.monthly = decimal.Zero
	s.growth = decimal.Zero
	return s.monthly
}

// escalate applies the annual savings increase after a completed year.
func (s *savingsSchedule) escalate() {
	s.monthly = s.monthly.Mul(decimalOne.Add(s.growth)).Round(WealthPrecision)
}

// Simulate runs the projection for every age from CurrentAge to RetirementAge inclusive.
// The source is consumed only when the risky allocation is positive.
func (ws *WealthSimulator) Simulate(ctx context.Context, params domain.ParameterSet, src RandomVariateSource) (domain.Trajectory, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	maxYears := ws.MaxYears
	if maxYears <= 0 {
		maxYears = MaxSimulatedYears
	}
	if params.SimulatedYears() > maxYears {
		return nil, fmt.Errorf("%w: %d simulated years exceeds the limit of %d", domain.ErrInvalidParameter, params.SimulatedYears(), maxYears)
	}

	corpus, err := CorpusFor(params)
	if err != nil {
		return nil, err
	}

	rates := newGrowthRates(params)
	if rates.stochastic && src == nil {
		return nil, fmt.Errorf("%w: a random variate source is required when the risk allocation is positive", domain.ErrInvalidParameter)
	}
	schedule := newSavingsSchedule(params)
	logger := loggerOrNop(ws.Logger)

	actual := params.CurrentBankAsset
	riskFree := params.CurrentBankAsset
	expected := params.CurrentBankAsset
	conservative := params.CurrentBankAsset
	insurance := params.MonthlyInsuranceCost

	trajectory := make(domain.Trajectory, 0, params.SimulatedYears())
	for age := params.CurrentAge; age <= params.RetirementAge; age++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		contribution := schedule.begin(age, age == params.CurrentAge)
		annualContribution := decimal.Zero

		for month := 1; month <= 12; month++ {
			annualContribution = annualContribution.Add(contribution)

			if !insurance.IsZero() {
				actual = actual.Sub(insurance)
				riskFree = riskFree.Sub(insurance)
				expected = expected.Sub(insurance)
				conservative = conservative.Sub(insurance)
			}

			actualRate := rates.actual(src)

			actual = grow(actual, actualRate, contribution)
			riskFree = grow(riskFree, rates.riskFree, contribution)
			expected = grow(expected, rates.expected, contribution)
			conservative = grow(conservative, rates.conservative, contribution)
		}

		schedule.escalate()

		trajectory = append(trajectory, domain.YearRecord{
			Age:                age,
			ActualWealth:       actual,
			RequiredCorpus:     corpus,
			AnnualContribution: annualContribution,
			RiskFreeWealth:     riskFree,
			ExpectedWealth:     expected,
			ConservativeWealth: conservative,
		})
		logger.Debugf("age %d: actual=%s risk_free=%s expected=%s conservative=%s contributed=%s",
			age, actual.StringFixed(2), riskFree.StringFixed(2), expected.StringFixed(2), conservative.StringFixed(2), annualContribution.StringFixed(2))
	}

	return trajectory, nil
}

// grow applies one month: wealth·(1+rate) + contribution.
func grow(wealth, rate, contribution decimal.Decimal) decimal.Decimal {
	return wealth.Mul(decimalOne.Add(rate)).Add(contribution).Round(WealthPrecision)
}
