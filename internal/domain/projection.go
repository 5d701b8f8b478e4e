package domain

import (
	"github.com/shopspring/decimal"
)

// YearRecord is the state of every wealth track at the end of one simulated age.
type YearRecord struct {
	Age                int             `json:"age"`
	ActualWealth       decimal.Decimal `json:"actual_wealth"`
	RequiredCorpus     decimal.Decimal `json:"required_corpus"`
	AnnualContribution decimal.Decimal `json:"annual_contribution"`
	RiskFreeWealth     decimal.Decimal `json:"risk_free_wealth"`
	ExpectedWealth     decimal.Decimal `json:"expected_wealth"`
	ConservativeWealth decimal.Decimal `json:"conservative_wealth"`
}

// Trajectory is one record per simulated age in chronological order.
type Trajectory []YearRecord

// Clone returns an independent copy.
func (t Trajectory) Clone() Trajectory {
	if t == nil {
		return nil
	}
	out := make(Trajectory, len(t))
	copy(out, t)
	return out
}

// Last returns the final record, or false for an empty trajectory.
func (t Trajectory) Last() (YearRecord, bool) {
	if len(t) == 0 {
		return YearRecord{}, false
	}
	return t[len(t)-1], true
}

// RequiredCorpus returns the corpus attached to the run (constant across records).
func (t Trajectory) RequiredCorpus() decimal.Decimal {
	if len(t) == 0 {
		return decimal.Zero
	}
	return t[0].RequiredCorpus
}

// Projection summarises a trajectory. A nil age means the track never reached the corpus.
type Projection struct {
	RequiredCorpus         decimal.Decimal `json:"required_corpus"`
	FinalActualWealth      decimal.Decimal `json:"final_actual_wealth"`
	FreedomAge             *int            `json:"freedom_age"`
	RiskFreeFreedomAge     *int            `json:"risk_free_freedom_age"`
	ExpectedFreedomAge     *int            `json:"expected_freedom_age"`
	ConservativeFreedomAge *int            `json:"conservative_freedom_age"`
	ShockApplied           bool            `json:"shock_applied"`
	Shock                  *AccidentShock  `json:"shock,omitempty"`
	Trajectory             Trajectory      `json:"trajectory"`
}

// Achieved reports whether the actual track reached the corpus.
func (p *Projection) Achieved() bool {
	return p.FreedomAge != nil
}

// MonteCarloSummary aggregates many independent stochastic runs of the same ParameterSet.
type MonteCarloSummary struct {
	NumSimulations         int                 `json:"num_simulations"`
	Seed                   int64               `json:"seed"`
	RequiredCorpus         decimal.Decimal     `json:"required_corpus"`
	SuccessRate            decimal.Decimal     `json:"success_rate"`
	MedianFinalWealth      decimal.Decimal     `json:"median_final_wealth"`
	FinalWealthPercentiles PercentileRanges    `json:"final_wealth_percentiles"`
	FreedomAgePercentiles  AgePercentileRanges `json:"freedom_age_percentiles"`
}

// PercentileRanges represents percentile ranges for Monte Carlo results
type PercentileRanges struct {
	P10 decimal.Decimal `json:"p10"`
	P25 decimal.Decimal `json:"p25"`
	P50 decimal.Decimal `json:"p50"`
	P75 decimal.Decimal `json:"p75"`
	P90 decimal.Decimal `json:"p90"`
}

// AgePercentileRanges holds freedom-age percentiles; nil where that path never got there.
type AgePercentileRanges struct {
	P10 *int `json:"p10"`
	P25 *int `json:"p25"`
	P50 *int `json:"p50"`
	P75 *int `json:"p75"`
	P90 *int `json:"p90"`
}
