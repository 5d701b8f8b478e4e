package calculation

import (
	"github.com/rpgo/financial-freedom/internal/domain"
	"github.com/shopspring/decimal"
)

// TrackSelector picks one wealth track out of a YearRecord.
type TrackSelector func(domain.YearRecord) decimal.Decimal

var (
	ActualWealth       TrackSelector = func(r domain.YearRecord) decimal.Decimal { return r.ActualWealth }
	RiskFreeWealth     TrackSelector = func(r domain.YearRecord) decimal.Decimal { return r.RiskFreeWealth }
	ExpectedWealth     TrackSelector = func(r domain.YearRecord) decimal.Decimal { return r.ExpectedWealth }
	ConservativeWealth TrackSelector = func(r domain.YearRecord) decimal.Decimal { return r.ConservativeWealth }
)

// FirstCrossing returns the age of the first record whose selected track meets or exceeds
// the record's required corpus. Later dips below the corpus do not change the answer.
func FirstCrossing(t domain.Trajectory, track TrackSelector) (int, bool) {
	for _, r := range t {
		if track(r).GreaterThanOrEqual(r.RequiredCorpus) {
			return r.Age, true
		}
	}
	return 0, false
}

// freedomAge is FirstCrossing as an optional age.
func freedomAge(t domain.Trajectory, track TrackSelector) *int {
	age, ok := FirstCrossing(t, track)
	if !ok {
		return nil
	}
	return &age
}

// Summarize derives a Projection from a trajectory.
func Summarize(t domain.Trajectory) *domain.Projection {
	p := &domain.Projection{
		RequiredCorpus:         t.RequiredCorpus(),
		FreedomAge:             freedomAge(t, ActualWealth),
		RiskFreeFreedomAge:     freedomAge(t, RiskFreeWealth),
		ExpectedFreedomAge:     freedomAge(t, ExpectedWealth),
		ConservativeFreedomAge: freedomAge(t, ConservativeWealth),
		Trajectory:             t,
	}
	if last, ok := t.Last(); ok {
		p.FinalActualWealth = last.ActualWealth
	}
	return p
}
