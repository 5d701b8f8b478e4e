package calculation

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/rpgo/financial-freedom/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultMonteCarloConcurrency limits concurrent simulations.
	DefaultMonteCarloConcurrency = 10
	// MaxMonteCarloSimulations caps NumSimulations for a single run.
	MaxMonteCarloSimulations = 100000
)

// MonteCarloSimulator repeats the wealth simulation over independent random streams.
type MonteCarloSimulator struct {
	Simulator *WealthSimulator
	Logger    Logger
}

// MonteCarloConfig holds configuration for Monte Carlo simulations
type MonteCarloConfig struct {
	NumSimulations int
	Seed           int64 // 0 picks a fresh seed; path i uses Seed+i
	Concurrency    int
}

// pathOutcome is what a single path contributes to the summary.
type pathOutcome struct {
	finalWealth decimal.Decimal
	freedomAge  int // neverReached when the corpus was not met
}

const neverReached = math.MaxInt

// NewMonteCarloSimulator creates a simulator over a default WealthSimulator.
func NewMonteCarloSimulator() *MonteCarloSimulator {
	return &MonteCarloSimulator{Simulator: NewWealthSimulator(), Logger: NopLogger{}}
}

// Run executes config.NumSimulations independent paths of params and summarises them.
// With a zero risk allocation every path is identical.
func (mcs *MonteCarloSimulator) Run(ctx context.Context, params domain.ParameterSet, config MonteCarloConfig) (*domain.MonteCarloSummary, error) {
	if config.NumSimulations <= 0 || config.NumSimulations > MaxMonteCarloSimulations {
		return nil, fmt.Errorf("%w: number of simulations must be between 1 and %d, got %d",
			domain.ErrInvalidParameter, MaxMonteCarloSimulations, config.NumSimulations)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	corpus, err := CorpusFor(params)
	if err != nil {
		return nil, err
	}

	seed := config.Seed
	if seed == 0 {
		seed = seedFunc()
	}
	limit := config.Concurrency
	if limit <= 0 {
		limit = DefaultMonteCarloConcurrency
	}
	sim := mcs.Simulator
	if sim == nil {
		sim = NewWealthSimulator()
	}
	logger := loggerOrNop(mcs.Logger)
	logger.Infof("running %d Monte Carlo paths (seed %d, concurrency %d)", config.NumSimulations, seed, limit)

	outcomes := make([]pathOutcome, config.NumSimulations)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := 0; i < config.NumSimulations; i++ {
		i := i
		g.Go(func() error {
			src := NewMathRandSource(seed + int64(i))
			trajectory, err := sim.Simulate(gctx, params, src)
			if err != nil {
				return err
			}
			outcomes[i] = summarizePath(trajectory)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("monte carlo simulation failed: %w", err)
	}

	wealth := make([]decimal.Decimal, len(outcomes))
	ages := make([]int, len(outcomes))
	for i, o := range outcomes {
		wealth[i] = o.finalWealth
		ages[i] = o.freedomAge
	}
	sort.Slice(wealth, func(a, b int) bool { return wealth[a].LessThan(wealth[b]) })
	sort.Ints(ages)

	return &domain.MonteCarloSummary{
		NumSimulations:         config.NumSimulations,
		Seed:                   seed,
		RequiredCorpus:         corpus,
		SuccessRate:            calculateSuccessRate(ages),
		MedianFinalWealth:      wealth[len(wealth)/2],
		FinalWealthPercentiles: calculatePercentileRanges(wealth),
		FreedomAgePercentiles:  calculateAgePercentiles(ages),
	}, nil
}

func summarizePath(t domain.Trajectory) pathOutcome {
	o := pathOutcome{freedomAge: neverReached}
	if last, ok := t.Last(); ok {
		o.finalWealth = last.ActualWealth
	}
	if age, ok := FirstCrossing(t, ActualWealth); ok {
		o.freedomAge = age
	}
	return o
}

// calculateSuccessRate is the fraction of paths that reached the corpus.
func calculateSuccessRate(ages []int) decimal.Decimal {
	successCount := 0
	for _, age := range ages {
		if age != neverReached {
			successCount++
		}
	}
	return decimal.NewFromInt(int64(successCount)).Div(decimal.NewFromInt(int64(len(ages))))
}

// calculatePercentileRanges reads percentiles from sorted values.
func calculatePercentileRanges(sorted []decimal.Decimal) domain.PercentileRanges {
	n := len(sorted)
	return domain.PercentileRanges{
		P10: sorted[n/10],
		P25: sorted[n/4],
		P50: sorted[n/2],
		P75: sorted[3*n/4],
		P90: sorted[9*n/10],
	}
}

func calculateAgePercentiles(sorted []int) domain.AgePercentileRanges {
	n := len(sorted)
	at := func(i int) *int {
		if sorted[i] == neverReached {
			return nil
		}
		age := sorted[i]
		return &age
	}
	return domain.AgePercentileRanges{
		P10: at(n / 10),
		P25: at(n / 4),
		P50: at(n / 2),
		P75: at(3 * n / 4),
		P90: at(9 * n / 10),
	}
}
