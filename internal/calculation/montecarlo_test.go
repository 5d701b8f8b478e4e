package calculation

import (
	"context"
	"testing"

	"github.com/rpgo/financial-freedom/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonteCarloSimulator(t *testing.T) {
	params := riskyParams()
	params.RetirementAge = 45
	params.DesiredMonthlySpending = d("300")

	summary, err := NewMonteCarloSimulator().Run(context.Background(), params, MonteCarloConfig{
		NumSimulations: 200,
		Seed:           12345,
	})
	require.NoError(t, err)

	assert.Equal(t, 200, summary.NumSimulations)
	assert.Equal(t, int64(12345), summary.Seed)
	assert.True(t, summary.SuccessRate.GreaterThanOrEqual(decimal.Zero))
	assert.True(t, summary.SuccessRate.LessThanOrEqual(decimal.NewFromInt(1)))

	p := summary.FinalWealthPercentiles
	assert.True(t, p.P10.LessThanOrEqual(p.P25))
	assert.True(t, p.P25.LessThanOrEqual(p.P50))
	assert.True(t, p.P50.LessThanOrEqual(p.P75))
	assert.True(t, p.P75.LessThanOrEqual(p.P90))
	assert.True(t, summary.MedianFinalWealth.Equal(p.P50))
}

func TestMonteCarloReproducibleWithSeed(t *testing.T) {
	params := riskyParams()
	config := MonteCarloConfig{NumSimulations: 50, Seed: 7, Concurrency: 4}

	first, err := NewMonteCarloSimulator().Run(context.Background(), params, config)
	require.NoError(t, err)

	config.Concurrency = 1
	second, err := NewMonteCarloSimulator().Run(context.Background(), params, config)
	require.NoError(t, err)

	assert.True(t, first.SuccessRate.Equal(second.SuccessRate))
	assert.True(t, first.FinalWealthPercentiles.P10.Equal(second.FinalWealthPercentiles.P10))
	assert.True(t, first.FinalWealthPercentiles.P90.Equal(second.FinalWealthPercentiles.P90))
	assert.Equal(t, first.FreedomAgePercentiles, second.FreedomAgePercentiles)
}

func TestMonteCarloRiskFreePathsAgree(t *testing.T) {
	params := flatParams(64, 64, "1000")

	summary, err := NewMonteCarloSimulator().Run(context.Background(), params, MonteCarloConfig{NumSimulations: 10, Seed: 1})
	require.NoError(t, err)

	assert.True(t, summary.SuccessRate.Equal(decimal.NewFromInt(1)))
	p := summary.FinalWealthPercentiles
	assert.True(t, p.P10.Equal(d("1000")))
	assert.True(t, p.P90.Equal(d("1000")))
	require.NotNil(t, summary.FreedomAgePercentiles.P50)
	assert.Equal(t, 64, *summary.FreedomAgePercentiles.P50)
}

func TestMonteCarloUnreachableCorpus(t *testing.T) {
	params := flatParams(60, 61, "0")
	params.DesiredMonthlySpending = d("1000000000")

	summary, err := NewMonteCarloSimulator().Run(context.Background(), params, MonteCarloConfig{NumSimulations: 5, Seed: 3})
	require.NoError(t, err)

	assert.True(t, summary.SuccessRate.IsZero())
	assert.Nil(t, summary.FreedomAgePercentiles.P10)
	assert.Nil(t, summary.FreedomAgePercentiles.P90)
}

func TestMonteCarloPartialSuccess(t *testing.T) {
	ages := []int{40, 41, 45, neverReached, neverReached}
	assert.True(t, calculateSuccessRate(ages).Equal(d("0.6")))

	percentiles := calculateAgePercentiles(ages)
	require.NotNil(t, percentiles.P10)
	assert.Equal(t, 40, *percentiles.P10)
	require.NotNil(t, percentiles.P50)
	assert.Equal(t, 45, *percentiles.P50)
	assert.Nil(t, percentiles.P75)
	assert.Nil(t, percentiles.P90)
}

func TestMonteCarloRejectsBadConfig(t *testing.T) {
	mcs := NewMonteCarloSimulator()

	_, err := mcs.Run(context.Background(), riskyParams(), MonteCarloConfig{NumSimulations: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)

	_, err = mcs.Run(context.Background(), riskyParams(), MonteCarloConfig{NumSimulations: MaxMonteCarloSimulations + 1})
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)

	bad := riskyParams()
	bad.CurrentBankAsset = d("-5")
	_, err = mcs.Run(context.Background(), bad, MonteCarloConfig{NumSimulations: 3})
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestMonteCarloFreshSeed(t *testing.T) {
	SetSeedFunc(func() int64 { return 4242 })
	defer SetSeedFunc(newSeed)

	summary, err := NewMonteCarloSimulator().Run(context.Background(), riskyParams(), MonteCarloConfig{NumSimulations: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(4242), summary.Seed)
}

func TestMonteCarloCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMonteCarloSimulator().Run(ctx, riskyParams(), MonteCarloConfig{NumSimulations: 20, Seed: 1})
	assert.ErrorIs(t, err, context.Canceled)
}
