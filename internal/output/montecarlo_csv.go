package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/rpgo/financial-freedom/internal/domain"
)

// MonteCarloCSVFormatter exports a Monte Carlo summary as Metric,Value,Description rows.
type MonteCarloCSVFormatter struct{}

func (m MonteCarloCSVFormatter) Name() string      { return "montecarlo-csv" }
func (m MonteCarloCSVFormatter) Extension() string { return "csv" }

func (m MonteCarloCSVFormatter) Format(report *Report) ([]byte, error) {
	mc := report.MonteCarlo
	if mc == nil {
		return nil, fmt.Errorf("report has no Monte Carlo summary; run with --simulations")
	}

	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)

	if err := writer.Write([]string{"Metric", "Value", "Description"}); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range monteCarloRows(mc) {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write data row: %w", err)
		}
	}
	writer.Flush()
	return buf.Bytes(), writer.Error()
}

func monteCarloRows(mc *domain.MonteCarloSummary) [][]string {
	w, a := mc.FinalWealthPercentiles, mc.FreedomAgePercentiles
	return [][]string{
		{"Success Rate", FormatPercentage(mc.SuccessRate), "Share of paths whose actual wealth reached the corpus"},
		{"Required Corpus", mc.RequiredCorpus.StringFixed(2), "Capital needed at retirement"},
		{"Median Final Wealth", mc.MedianFinalWealth.StringFixed(2), "Median wealth at retirement age"},
		{"10th Percentile Wealth", w.P10.StringFixed(2), "10th percentile of final wealth"},
		{"25th Percentile Wealth", w.P25.StringFixed(2), "25th percentile of final wealth"},
		{"75th Percentile Wealth", w.P75.StringFixed(2), "75th percentile of final wealth"},
		{"90th Percentile Wealth", w.P90.StringFixed(2), "90th percentile of final wealth"},
		{"10th Percentile Freedom Age", optionalAge(a.P10), "Empty when that path never reached the corpus"},
		{"Median Freedom Age", optionalAge(a.P50), "Empty when that path never reached the corpus"},
		{"90th Percentile Freedom Age", optionalAge(a.P90), "Empty when that path never reached the corpus"},
		{"Number of Simulations", strconv.Itoa(mc.NumSimulations), "Total number of simulations run"},
		{"Seed", strconv.FormatInt(mc.Seed, 10), "Seed of path 0; path i uses seed+i"},
	}
}
