package output

import (
	"bytes"
	"encoding/csv"
)

// CSVSummarizer implements the simple summary CSV output (one row per projection).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string      { return "csv" }
func (c CSVSummarizer) Extension() string { return "csv" }

func (c CSVSummarizer) Format(report *Report) ([]byte, error) {
	p := report.Projection
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"RequiredCorpus", "FinalActualWealth", "FreedomAge", "RiskFreeFreedomAge", "ExpectedFreedomAge", "ConservativeFreedomAge", "ShockApplied", "ShockAmount"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	shockAmount := ""
	if p.Shock != nil {
		shockAmount = p.Shock.ShockAmount().StringFixed(2)
	}
	row := []string{
		p.RequiredCorpus.StringFixed(2),
		p.FinalActualWealth.StringFixed(2),
		optionalAge(p.FreedomAge),
		optionalAge(p.RiskFreeFreedomAge),
		optionalAge(p.ExpectedFreedomAge),
		optionalAge(p.ConservativeFreedomAge),
		boolToString(p.ShockApplied),
		shockAmount,
	}
	if err := w.Write(row); err != nil {
		return nil, err
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
