package output

import (
	"bytes"
	"encoding/csv"
)

// CSVDetailedExporter writes one row per simulated age, ready for charting.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string      { return "detailed-csv" }
func (c CSVDetailedExporter) Extension() string { return "csv" }

func (c CSVDetailedExporter) Format(report *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Age", "AnnualContribution", "ActualWealth", "RiskFreeWealth", "ExpectedWealth", "ConservativeWealth", "RequiredCorpus", "FreedomReached"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range report.Projection.Trajectory {
		row := []string{
			intToString(r.Age),
			r.AnnualContribution.StringFixed(2),
			r.ActualWealth.StringFixed(2),
			r.RiskFreeWealth.StringFixed(2),
			r.ExpectedWealth.StringFixed(2),
			r.ConservativeWealth.StringFixed(2),
			r.RequiredCorpus.StringFixed(2),
			boolToString(r.ActualWealth.GreaterThanOrEqual(r.RequiredCorpus)),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
