package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rpgo/financial-freedom/internal/domain"
)

// Report is everything a formatter may render. Projection is required; Baseline is set
// when Projection carries a shock, MonteCarlo when a stochastic summary was run.
type Report struct {
	Params      domain.ParameterSet       `json:"parameters"`
	Projection  *domain.Projection        `json:"projection"`
	Baseline    *domain.Projection        `json:"baseline,omitempty"`
	MonteCarlo  *domain.MonteCarloSummary `json:"monte_carlo,omitempty"`
	GeneratedAt time.Time                 `json:"generated_at"`
}

// GenerateReport renders report in the named format to w.
func GenerateReport(report *Report, format string, w io.Writer) error {
	if report == nil || report.Projection == nil {
		return fmt.Errorf("nothing to report: no projection")
	}
	f := GetFormatterByName(format)
	if f == nil {
		// enrich error with available formatters and aliases
		return fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format, strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
	}
	data, err := f.Format(report)
	if err != nil {
		return fmt.Errorf("failed to format %s report: %w", f.Name(), err)
	}
	_, err = w.Write(data)
	return err
}
