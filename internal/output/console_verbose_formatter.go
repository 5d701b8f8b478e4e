package output

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/rpgo/financial-freedom/internal/domain"
)

// ConsoleVerboseFormatter renders the full console report: summary, assumptions, the
// year-by-year table and, when present, shock impact and Monte Carlo percentiles.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string      { return "console" }
func (c ConsoleVerboseFormatter) Extension() string { return "txt" }

func (c ConsoleVerboseFormatter) Format(report *Report) ([]byte, error) {
	p := report.Projection
	var buf bytes.Buffer

	fmt.Fprintln(&buf, strings.Repeat("=", 81))
	fmt.Fprintln(&buf, "FINANCIAL FREEDOM PROJECTION")
	fmt.Fprintln(&buf, strings.Repeat("=", 81))
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	for _, a := range GenerateAssumptions(report.Params) {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "RESULT")
	fmt.Fprintln(&buf, strings.Repeat("-", 40))
	fmt.Fprintf(&buf, "Required retirement corpus: %s\n", FormatCurrency(p.RequiredCorpus))
	fmt.Fprintf(&buf, "Wealth at retirement:       %s\n", FormatCurrency(p.FinalActualWealth))
	fmt.Fprintf(&buf, "Financial freedom age:      %s\n", FormatAge(p.FreedomAge))
	fmt.Fprintf(&buf, "  risk-free track:          %s\n", FormatAge(p.RiskFreeFreedomAge))
	fmt.Fprintf(&buf, "  expected track:           %s\n", FormatAge(p.ExpectedFreedomAge))
	fmt.Fprintf(&buf, "  conservative track:       %s\n", FormatAge(p.ConservativeFreedomAge))
	fmt.Fprintln(&buf)

	if p.ShockApplied && p.Shock != nil {
		writeShock(&buf, p, report.Baseline)
	}

	writeTrajectory(&buf, p.Trajectory)

	if report.MonteCarlo != nil {
		writeMonteCarlo(&buf, report.MonteCarlo)
	}
	return buf.Bytes(), nil
}

func writeShock(buf *bytes.Buffer, p, baseline *domain.Projection) {
	s := p.Shock
	fmt.Fprintln(buf, "ACCIDENT")
	fmt.Fprintln(buf, strings.Repeat("-", 40))
	fmt.Fprintf(buf, "Age %d: loss %s, insured %s%%, uninsured %s\n",
		s.AccidentAge, FormatCurrency(s.WealthLoss), s.InsuranceCoveragePercent.String(), FormatCurrency(s.ShockAmount()))
	if baseline != nil {
		impact := AnalyzeShock(baseline, p)
		fmt.Fprintf(buf, "Final wealth change: %s (%s%%)\n", FormatCurrency(impact.FinalWealthChange), impact.PercentageChange.StringFixed(2))
		switch {
		case impact.LostFreedom:
			fmt.Fprintf(buf, "Freedom age %s is no longer reached\n", FormatAge(baseline.FreedomAge))
		case impact.DelayYears != nil && *impact.DelayYears > 0:
			fmt.Fprintf(buf, "Freedom delayed by %d year(s)\n", *impact.DelayYears)
		}
	}
	fmt.Fprintln(buf)
}

func writeTrajectory(buf *bytes.Buffer, t domain.Trajectory) {
	fmt.Fprintln(buf, "YEAR BY YEAR")
	fmt.Fprintln(buf, strings.Repeat("-", 40))
	tw := tabwriter.NewWriter(buf, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Age\tContributed\tActual\tRisk-free\tExpected\tConservative\tRequired\t")
	for _, r := range t {
		mark := ""
		if r.ActualWealth.GreaterThanOrEqual(r.RequiredCorpus) {
			mark = "*"
		}
		fmt.Fprintf(tw, "%d%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			r.Age, mark,
			FormatCurrency(r.AnnualContribution),
			FormatCurrency(r.ActualWealth),
			FormatCurrency(r.RiskFreeWealth),
			FormatCurrency(r.ExpectedWealth),
			FormatCurrency(r.ConservativeWealth),
			FormatCurrency(r.RequiredCorpus),
		)
	}
	tw.Flush()
	fmt.Fprintln(buf)
}

func writeMonteCarlo(buf *bytes.Buffer, mc *domain.MonteCarloSummary) {
	fmt.Fprintln(buf, "MONTE CARLO")
	fmt.Fprintln(buf, strings.Repeat("-", 40))
	fmt.Fprintf(buf, "Paths: %d (seed %d)\n", mc.NumSimulations, mc.Seed)
	fmt.Fprintf(buf, "Success rate: %s\n", FormatPercentage(mc.SuccessRate))
	fmt.Fprintf(buf, "Median final wealth: %s\n", FormatCurrency(mc.MedianFinalWealth))

	w, a := mc.FinalWealthPercentiles, mc.FreedomAgePercentiles
	tw := tabwriter.NewWriter(buf, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Percentile\tFinal wealth\tFreedom age\t")
	fmt.Fprintf(tw, "P10\t%s\t%s\t\n", FormatCurrency(w.P10), FormatAge(a.P10))
	fmt.Fprintf(tw, "P25\t%s\t%s\t\n", FormatCurrency(w.P25), FormatAge(a.P25))
	fmt.Fprintf(tw, "P50\t%s\t%s\t\n", FormatCurrency(w.P50), FormatAge(a.P50))
	fmt.Fprintf(tw, "P75\t%s\t%s\t\n", FormatCurrency(w.P75), FormatAge(a.P75))
	fmt.Fprintf(tw, "P90\t%s\t%s\t\n", FormatCurrency(w.P90), FormatAge(a.P90))
	tw.Flush()
}
