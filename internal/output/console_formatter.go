package output

import (
	"bytes"
	"fmt"
)

// ConsoleFormatter provides a concise console style summary via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string      { return "console-lite" }
func (c ConsoleFormatter) Extension() string { return "txt" }

func (c ConsoleFormatter) Format(report *Report) ([]byte, error) {
	p := report.Projection
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "FINANCIAL FREEDOM SUMMARY")
	fmt.Fprintln(&buf, "================================")
	fmt.Fprintf(&buf, "Required corpus:      %s\n", FormatCurrency(p.RequiredCorpus))
	fmt.Fprintf(&buf, "Final wealth:         %s\n", FormatCurrency(p.FinalActualWealth))
	fmt.Fprintf(&buf, "Financial freedom at: %s\n", FormatAge(p.FreedomAge))
	if p.ShockApplied && p.Shock != nil {
		fmt.Fprintf(&buf, "Accident at %d applied: -%s\n", p.Shock.AccidentAge, FormatCurrency(p.Shock.ShockAmount()))
	}
	if mc := report.MonteCarlo; mc != nil {
		fmt.Fprintf(&buf, "Monte Carlo success:  %s of %d paths\n", FormatPercentage(mc.SuccessRate), mc.NumSimulations)
	}
	return buf.Bytes(), nil
}
