package output

import (
	"github.com/rpgo/financial-freedom/internal/domain"
	"github.com/shopspring/decimal"
)

// ShockImpact compares a shocked projection with its baseline.
type ShockImpact struct {
	FinalWealthChange decimal.Decimal
	PercentageChange  decimal.Decimal
	// DelayYears is the freedom-age delay; nil when either side never reaches the corpus.
	DelayYears  *int
	LostFreedom bool
}

// AnalyzeShock measures how much a shock moves final wealth and the freedom age.
func AnalyzeShock(baseline, shocked *domain.Projection) ShockImpact {
	delta := shocked.FinalActualWealth.Sub(baseline.FinalActualWealth)
	pct := decimal.Zero
	if !baseline.FinalActualWealth.IsZero() {
		pct = delta.Div(baseline.FinalActualWealth).Mul(decimalHundred)
	}

	impact := ShockImpact{FinalWealthChange: delta, PercentageChange: pct}
	switch {
	case baseline.FreedomAge != nil && shocked.FreedomAge != nil:
		delay := *shocked.FreedomAge - *baseline.FreedomAge
		impact.DelayYears = &delay
	case baseline.FreedomAge != nil:
		impact.LostFreedom = true
	}
	return impact
}
