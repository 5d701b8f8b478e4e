package calculation

import (
	"github.com/rpgo/financial-freedom/internal/domain"
)

// ApplyShock returns a copy of baseline with the shock's uninsured loss subtracted from
// every wealth track of each record at or after the accident age. The baseline is never
// modified, so repeated calls with different shocks do not compound.
func ApplyShock(baseline domain.Trajectory, shock domain.AccidentShock) domain.Trajectory {
	shocked := baseline.Clone()
	amount := shock.ShockAmount()
	if amount.IsZero() {
		return shocked
	}
	for i := range shocked {
		r := &shocked[i]
		if r.Age < shock.AccidentAge {
			continue
		}
		r.ActualWealth = r.ActualWealth.Sub(amount)
		r.RiskFreeWealth = r.RiskFreeWealth.Sub(amount)
		r.ExpectedWealth = r.ExpectedWealth.Sub(amount)
		r.ConservativeWealth = r.ConservativeWealth.Sub(amount)
	}
	return shocked
}
