package calculation

import (
	"math"
)

// MinUniform is the smallest first uniform fed to the log in the Box-Muller transform.
// Draws below it (in particular an exact 0) are clamped up to it.
const MinUniform = 1e-12

// StandardNormal draws two uniforms and returns one standard normal variate
// (cosine branch of Box-Muller; the sine branch is discarded).
func StandardNormal(src RandomVariateSource) float64 {
	u1 := src.Float64()
	u2 := src.Float64()
	return boxMullerTransform(u1, u2)
}

// boxMullerTransform implements Box-Muller transform for normal distribution
func boxMullerTransform(u1, u2 float64) float64 {
	if math.IsNaN(u1) || u1 < MinUniform {
		u1 = MinUniform
	}
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// MonthlyRiskyReturn samples one month of a log-normal risky asset with annual expected
// return mu and annual volatility sigma:
//
//	exp((mu - sigma²/2)/12 + (sigma/√12)·Z) - 1
func MonthlyRiskyReturn(src RandomVariateSource, mu, sigma float64) float64 {
	z := StandardNormal(src)
	r := math.Exp((mu-sigma*sigma/2)/12+(sigma/math.Sqrt(12))*z) - 1
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

// monthlyCompounded converts an annual rate to its compounded monthly equivalent.
func monthlyCompounded(annual float64) float64 {
	return math.Pow(1+annual, 1.0/12) - 1
}
