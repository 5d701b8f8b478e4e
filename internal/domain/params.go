package domain

import (
	"github.com/shopspring/decimal"
)

// ParameterSet is the immutable input of a single projection run. All rates are decimal
// fractions (0.047 means 4.7%); percent inputs are converted before they reach this type.
// Amounts are capped at 1e15 and rates at 10 (1000%).
type ParameterSet struct {
	CurrentAge    int `json:"current_age" validate:"gte=0,lte=150"`
	RetirementAge int `json:"retirement_age" validate:"gte=0,lte=150,gtefield=CurrentAge"`

	DesiredMonthlySpending    decimal.Decimal `json:"desired_monthly_spending" validate:"gte=0,lte=1e15"`
	InflationRate             decimal.Decimal `json:"inflation_rate" validate:"gt=-1,lte=10"`
	CurrentBankAsset          decimal.Decimal `json:"current_bank_asset" validate:"gte=0,lte=1e15"`
	AverageInterestRate       decimal.Decimal `json:"average_interest_rate" validate:"gt=-1,lte=10"`
	MonthlySavingsAmount      decimal.Decimal `json:"monthly_savings_amount" validate:"gte=0,lte=1e15"`
	AnnualSavingsIncreaseRate decimal.Decimal `json:"annual_savings_increase_rate" validate:"gt=-1,lte=10"`

	// MonthlyInsuranceCost is deducted from every wealth track each month; zero disables it.
	MonthlyInsuranceCost decimal.Decimal `json:"monthly_insurance_cost" validate:"gte=0,lte=1e15"`

	// WithdrawalRate overrides the default safe withdrawal rate when non-zero.
	WithdrawalRate decimal.Decimal `json:"withdrawal_rate,omitempty" validate:"gte=0,lt=1"`

	Risk          *RiskProfile   `json:"risk,omitempty" validate:"omitempty"`
	Accident      *AccidentShock `json:"accident,omitempty" validate:"omitempty"`
	SavingsStages []SavingsStage `json:"savings_stages,omitempty" validate:"omitempty,dive"`
}

// RiskProfile splits the portfolio between a risk-free and a risky asset class.
// A nil profile is equivalent to AllocationFraction = 0.
type RiskProfile struct {
	AllocationFraction  decimal.Decimal `json:"allocation_fraction" validate:"gte=0,lte=1"`
	RiskFreeReturn      decimal.Decimal `json:"risk_free_return" validate:"gt=-1,lte=10"`
	RiskyExpectedReturn decimal.Decimal `json:"risky_expected_return" validate:"gt=-1,lte=10"`
	RiskyVolatility     decimal.Decimal `json:"risky_volatility" validate:"gte=0,lte=10"`
}

// AccidentShock is a one-time wealth loss applied from AccidentAge onward, net of insurance.
type AccidentShock struct {
	AccidentAge              int             `json:"accident_age" validate:"gte=0,lte=150"`
	WealthLoss               decimal.Decimal `json:"wealth_loss" validate:"gte=0,lte=1e15"`
	InsuranceCoveragePercent decimal.Decimal `json:"insurance_coverage_percent" validate:"gte=0,lte=100"`
}

// ShockAmount is the uninsured part of the loss.
func (a AccidentShock) ShockAmount() decimal.Decimal {
	uncovered := decimal.NewFromInt(1).Sub(a.InsuranceCoveragePercent.Div(decimal.NewFromInt(100)))
	return a.WealthLoss.Mul(uncovered)
}

// SavingsStage is one leg of a staged savings plan. Inside a stage the monthly amount
// starts at MonthlySavings and grows by AnnualIncreaseRate after every simulated year.
type SavingsStage struct {
	StartAge           int             `json:"start_age" validate:"gte=0,lte=150"`
	EndAge             int             `json:"end_age" validate:"gte=0,lte=150,gtefield=StartAge"`
	MonthlySavings     decimal.Decimal `json:"monthly_savings" validate:"gte=0,lte=1e15"`
	AnnualIncreaseRate decimal.Decimal `json:"annual_increase_rate" validate:"gt=-1,lte=10"`
}

// Contains reports whether age falls inside the stage.
func (s SavingsStage) Contains(age int) bool {
	return age >= s.StartAge && age <= s.EndAge
}

// AllocationFraction returns u, treating a missing risk profile as fully risk-free.
func (p ParameterSet) AllocationFraction() decimal.Decimal {
	if p.Risk == nil {
		return decimal.Zero
	}
	return p.Risk.AllocationFraction
}

// YearsToRetirement is retirementAge - currentAge.
func (p ParameterSet) YearsToRetirement() int {
	return p.RetirementAge - p.CurrentAge
}

// SimulatedYears is the number of YearRecords a run produces; at least one.
func (p ParameterSet) SimulatedYears() int {
	return p.RetirementAge - p.CurrentAge + 1
}
