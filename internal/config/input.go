package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/rpgo/financial-freedom/internal/domain"
	"github.com/rpgo/financial-freedom/pkg/money"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var hundred = decimal.NewFromInt(100)

// Number is a numeric field as the user wrote it: a YAML/JSON number, or a string that
// may contain grouping separators ("100,000,000"). It is parsed by ToParameterSet.
type Number string

// UnmarshalYAML accepts any scalar.
func (n *Number) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a number, got a %s", node.Line, kindName(node.Kind))
	}
	if node.Tag == "!!null" {
		*n = ""
		return nil
	}
	*n = Number(node.Value)
	return nil
}

// UnmarshalJSON accepts a JSON number, a string or null.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*n = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Number(s)
	default:
		*n = Number(data)
	}
	return nil
}

// NumberOf formats d as a Number.
func NumberOf(d decimal.Decimal) Number {
	return Number(d.String())
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.AliasNode:
		return "alias"
	default:
		return "document"
	}
}

// Input is the user-facing scenario. Rates are percentages (4.7 means 4.7%).
type Input struct {
	CurrentAge    int `yaml:"current_age" json:"current_age"`
	RetirementAge int `yaml:"retirement_age" json:"retirement_age"`

	DesiredMonthlySpending Number `yaml:"desired_monthly_spending" json:"desired_monthly_spending"`
	InflationRate          Number `yaml:"inflation_rate" json:"inflation_rate"`
	CurrentBankAsset       Number `yaml:"current_bank_asset" json:"current_bank_asset"`
	AverageInterestRate    Number `yaml:"average_interest_rate" json:"average_interest_rate"`
	MonthlySavingsAmount   Number `yaml:"monthly_savings_amount" json:"monthly_savings_amount"`
	AnnualSavingsIncrease  Number `yaml:"annual_savings_increase" json:"annual_savings_increase"`

	MonthlyInsuranceCost Number `yaml:"monthly_insurance_cost,omitempty" json:"monthly_insurance_cost,omitempty"`
	WithdrawalRate       Number `yaml:"withdrawal_rate,omitempty" json:"withdrawal_rate,omitempty"`

	Risk          *RiskInput     `yaml:"risk,omitempty" json:"risk,omitempty"`
	Accident      *AccidentInput `yaml:"accident,omitempty" json:"accident,omitempty"`
	SavingsStages []StageInput   `yaml:"savings_stages,omitempty" json:"savings_stages,omitempty"`
}

// RiskInput splits the portfolio; every field is a percentage.
type RiskInput struct {
	Allocation          Number `yaml:"allocation" json:"allocation"`
	RiskFreeReturn      Number `yaml:"risk_free_return,omitempty" json:"risk_free_return,omitempty"`
	RiskyExpectedReturn Number `yaml:"risky_expected_return,omitempty" json:"risky_expected_return,omitempty"`
	RiskyVolatility     Number `yaml:"risky_volatility,omitempty" json:"risky_volatility,omitempty"`
}

// AccidentInput is a one-time wealth loss; coverage is a percentage.
type AccidentInput struct {
	Age               int    `yaml:"age" json:"age"`
	WealthLoss        Number `yaml:"wealth_loss" json:"wealth_loss"`
	InsuranceCoverage Number `yaml:"insurance_coverage,omitempty" json:"insurance_coverage,omitempty"`
}

// StageInput is one leg of a staged savings plan.
type StageInput struct {
	StartAge       int    `yaml:"start_age" json:"start_age"`
	EndAge         int    `yaml:"end_age" json:"end_age"`
	MonthlySavings Number `yaml:"monthly_savings" json:"monthly_savings"`
	AnnualIncrease Number `yaml:"annual_increase,omitempty" json:"annual_increase,omitempty"`
}

// converter parses fields in order and keeps the first failure.
type converter struct {
	err error
}

func (c *converter) parse(field string, n Number, required bool) decimal.Decimal {
	if c.err != nil {
		return decimal.Zero
	}
	if n == "" {
		if required {
			c.err = fmt.Errorf("%w: %s is required", domain.ErrInvalidParameter, field)
		}
		return decimal.Zero
	}
	m, err := money.Parse(string(n))
	if err != nil {
		c.err = fmt.Errorf("%w: %s: %v", domain.ErrInvalidParameter, field, err)
		return decimal.Zero
	}
	return m.Decimal
}

func (c *converter) amount(field string, n Number, required bool) decimal.Decimal {
	return c.parse(field, n, required)
}

func (c *converter) percent(field string, n Number, required bool) decimal.Decimal {
	return c.parse(field, n, required).Div(hundred)
}

// ToParameterSet converts the percentages and grouped amounts into a validated
// domain.ParameterSet. Unparsable text is an error, never zero.
func (in Input) ToParameterSet() (domain.ParameterSet, error) {
	c := &converter{}
	p := domain.ParameterSet{
		CurrentAge:                in.CurrentAge,
		RetirementAge:             in.RetirementAge,
		DesiredMonthlySpending:    c.amount("desired_monthly_spending", in.DesiredMonthlySpending, true),
		InflationRate:             c.percent("inflation_rate", in.InflationRate, false),
		CurrentBankAsset:          c.amount("current_bank_asset", in.CurrentBankAsset, false),
		AverageInterestRate:       c.percent("average_interest_rate", in.AverageInterestRate, false),
		MonthlySavingsAmount:      c.amount("monthly_savings_amount", in.MonthlySavingsAmount, false),
		AnnualSavingsIncreaseRate: c.percent("annual_savings_increase", in.AnnualSavingsIncrease, false),
		MonthlyInsuranceCost:      c.amount("monthly_insurance_cost", in.MonthlyInsuranceCost, false),
		WithdrawalRate:            c.percent("withdrawal_rate", in.WithdrawalRate, false),
	}

	if in.Risk != nil {
		p.Risk = &domain.RiskProfile{
			AllocationFraction:  c.percent("risk.allocation", in.Risk.Allocation, true),
			RiskFreeReturn:      c.percent("risk.risk_free_return", in.Risk.RiskFreeReturn, false),
			RiskyExpectedReturn: c.percent("risk.risky_expected_return", in.Risk.RiskyExpectedReturn, false),
			RiskyVolatility:     c.percent("risk.risky_volatility", in.Risk.RiskyVolatility, false),
		}
	}

	if in.Accident != nil {
		shock, err := in.Accident.ToShock()
		if err != nil && c.err == nil {
			c.err = err
		}
		p.Accident = &shock
	}

	for i, st := range in.SavingsStages {
		prefix := fmt.Sprintf("savings_stages[%d]", i)
		p.SavingsStages = append(p.SavingsStages, domain.SavingsStage{
			StartAge:           st.StartAge,
			EndAge:             st.EndAge,
			MonthlySavings:     c.amount(prefix+".monthly_savings", st.MonthlySavings, true),
			AnnualIncreaseRate: c.percent(prefix+".annual_increase", st.AnnualIncrease, false),
		})
	}

	if c.err != nil {
		return domain.ParameterSet{}, c.err
	}
	if err := p.Validate(); err != nil {
		return domain.ParameterSet{}, err
	}
	return p, nil
}

// ToShock converts the accident block into a domain.AccidentShock.
func (a AccidentInput) ToShock() (domain.AccidentShock, error) {
	c := &converter{}
	shock := domain.AccidentShock{
		AccidentAge:              a.Age,
		WealthLoss:               c.amount("accident.wealth_loss", a.WealthLoss, true),
		InsuranceCoveragePercent: c.amount("accident.insurance_coverage", a.InsuranceCoverage, false),
	}
	if c.err != nil {
		return domain.AccidentShock{}, c.err
	}
	if err := shock.Validate(); err != nil {
		return domain.AccidentShock{}, err
	}
	return shock, nil
}

// InputParser handles parsing of scenario files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a scenario from a YAML or JSON file and validates it.
func (ip *InputParser) LoadFromFile(filename string) (*Input, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes and validates a scenario document.
func (ip *InputParser) Parse(data []byte) (*Input, error) {
	var input Input
	if err := yaml.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateInput(&input); err != nil {
		return nil, fmt.Errorf("scenario validation failed: %w", err)
	}

	return &input, nil
}

// ValidateInput runs the full conversion so every field error surfaces at load time.
func (ip *InputParser) ValidateInput(input *Input) error {
	if input == nil {
		return errors.New("no scenario provided")
	}
	_, err := input.ToParameterSet()
	return err
}

// CreateExampleConfiguration returns the default scenario: an 18-year-old aiming to
// retire at 65.
func (ip *InputParser) CreateExampleConfiguration() *Input {
	return &Input{
		CurrentAge:             18,
		RetirementAge:          65,
		DesiredMonthlySpending: "30,000,000",
		InflationRate:          "3.43",
		CurrentBankAsset:       "100,000,000",
		AverageInterestRate:    "4.7",
		MonthlySavingsAmount:   "7,000,000",
		AnnualSavingsIncrease:  "10",
	}
}

// MarshalExample renders the example scenario as YAML.
func (ip *InputParser) MarshalExample() ([]byte, error) {
	return yaml.Marshal(ip.CreateExampleConfiguration())
}
