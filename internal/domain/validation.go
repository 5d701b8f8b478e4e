package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator, configured to compare decimal fields as floats.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
		v.RegisterTagNameFunc(jsonFieldName)
		validate = v
	})
	return validate
}

func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.InexactFloat64()
	}
	return nil
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}

// Validate checks field ranges and the cross-field rules of a ParameterSet.
// Every failure wraps ErrInvalidParameter.
func (p ParameterSet) Validate() error {
	if err := Validator().Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return formatValidationErrors(verrs)
		}
		return fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}

	if p.RetirementAge < p.CurrentAge {
		return fmt.Errorf("%w: retirement age %d is before current age %d", ErrInvalidParameter, p.RetirementAge, p.CurrentAge)
	}

	for i := 1; i < len(p.SavingsStages); i++ {
		prev, cur := p.SavingsStages[i-1], p.SavingsStages[i]
		if cur.StartAge <= prev.EndAge {
			return fmt.Errorf("%w: savings stage %d starts at %d, before stage %d ends at %d",
				ErrInvalidParameter, i+1, cur.StartAge, i, prev.EndAge)
		}
	}

	return nil
}

// Validate checks a shock on its own, for callers that overlay an existing baseline.
func (a AccidentShock) Validate() error {
	if err := Validator().Struct(a); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return formatValidationErrors(verrs)
		}
		return fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	return nil
}

func formatValidationErrors(verrs validator.ValidationErrors) error {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		switch fe.Tag() {
		case "gt", "gte", "lt", "lte":
			msgs = append(msgs, fmt.Sprintf("%s must be %s %s", field, comparisonWord(fe.Tag()), fe.Param()))
		case "gtefield":
			msgs = append(msgs, fmt.Sprintf("%s must not be before %s", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidParameter, strings.Join(msgs, "; "))
}

func comparisonWord(tag string) string {
	switch tag {
	case "gt":
		return ">"
	case "gte":
		return ">="
	case "lt":
		return "<"
	default:
		return "<="
	}
}
