package shared

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// MoneyScale is the number of decimal places stored for prices.
const MoneyScale = 2

// MaxMoney is the exclusive upper bound of a price column (NUMERIC(12,2)).
var MaxMoney = decimal.New(1, 10)

// MoneyProblem describes why d cannot be stored as a price, or returns ""
// when it fits.
func MoneyProblem(d decimal.Decimal) string {
	switch {
	case d.IsNegative():
		return "must not be negative"
	case d.GreaterThanOrEqual(MaxMoney):
		return "must be less than " + MaxMoney.String()
	case !d.Equal(d.Truncate(MoneyScale)):
		return "must have at most 2 decimal places"
	}
	return ""
}

// NewValidator returns a validator that reports JSON field names and knows
// how to check decimal amounts.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("decimal_gte0", func(fl validator.FieldLevel) bool {
		switch d := fl.Field().Interface().(type) {
		case decimal.Decimal:
			return !d.IsNegative()
		case decimal.NullDecimal:
			return !d.Valid || !d.Decimal.IsNegative()
		}
		return false
	})
	_ = v.RegisterValidation("money", func(fl validator.FieldLevel) bool {
		switch d := fl.Field().Interface().(type) {
		case decimal.Decimal:
			return MoneyProblem(d) == ""
		case decimal.NullDecimal:
			return !d.Valid || MoneyProblem(d.Decimal) == ""
		}
		return false
	})
	return v
}

// ValidateStruct runs v against target and converts failures into a ValidationError.
func ValidateStruct(v *validator.Validate, target any) error {
	err := v.Struct(target)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe)] = describe(fe)
	}
	return NewValidationError(fields)
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte", "min":
		if fe.Kind() == reflect.String {
			return "must be at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "decimal_gte0":
		return "must not be negative"
	case "money":
		switch d := fe.Value().(type) {
		case decimal.Decimal:
			return MoneyProblem(d)
		case *decimal.Decimal:
			if d != nil {
				return MoneyProblem(*d)
			}
		case decimal.NullDecimal:
			return MoneyProblem(d.Decimal)
		}
		return "must be a valid amount"
	default:
		return "failed " + fe.Tag() + " check"
	}
}
