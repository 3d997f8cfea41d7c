package models

import (
	"reflect"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// NewValidator returns a validator that understands decimal prices and the
// refund_reason tag.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})

	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("refund_reason", func(fl validator.FieldLevel) bool {
		return slices.Contains(RefundReasons, fl.Field().String())
	})

	return v
}
