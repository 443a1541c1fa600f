package validator

import "github.com/go-playground/validator/v10"

func registerFn(tag string, fn func(fl validator.FieldLevel) bool) func(v *validator.Validate) {
	return func(v *validator.Validate) {
		_ = v.RegisterValidation(tag, fn)
	}
}

func NewFabricValidationRules() []ValidationRule {
	return []ValidationRule{
		{
			Rule: registerFn("fabric_name", nameValidator),
		},
		{
			Rule: registerFn("uplink_speed", uplinkSpeedValidator),
		},
		{
			Rule: registerFn("platform_release", releaseValidator),
		},
	}
}
