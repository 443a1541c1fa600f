package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	fabricNameValidRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]{1,64}$`)
	uplinkSpeedRegex     = regexp.MustCompile(`^\d+G$`)
	releaseRegex         = regexp.MustCompile(`^\d+\.\d+$`)
)

func nameValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return fabricNameValidRegex.MatchString(val)
}

func uplinkSpeedValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return uplinkSpeedRegex.MatchString(val)
}

func releaseValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return releaseRegex.MatchString(val)
}
