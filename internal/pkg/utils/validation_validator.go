package utils

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("hhmm", validateClock)
	validate.RegisterValidation("weekday", validateWeekdayName)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateClock(fl validator.FieldLevel) bool {
	_, _, err := ParseClock(fl.Field().String())
	return err == nil
}

func validateWeekdayName(fl validator.FieldLevel) bool {
	switch strings.ToLower(strings.TrimSpace(fl.Field().String())) {
	case "monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday":
		return true
	}
	return false
}
