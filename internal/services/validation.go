package services

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const MsgAllFieldsRequired = "All fields are required"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report json field names instead of Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateRequest runs the struct's validate tags. Any missing mandatory
// field yields "All fields are required"; other violations name the field.
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return validationError("%s", err.Error())
	}

	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			return validationError(MsgAllFieldsRequired)
		}
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "gt":
		return validationError("%s must be greater than %s", fe.Field(), fe.Param())
	default:
		return validationError("%s is invalid", fe.Field())
	}
}
