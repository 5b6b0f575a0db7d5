package mockbaas

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jpalmerr/baaskit"
)

// newValidator reports fields by their JSON names and knows the "mobile"
// tag for 010-XXXX-XXXX numbers.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// registration only fails for an empty tag or nil func
	_ = v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return baaskit.ValidatePhone(fl.Field().String())
	})
	return v
}

// validationDetails converts validator errors into per-field details.
func validationDetails(errs validator.ValidationErrors) []baaskit.ValidationDetail {
	details := make([]baaskit.ValidationDetail, 0, len(errs))
	for _, e := range errs {
		details = append(details, baaskit.ValidationDetail{
			Field:  e.Field(),
			Reason: reason(e),
		})
	}
	return details
}

func reason(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + e.Param() + " characters"
	case "max":
		return "must be at most " + e.Param() + " characters"
	case "email":
		return "must be a valid email address"
	case "alphanum":
		return "must contain only letters and digits"
	case "mobile":
		return "must be in 010-XXXX-XXXX format"
	default:
		return "failed " + e.Tag() + " check"
	}
}
