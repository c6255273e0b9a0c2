// Package validators holds the request validation middleware. Each handler
// parses the body into the struct the controller expects, runs the validate
// tags and stashes the result in Locals for the controller to pick up.
package validators

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Check runs the validate tags of v and flattens the failures into a
// field -> message map suitable for a 422 response. Nil means valid.
func Check(v any) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	errs := make(map[string]string)
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		errs["body"] = "Invalid request body!"
		return errs
	}

	for _, fe := range err.(validator.ValidationErrors) {
		errs[strings.ToLower(fe.Field())] = message(fe)
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required!"
	case "email":
		return "Invalid email!"
	case "min":
		return "Must be at least " + fe.Param() + "!"
	case "max":
		return "Must be at most " + fe.Param() + "!"
	case "oneof":
		return "Must be one of: " + fe.Param() + "!"
	default:
		return "Invalid value!"
	}
}
