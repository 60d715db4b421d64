package myvalidation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/MarcGrol/libraryshop/lib/myerrors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json names so hints match what the client sent
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// Validate returns an invalid-input error listing every violated field
func Validate(value any) error {
	err := validate.Struct(value)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return myerrors.NewInvalidInputError(err)
	}

	return myerrors.NewInvalidInputError(fmt.Errorf("%s", strings.Join(Hints(validationErrors), ", ")))
}

func Hints(errs validator.ValidationErrors) []string {
	hints := []string{}
	for _, err := range errs {
		field := fieldPath(err)
		switch err.ActualTag() {
		case "required":
			hints = append(hints, fmt.Sprintf("field %s is a required field", field))
		case "email":
			hints = append(hints, fmt.Sprintf("field %s is not a valid email", field))
		case "min":
			hints = append(hints, fmt.Sprintf("field %s must have at least %s entries", field, err.Param()))
		case "gt", "gte":
			hints = append(hints, fmt.Sprintf("field %s must be %s %s", field, map[string]string{"gt": "greater than", "gte": "at least"}[err.ActualTag()], err.Param()))
		default:
			hints = append(hints, fmt.Sprintf("field %s is not valid", field))
		}
	}
	return hints
}

// fieldPath drops the top-level struct name: "checkoutRequest.customer.email" -> "customer.email"
func fieldPath(err validator.FieldError) string {
	parts := strings.SplitN(err.Namespace(), ".", 2)
	if len(parts) == 2 {
		return parts[1]
	}
	return err.Field()
}
