package routecalc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/andrescamacho/neutron-assistant-go/internal/domain/shared"
)

var validate = validator.New()

// validateRequest checks struct tags and reports the first failing field as a
// *shared.ValidationError
func validateRequest(request interface{}) error {
	err := validate.Struct(request)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return err
	}
	return formatValidationError(validationErrors[0])
}

func formatValidationError(fe validator.FieldError) *shared.ValidationError {
	field := strings.ToLower(fe.Field())

	switch fe.Tag() {
	case "required":
		return shared.NewValidationError(field, "is required")
	case "min":
		return shared.NewValidationError(field, fmt.Sprintf("must be at least %s", fe.Param()))
	case "max":
		return shared.NewValidationError(field, fmt.Sprintf("must be at most %s", fe.Param()))
	case "gt":
		return shared.NewValidationError(field, fmt.Sprintf("must be greater than %s", fe.Param()))
	case "gte":
		return shared.NewValidationError(field, fmt.Sprintf("must be %s or more", fe.Param()))
	case "lte":
		return shared.NewValidationError(field, fmt.Sprintf("must be %s or less", fe.Param()))
	default:
		return shared.NewValidationError(field, fmt.Sprintf("failed %s validation", fe.Tag()))
	}
}
