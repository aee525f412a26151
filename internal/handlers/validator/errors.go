package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ErrValidation struct {
	error
	Fields []string
}

func newErrValidation(err error) *ErrValidation {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ErrValidation{error: err}
	}

	fields := make([]string, 0, len(fieldErrs))
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field())
		messages = append(messages, fieldMessage(fe))
	}
	return &ErrValidation{
		error:  errors.New(strings.Join(messages, "; ")),
		Fields: fields,
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "project_name":
		return fmt.Sprintf("%s contains invalid characters", fe.Field())
	case "equipment_id":
		return fmt.Sprintf("%s %q must start with a letter or digit and contain only letters, digits, '.', '_' or '-'", fe.Field(), fe.Value())
	default:
		return fmt.Sprintf("invalid %s: %v", fe.Field(), fe.Value())
	}
}
