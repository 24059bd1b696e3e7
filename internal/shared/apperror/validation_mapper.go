package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

var titleCaser = cases.Title(language.English)

// base_salary -> Base Salary
func formatFieldName(s string) string {
	return titleCaser.String(strings.ReplaceAll(s, "_", " "))
}

func fieldMessage(e validator.FieldError) string {
	name := formatFieldName(e.Field())
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", name)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", name, e.Param())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", name, e.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", name, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", name)
	}
}

// MapValidationError turns binding failures into a VALIDATION_ERROR whose
// message describes the first failing field and whose details list all of them.
func MapValidationError(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		details := ""
		if err != nil {
			details = err.Error()
		}
		return New(CodeValidation, "Input tidak valid", http.StatusBadRequest).WithDetails(details)
	}

	fields := make([]FieldError, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, FieldError{
			Field:   e.Field(),
			Rule:    e.Tag(),
			Message: fieldMessage(e),
		})
	}

	first := errs[0]
	var head *AppError
	if first.Tag() == "required" {
		head = RequiredField(formatFieldName(first.Field()))
	} else {
		head = InvalidField(formatFieldName(first.Field()))
	}
	head.Code = CodeValidation
	return head.WithDetails(fields)
}
