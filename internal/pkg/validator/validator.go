package validator

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/linkflow-ai/mathnodes/internal/formula"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Register custom validators
	validate.RegisterValidation("formula", validateFormula)
	validate.RegisterValidation("varname", validateVarName)
}

func Get() *validator.Validate {
	return validate
}

func Validate(s interface{}) error {
	return validate.Struct(s)
}

func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}

// Custom validators

func validateFormula(fl validator.FieldLevel) bool {
	_, err := formula.Compile(fl.Field().String())
	return err == nil
}

func validateVarName(fl validator.FieldLevel) bool {
	return formula.IsIdentifier(fl.Field().String())
}

// Error formatting
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func FormatErrors(err error) []ValidationError {
	var errors []ValidationError

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			errors = append(errors, ValidationError{
				Field:   toSnakeCase(e.Field()),
				Message: formatMessage(e),
			})
		}
	}

	return errors
}

func formatMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return "Value is too short"
	case "max":
		return "Value is too long"
	case "formula":
		return formulaMessage(e.Value())
	case "varname":
		return "Invalid variable name (use letters, digits and underscores, not starting with a digit)"
	case "uuid":
		return "Invalid UUID format"
	default:
		return "Invalid value"
	}
}

// formulaMessage recompiles the rejected value to surface the parser's reason.
func formulaMessage(value interface{}) string {
	var src string
	switch v := value.(type) {
	case string:
		src = v
	case *string:
		if v != nil {
			src = *v
		}
	}
	if _, err := formula.Compile(src); err != nil {
		return err.Error()
	}
	return "Invalid formula"
}

func toSnakeCase(str string) string {
	var result strings.Builder
	for i, r := range str {
		if i > 0 && 'A' <= r && r <= 'Z' {
			result.WriteRune('_')
		}
		result.WriteRune(r)
	}
	return strings.ToLower(result.String())
}
