package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// report json names so errors match what the client sent
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// ValidateRequest validates the request body against a struct with validation tags
func ValidateRequest(v interface{}) error {
	return validate.Struct(v)
}

// DecodeAndValidate decodes JSON request body and validates it
func DecodeAndValidate(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &DecodeError{Err: err}
	}
	return ValidateRequest(v)
}

// DecodeError marks a body that could not be decoded as JSON into the target
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return "invalid request body: " + e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }

// ValidationError represents a field validation error
type ValidationError struct {
	Loc     []string `json:"loc"`
	Field   string   `json:"field"`
	Message string   `json:"message"`
	Type    string   `json:"type"`
}

// FormatValidationErrors converts decode and validator errors to a readable format
func FormatValidationErrors(err error) []ValidationError {
	var errs []ValidationError

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			errs = append(errs, ValidationError{
				Loc:     []string{"body", e.Field()},
				Field:   e.Field(),
				Message: getErrorMessage(e),
				Type:    e.Tag(),
			})
		}
		return errs
	}

	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		return errs
	}

	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(decodeErr.Err, &typeErr):
		errs = append(errs, ValidationError{
			Loc:     []string{"body", typeErr.Field},
			Field:   typeErr.Field,
			Message: fmt.Sprintf("Expected %s, got %s", typeErr.Type.String(), typeErr.Value),
			Type:    "type_error",
		})
	case errors.As(decodeErr.Err, &syntaxErr):
		errs = append(errs, ValidationError{
			Loc:     []string{"body"},
			Field:   "body",
			Message: fmt.Sprintf("Invalid JSON at offset %d", syntaxErr.Offset),
			Type:    "json_invalid",
		})
	case errors.Is(decodeErr.Err, io.EOF):
		errs = append(errs, ValidationError{
			Loc:     []string{"body"},
			Field:   "body",
			Message: "Request body is required",
			Type:    "missing",
		})
	default:
		errs = append(errs, ValidationError{
			Loc:     []string{"body"},
			Field:   "body",
			Message: "Invalid JSON body",
			Type:    "json_invalid",
		})
	}

	return errs
}

// IntURLParam reads a chi path parameter as an integer
func IntURLParam(r *http.Request, name string) (int64, *ValidationError) {
	raw := chi.URLParam(r, name)
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &ValidationError{
			Loc:     []string{"path", name},
			Field:   name,
			Message: "Value must be a valid integer",
			Type:    "int_parsing",
		}
	}
	return value, nil
}

// NonNegativeIntURLParam is IntURLParam restricted to values >= 0
func NonNegativeIntURLParam(r *http.Request, name string) (int64, *ValidationError) {
	value, verr := IntURLParam(r, name)
	if verr != nil {
		return 0, verr
	}
	if value < 0 {
		return 0, &ValidationError{
			Loc:     []string{"path", name},
			Field:   name,
			Message: "Value must be greater than or equal to 0",
			Type:    "gte",
		}
	}
	return value, nil
}

func getErrorMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return "Value is too short"
	case "max":
		return "Value is too long"
	case "gte":
		return "Value must be greater than or equal to " + e.Param()
	case "lte":
		return "Value must be less than or equal to " + e.Param()
	case "gt":
		return "Value must be greater than " + e.Param()
	case "lt":
		return "Value must be less than " + e.Param()
	default:
		return "Invalid value"
	}
}
