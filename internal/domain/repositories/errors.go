package repositories

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// SupportSuffix is appended to every remote store failure shown to users.
const SupportSuffix = "Please contact support at support@casedesk.sa if the problem persists."

var (
	// ErrNotFound is returned by update/delete when the target row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrTransform is returned when a row written by create/update cannot be
	// mapped back into its domain shape.
	ErrTransform = errors.New("failed to transform stored record")
)

// StoreError wraps a remote store failure with a human-readable operation
// description and the support suffix.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("failed to %s: %v. %s", e.Op, e.Err, SupportSuffix)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// WrapStoreError is used by resource clients for any store error other than not-found.
func WrapStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

// ValidationError is raised by client-side pre-checks before any store call.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError with a plain message.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var validate = validator.New()

// Validate runs struct tag validation and converts failures into a ValidationError.
func Validate(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{Message: err.Error()}
	}

	fields := make(map[string]string, len(fieldErrs))
	names := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		name := toSnakeCase(fe.Field())
		fields[name] = formatFieldError(name, fe)
		names = append(names, fields[name])
	}

	return &ValidationError{
		Message: "validation failed: " + strings.Join(names, "; "),
		Fields:  fields,
	}
}

func formatFieldError(name string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", name)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", name)
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", name, fe.Tag())
	}
}

func toSnakeCase(field string) string {
	var b strings.Builder
	var prev rune
	for i, r := range field {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && ((prev >= 'a' && prev <= 'z') || (prev >= '0' && prev <= '9')) {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
		} else {
			b.WriteRune(r)
		}
		prev = r
	}
	return b.String()
}
