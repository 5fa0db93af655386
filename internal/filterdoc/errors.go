package filterdoc

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes filter document errors.
type ErrorCode string

const (
	// ErrCodeSchemaViolation indicates the document is not valid YAML or does
	// not conform to the #Filter schema.
	ErrCodeSchemaViolation ErrorCode = "SCHEMA_VIOLATION"

	// ErrCodeUnknownEntity indicates the document targets an entity the
	// schema does not describe.
	ErrCodeUnknownEntity ErrorCode = "UNKNOWN_ENTITY"

	// ErrCodeUnknownField indicates a clause names an unregistered field.
	ErrCodeUnknownField ErrorCode = "UNKNOWN_FIELD"

	// ErrCodeUnsupportedOperator indicates an operator the field's value
	// type does not support, e.g. an ordering on an equatable-only field.
	ErrCodeUnsupportedOperator ErrorCode = "UNSUPPORTED_OPERATOR"

	// ErrCodeInvalidValue indicates a literal or parameter that does not
	// decode to the field's value type.
	ErrCodeInvalidValue ErrorCode = "INVALID_VALUE"

	// ErrCodeInvalidClause indicates a clause that mixes or lacks forms.
	ErrCodeInvalidClause ErrorCode = "INVALID_CLAUSE"
)

// BindError reports why a filter document could not be turned into an
// expression. Line is the 1-based line of the offending clause, or 0.
type BindError struct {
	Code    ErrorCode
	Field   string
	Line    int
	Message string
}

// Error implements the error interface.
func (e *BindError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Field != "" {
		msg = fmt.Sprintf("%s: field %s: %s", e.Code, e.Field, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	return msg
}

// IsBindError returns true if err is or wraps a *BindError.
func IsBindError(err error) bool {
	var be *BindError
	return errors.As(err, &be)
}

// HasCode returns true if err is or wraps a *BindError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var be *BindError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}
