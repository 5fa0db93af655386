package querysql

import (
	"errors"
	"fmt"
)

// CompileError reports a predicate tree or query that cannot be expressed
// as SQL.
type CompileError struct {
	Field   string // offending field, if any
	Message string
	Err     error
}

func (e *CompileError) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = fmt.Sprintf("field %s: %s", e.Field, msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("querysql: %s: %v", msg, e.Err)
	}
	return "querysql: " + msg
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// IsCompileError reports whether err is or wraps a *CompileError.
func IsCompileError(err error) bool {
	var ce *CompileError
	return errors.As(err, &ce)
}
