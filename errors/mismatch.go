package errors

import (
	"fmt"
	"reflect"
)

// ArgumentError reports a single argument that failed its type check.
// It carries everything needed to diagnose the mismatch without a debugger:
// the parameter name, the expected specification rendered for humans, the
// actual runtime type, the offending value, and - for container mismatches -
// the path of the first offending element (for example "[1]" or ["key"]).
type ArgumentError struct {
	Param    string
	Expected string
	Actual   reflect.Type
	Value    any
	Path     string
}

// Error implements the error interface.
func (e *ArgumentError) Error() string {
	where := fmt.Sprintf("argument %q", e.Param)
	if e.Path != "" {
		where += e.Path
	}

	return fmt.Sprintf("%s expected %s, got %s with value=%v",
		where, e.Expected, typeName(e.Actual), e.Value)
}

// Unwrap makes errors.Is(err, ErrArgumentType) work.
func (e *ArgumentError) Unwrap() error {
	return ErrArgumentType
}

// ReturnError reports a return value that failed its type check. It is a
// distinct kind from ArgumentError so callers can tell whether the wrapped
// callable ran (it did: return checking happens after delegation).
type ReturnError struct {
	Expected string
	Actual   reflect.Type
	Value    any
	Path     string
}

// Error implements the error interface.
func (e *ReturnError) Error() string {
	where := "return value"
	if e.Path != "" {
		where += e.Path
	}

	return fmt.Sprintf("%s expected %s, got %s with value=%v",
		where, e.Expected, typeName(e.Actual), e.Value)
}

// Unwrap makes errors.Is(err, ErrReturnType) work.
func (e *ReturnError) Unwrap() error {
	return ErrReturnType
}

// typeName renders a reflect.Type for error messages. A nil type means the
// value itself was an untyped nil.
func typeName(t reflect.Type) string {
	if t == nil {
		return "nil"
	}

	return t.String()
}
