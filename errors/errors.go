package errors

import "errors"

var (
	// ErrArgumentType indicates that a supplied argument did not match the
	// parameter's declared type specification.
	ErrArgumentType = errors.New("argument type mismatch")

	// ErrReturnType indicates that a returned value did not match the
	// declared return type specification. The wrapped callable has already
	// run when this is raised; its side effects are not rolled back.
	ErrReturnType = errors.New("return type mismatch")

	// ErrBinding indicates that the supplied arguments could not be mapped
	// onto the callable's formal parameters (unknown keyword, duplicate,
	// missing required, too many positional).
	ErrBinding = errors.New("argument binding failed")

	// ErrInvalidSignature indicates that a signature definition is
	// malformed (duplicate parameter names, defaults before required
	// parameters, and so on). Raised at decoration time, never at call time.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrUnsupportedAnnotation indicates that an annotation expression
	// could not be parsed into a type specification.
	ErrUnsupportedAnnotation = errors.New("unsupported annotation")

	// ErrWrongType indicates a value of an unusable kind at the wrapper
	// boundary: wrapping a non-function, or asserting a checked result to
	// the wrong Go type.
	ErrWrongType = errors.New("wrong type")
)

// Collection is a thread-unsafe utility for accumulating multiple errors.
// Signature construction uses it to report every definition problem at once
// instead of stopping at the first; call-time checking never does (checks
// are fail-fast).
type Collection struct {
	errors []error
}

// Add appends an error to the collection. Nil errors are automatically ignored.
func (c *Collection) Add(err error) {
	if err != nil {
		c.errors = append(c.errors, err)
	}
}

// Clear removes all errors from the collection, resetting it to an empty state.
func (c *Collection) Clear() {
	c.errors = nil
}

// HasError returns true if the collection contains at least one error.
func (c *Collection) HasError() bool {
	return len(c.errors) > 0
}

// GetError returns the collected errors as a single error.
// Returns nil if the collection is empty, the single error if there's only one,
// or a joined error (using errors.Join) if there are multiple errors.
func (c *Collection) GetError() error {
	switch len(c.errors) {
	case 0:
		return nil
	case 1:
		return c.errors[0]
	default:
		return errors.Join(c.errors...)
	}
}
