package signature

import (
	"fmt"

	"github.com/amp-labs/typecheck/errors"
)

// Bind maps actual arguments onto the formal parameters, using the same
// rules the callable itself would: positional arguments fill parameters in
// declaration order, keyword arguments fill by name, defaults cover
// omitted parameters, and the variadic parameter (if any) collects the
// positional overflow as a []any.
//
// The result has exactly Arity() entries, one per formal parameter in
// declaration order. The variadic slot always holds a []any, possibly
// empty.
//
// Binding failures wrap errors.ErrBinding: too many positional arguments,
// an unknown keyword, a parameter supplied both positionally and by
// keyword, a variadic parameter addressed by keyword, or a required
// parameter left unfilled.
func (s *Signature) Bind(args []any, kwargs map[string]any) ([]any, error) {
	bound := make([]any, len(s.params))
	filled := make([]bool, len(s.params))

	positional := len(s.params)
	if s.HasVariadic() {
		positional--
	}

	// Positional fill, overflow into the variadic slot.
	if len(args) > positional {
		if !s.HasVariadic() {
			return nil, fmt.Errorf("%w: takes %d positional arguments but %d were given",
				errors.ErrBinding, positional, len(args))
		}

		rest := make([]any, len(args)-positional)
		copy(rest, args[positional:])

		bound[positional] = rest
		filled[positional] = true
	}

	for i, arg := range args[:min(len(args), positional)] {
		bound[i] = arg
		filled[i] = true
	}

	// Keyword fill by name.
	for name, value := range kwargs {
		idx := s.index(name)
		if idx < 0 {
			return nil, fmt.Errorf("%w: unexpected keyword argument %q", errors.ErrBinding, name)
		}

		if s.params[idx].Variadic {
			return nil, fmt.Errorf("%w: variadic parameter %q cannot be passed by keyword",
				errors.ErrBinding, name)
		}

		if filled[idx] {
			return nil, fmt.Errorf("%w: multiple values for argument %q", errors.ErrBinding, name)
		}

		bound[idx] = value
		filled[idx] = true
	}

	// Defaults, then the empty variadic slot; anything still unfilled is a
	// missing required argument.
	for i, p := range s.params {
		if filled[i] {
			continue
		}

		if def, ok := p.Default.Get(); ok {
			bound[i] = def

			continue
		}

		if p.Variadic {
			bound[i] = []any{}

			continue
		}

		return nil, fmt.Errorf("%w: missing required argument %q", errors.ErrBinding, p.Name)
	}

	return bound, nil
}

// index returns the position of the named parameter, or -1.
func (s *Signature) index(name string) int {
	for i, p := range s.params {
		if p.Name == name {
			return i
		}
	}

	return -1
}
