// Package signature models the declared shape of a callable: its named
// parameters (each optionally carrying a type specification and a default
// value) and its return specification. A Signature is the explicit Go
// substitute for reading annotations off the callable itself; it is built
// once at decoration time, validated then, and read-only afterwards.
package signature

import (
	"fmt"
	"strings"

	"github.com/amp-labs/typecheck/errors"
	"github.com/amp-labs/typecheck/optional"
	"github.com/amp-labs/typecheck/typespec"
)

// Parameter is one formal parameter of a signature. A nil Spec means the
// parameter is unconstrained: it binds normally but is never checked. A
// variadic parameter collects the positional overflow; its Spec, when
// present, constrains each collected element.
type Parameter struct {
	Name     string
	Spec     typespec.Spec
	Default  optional.Value[any]
	Variadic bool
}

// Signature is an ordered list of parameters plus an optional return
// specification. Immutable after Build; safe to share between goroutines.
type Signature struct {
	params []Parameter
	ret    typespec.Spec
}

// Parameters returns the formal parameters in declaration order. The slice
// is a copy; mutating it does not affect the signature.
func (s *Signature) Parameters() []Parameter {
	out := make([]Parameter, len(s.params))
	copy(out, s.params)

	return out
}

// Return returns the declared return specification, or nil if the return
// value is unconstrained.
func (s *Signature) Return() typespec.Spec {
	return s.ret
}

// HasVariadic reports whether the last parameter is variadic.
func (s *Signature) HasVariadic() bool {
	n := len(s.params)

	return n > 0 && s.params[n-1].Variadic
}

// Arity returns the number of formal parameters, the variadic one included.
func (s *Signature) Arity() int {
	return len(s.params)
}

// String renders the signature as "(name: str, n: int = 3, *rest: int) -> str".
// Unconstrained slots render as "any"; an unconstrained return is omitted.
func (s *Signature) String() string {
	var sb strings.Builder

	sb.WriteByte('(')

	for i, p := range s.params {
		if i > 0 {
			sb.WriteString(", ")
		}

		if p.Variadic {
			sb.WriteByte('*')
		}

		sb.WriteString(p.Name)
		sb.WriteString(": ")
		sb.WriteString(specName(p.Spec))

		if def, ok := p.Default.Get(); ok {
			fmt.Fprintf(&sb, " = %v", def)
		}
	}

	sb.WriteByte(')')

	if s.ret != nil {
		sb.WriteString(" -> ")
		sb.WriteString(s.ret.String())
	}

	return sb.String()
}

func specName(spec typespec.Spec) string {
	if spec == nil {
		return "any"
	}

	return spec.String()
}

// Builder assembles a Signature. Methods chain; definition problems are
// collected and reported together by Build rather than failing one at a
// time.
type Builder struct {
	params []Parameter
	ret    typespec.Spec
}

// New creates an empty signature builder.
func New() *Builder {
	return &Builder{}
}

// Param declares a required parameter. A nil spec leaves it unconstrained.
func (b *Builder) Param(name string, spec typespec.Spec) *Builder {
	b.params = append(b.params, Parameter{Name: name, Spec: spec})

	return b
}

// ParamDefault declares a parameter with a default value, applied when the
// caller omits it. The default itself is not type-checked at definition
// time; it is checked like any other bound value on each call.
func (b *Builder) ParamDefault(name string, spec typespec.Spec, def any) *Builder {
	b.params = append(b.params, Parameter{
		Name:    name,
		Spec:    spec,
		Default: optional.Some(def),
	})

	return b
}

// Variadic declares the trailing variadic parameter, which collects any
// positional overflow. When spec is non-nil, each collected element is
// checked against it.
func (b *Builder) Variadic(name string, spec typespec.Spec) *Builder {
	b.params = append(b.params, Parameter{Name: name, Spec: spec, Variadic: true})

	return b
}

// Returns declares the return specification.
func (b *Builder) Returns(spec typespec.Spec) *Builder {
	b.ret = spec

	return b
}

// Build validates the definition and returns the signature. All definition
// problems are reported at once (wrapping errors.ErrInvalidSignature):
// empty or duplicate parameter names, a required parameter following a
// defaulted one, a variadic parameter anywhere but last, and a variadic
// parameter with a default.
func (b *Builder) Build() (*Signature, error) {
	var errs errors.Collection

	seen := make(map[string]bool, len(b.params))
	sawDefault := false

	for i, p := range b.params {
		if p.Name == "" {
			errs.Add(fmt.Errorf("%w: parameter %d has no name", errors.ErrInvalidSignature, i))
		}

		if seen[p.Name] {
			errs.Add(fmt.Errorf("%w: duplicate parameter %q", errors.ErrInvalidSignature, p.Name))
		}

		seen[p.Name] = true

		if p.Variadic {
			if i != len(b.params)-1 {
				errs.Add(fmt.Errorf("%w: variadic parameter %q must be last",
					errors.ErrInvalidSignature, p.Name))
			}

			if p.Default.NonEmpty() {
				errs.Add(fmt.Errorf("%w: variadic parameter %q cannot have a default",
					errors.ErrInvalidSignature, p.Name))
			}

			continue
		}

		if p.Default.NonEmpty() {
			sawDefault = true
		} else if sawDefault {
			errs.Add(fmt.Errorf("%w: required parameter %q follows a defaulted parameter",
				errors.ErrInvalidSignature, p.Name))
		}
	}

	if errs.HasError() {
		return nil, errs.GetError()
	}

	params := make([]Parameter, len(b.params))
	copy(params, b.params)

	return &Signature{params: params, ret: b.ret}, nil
}

// MustBuild is Build that panics on error, for package-level declarations.
func (b *Builder) MustBuild() *Signature {
	sig, err := b.Build()
	if err != nil {
		panic(err)
	}

	return sig
}
