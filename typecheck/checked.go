package typecheck

import (
	"context"
	"fmt"
	"reflect"

	"github.com/amp-labs/typecheck/errors"
	"github.com/amp-labs/typecheck/signature"
)

// contextType recognizes a leading context.Context parameter on checked
// functions, so the wrapper can thread it through for tracing and error
// preferences.
var contextType = reflect.TypeOf((*context.Context)(nil)).Elem() //nolint:gochecknoglobals

// Checked returns a function value with the same dynamic type as the
// wrapped callable, for call sites that want a drop-in replacement rather
// than the Call surface. Arguments and the return value are validated on
// every invocation exactly as Call does.
//
// Error delivery follows the callable's own shape: if it has a trailing
// error result, validation failures come back through it; if it has none,
// there is no error channel and a validation failure panics with the
// ArgumentError or ReturnError. The callable's own panics propagate
// unmodified either way.
//
// When the callable's first parameter is a context.Context, the context
// supplied by the caller is also used for the validation itself (tracing,
// bare-error preference); otherwise validation runs on a background
// context.
func (f *Func) Checked() any {
	typ := f.fn.Type()

	impl := func(in []reflect.Value) []reflect.Value {
		ctx := context.Background()

		if len(in) > 0 && typ.In(0) == contextType {
			if c, ok := in[0].Interface().(context.Context); ok && c != nil {
				ctx = c
			}
		}

		args := make([]any, 0, len(in))

		for i, rv := range in {
			// MakeFunc hands the variadic tail over as one slice; Call
			// expects it flattened into positionals.
			if typ.IsVariadic() && i == len(in)-1 {
				for j := 0; j < rv.Len(); j++ {
					args = append(args, rv.Index(j).Interface())
				}

				continue
			}

			args = append(args, rv.Interface())
		}

		results, err := f.Call(ctx, args...)

		out := make([]reflect.Value, typ.NumOut())
		next := 0

		for i := 0; i < typ.NumOut(); i++ {
			if i == f.errIndex {
				out[i] = reflect.Zero(errorType)

				continue
			}

			out[i] = reflect.Zero(typ.Out(i))

			if next < len(results) {
				if rv, convErr := conform(results[next], typ.Out(i)); convErr == nil {
					out[i] = rv
				}
			}

			next++
		}

		if err != nil {
			if f.errIndex < 0 {
				// No error result to deliver through; this mirrors the
				// decorator raising at the call site.
				panic(err)
			}

			out[f.errIndex] = reflect.ValueOf(&err).Elem()
		}

		return out
	}

	return reflect.MakeFunc(typ, impl).Interface()
}

// Checked wraps fn and immediately returns the same-typed validating
// function. See Func.Checked for the error-delivery policy.
func Checked(fn any, sig *signature.Signature, opts ...Option) (any, error) {
	wrapped, err := Wrap(fn, sig, opts...)
	if err != nil {
		return nil, err
	}

	return wrapped.Checked(), nil
}

// MustChecked is Checked that panics on error, for package-level
// declarations.
func MustChecked(fn any, sig *signature.Signature, opts ...Option) any {
	checked, err := Checked(fn, sig, opts...)
	if err != nil {
		panic(err)
	}

	return checked
}

// Call1 invokes f expecting exactly one (non-error) result and asserts it
// to R. A result count or type surprise wraps errors.ErrWrongType.
func Call1[R any](ctx context.Context, f *Func, args ...any) (R, error) { //nolint:ireturn
	var zero R

	results, err := f.Call(ctx, args...)
	if err != nil {
		return zero, err
	}

	if len(results) != 1 {
		return zero, fmt.Errorf("%w: expected one result, got %d",
			errors.ErrWrongType, len(results))
	}

	typed, ok := results[0].(R)
	if !ok {
		return zero, fmt.Errorf("%w: expected result type %T, but received %T",
			errors.ErrWrongType, zero, results[0])
	}

	return typed, nil
}
