// Package typecheck wraps callables with call-time signature validation.
// Wrap pairs a Go function with a declared signature (see the signature and
// typespec packages) and returns a Func that binds arguments, checks them
// against their specifications, delegates to the original callable, and
// checks the returned value - failing fast with a distinguishable error at
// the first mismatch.
//
// The validator is a read-only inspection layer: it holds no mutable state
// between calls (the per-Func counters are observability only), performs no
// I/O, and adds no coordination, so a wrapped callable is as safe to call
// concurrently as the original.
//
// Example:
//
//	greet, err := typecheck.Wrap(
//	    func(name any) any { return "Hello " + name.(string) },
//	    signature.New().
//	        Param("name", typespec.String()).
//	        Returns(typespec.String()).
//	        MustBuild(),
//	    typecheck.WithName("greet"))
//	if err != nil {
//	    ...
//	}
//
//	out, err := greet.Call(ctx, "Alice") // out[0] == "Hello Alice"
//	_, err = greet.Call(ctx, 123)       // errors.Is(err, errors.ErrArgumentType)
package typecheck

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/atomic"

	"github.com/amp-labs/typecheck/errors"
	"github.com/amp-labs/typecheck/lazy"
	"github.com/amp-labs/typecheck/logger"
	"github.com/amp-labs/typecheck/signature"
	"github.com/amp-labs/typecheck/typespec"
	"github.com/amp-labs/typecheck/utils"
)

// errorType is the reflect.Type of the error interface, used to recognize a
// callable's own error result.
var errorType = reflect.TypeOf((*error)(nil)).Elem() //nolint:gochecknoglobals

// Func is a wrapped callable. It exposes the wrapped target's metadata
// (name, doc, signature) so the wrapper is as introspectable as the
// original, and performs validation on every Call.
//
// A Func is immutable after Wrap and safe for concurrent use.
type Func struct {
	fn     reflect.Value
	target any
	name   string
	doc    string

	// sig is lazily derived from the function's reflect.Type when Wrap
	// received no explicit signature; explicit signatures resolve
	// immediately.
	sig *lazy.Of[*signature.Signature]

	errIndex int // index of the trailing error result, or -1

	calls        atomic.Uint64
	bindFails    atomic.Uint64
	argFails     atomic.Uint64
	returnFails  atomic.Uint64
	warnedDerive atomic.Bool
}

// Option customizes a Func at decoration time.
type Option func(*Func)

// WithName overrides the name reported by Name(). Without it the name is
// derived from the function symbol via the runtime.
func WithName(name string) Option {
	return func(f *Func) {
		f.name = name
	}
}

// WithDoc attaches a documentation string, retrievable via Doc(). Go has no
// docstring on function values, so the wrapper carries it explicitly.
func WithDoc(doc string) Option {
	return func(f *Func) {
		f.doc = doc
	}
}

// Wrap pairs fn with a declared signature and returns the validating
// wrapper. fn must be a non-nil function value whose parameter count and
// variadic-ness match the signature; mismatched shapes fail here, at
// decoration time, wrapping errors.ErrInvalidSignature.
//
// A nil sig is allowed: the signature is then derived from fn's own
// reflect.Type on first call, so every statically typed parameter gets the
// matching specification and interface-typed parameters are unconstrained.
// Absent specs and an absent return spec never error; they simply mean no
// check (the unconstrained policy).
func Wrap(fn any, sig *signature.Signature, opts ...Option) (*Func, error) {
	if utils.IsNilish(fn) {
		return nil, fmt.Errorf("%w: cannot wrap nil", errors.ErrWrongType)
	}

	val := reflect.ValueOf(fn)
	if val.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: cannot wrap %T, expected a function", errors.ErrWrongType, fn)
	}

	typ := val.Type()

	if sig != nil {
		if sig.Arity() != typ.NumIn() {
			return nil, fmt.Errorf("%w: signature declares %d parameters, function takes %d",
				errors.ErrInvalidSignature, sig.Arity(), typ.NumIn())
		}

		if sig.HasVariadic() != typ.IsVariadic() {
			return nil, fmt.Errorf("%w: signature and function disagree on variadic-ness",
				errors.ErrInvalidSignature)
		}
	}

	f := &Func{
		fn:       val,
		target:   fn,
		name:     utils.GetShortFunctionName(fn),
		errIndex: trailingErrorIndex(typ),
	}

	if sig != nil {
		resolved := sig
		f.sig = lazy.New(func() *signature.Signature { return resolved })
	} else {
		f.sig = lazy.New(func() *signature.Signature { return f.derive(typ) })
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

// MustWrap is Wrap that panics on error, for package-level declarations.
func MustWrap(fn any, sig *signature.Signature, opts ...Option) *Func {
	f, err := Wrap(fn, sig, opts...)
	if err != nil {
		panic(err)
	}

	return f
}

// Name returns the wrapped callable's name: the WithName override if given,
// otherwise the function symbol name.
func (f *Func) Name() string {
	return f.name
}

// Doc returns the documentation string attached via WithDoc, or "".
func (f *Func) Doc() string {
	return f.doc
}

// Signature returns the declared (or derived) signature.
func (f *Func) Signature() *signature.Signature {
	return f.sig.Get()
}

// Unwrap returns the original callable, unvalidated. Wrapping it again
// yields an independent Func with the same verdicts.
func (f *Func) Unwrap() any {
	return f.target
}

// String renders the wrapper as "name(param: spec, ...) -> spec".
func (f *Func) String() string {
	return f.name + f.sig.Get().String()
}

// Call invokes the wrapped callable with positional arguments, validating
// on the way in and out. It returns the callable's results (the trailing
// error result excluded - that error, if any, is returned as err and never
// type-checked).
//
// The per-call lifecycle is: bind, check arguments in declaration order
// (fail-fast), delegate, check the return value. An error from the callable
// itself propagates unmodified and skips the return check. A return
// mismatch is reported after the callable has run; any side effects it had
// are not rolled back.
func (f *Func) Call(ctx context.Context, args ...any) ([]any, error) {
	return f.CallKeyword(ctx, args, nil)
}

// CallKeyword is Call with keyword arguments: positional arguments fill
// parameters in order, kwargs fill by name, and declared defaults cover the
// rest. See signature.Bind for the binding rules.
func (f *Func) CallKeyword(ctx context.Context, args []any, kwargs map[string]any) ([]any, error) {
	f.calls.Inc()

	ctx, span := startCallSpan(ctx, f.name)
	defer span.End()

	start := time.Now()
	sig := f.sig.Get()

	bound, err := sig.Bind(args, kwargs)
	if err != nil {
		f.bindFails.Inc()
		observe(outcomeBindError, time.Since(start))
		span.SetStatus(codes.Error, err.Error())

		return nil, f.decorate(ctx, err)
	}

	if err := f.checkArguments(sig, bound); err != nil {
		f.argFails.Inc()
		observe(outcomeArgumentMismatch, time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return nil, f.decorate(ctx, err)
	}

	// The histogram measures validation overhead only, so the callable's
	// own runtime is excluded from every observation below.
	checking := time.Since(start)

	results, callErr := f.invoke(ctx, sig, bound)
	if callErr != nil {
		// An unconstrained parameter can still carry a value the function's
		// static Go type refuses; that is an argument failure, not the
		// callable failing.
		if _, ok := callErr.(*errors.ArgumentError); ok { //nolint:errorlint
			f.argFails.Inc()
			observe(outcomeArgumentMismatch, time.Since(start))
			span.RecordError(callErr)
			span.SetStatus(codes.Error, callErr.Error())

			return nil, f.decorate(ctx, callErr)
		}

		// The callable's own error: propagated unmodified, never wrapped,
		// and the return check does not run.
		observe(outcomeCallError, checking)

		return results, callErr
	}

	retStart := time.Now()

	if err := f.checkReturn(sig, results); err != nil {
		f.returnFails.Inc()
		observe(outcomeReturnMismatch, checking+time.Since(retStart))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return nil, f.decorate(ctx, err)
	}

	observe(outcomeOk, checking+time.Since(retStart))
	span.SetAttributes(attribute.Bool("typecheck.ok", true))

	return results, nil
}

// checkArguments validates each bound value against its parameter's
// specification, in declaration order, stopping at the first mismatch.
// Unconstrained parameters are skipped; a variadic parameter's
// specification applies to each collected element.
func (f *Func) checkArguments(sig *signature.Signature, bound []any) error {
	for i, p := range sig.Parameters() {
		if p.Spec == nil {
			continue
		}

		if p.Variadic {
			rest, _ := bound[i].([]any)

			for j, elem := range rest {
				if m := typespec.Explain(p.Spec, elem); m != nil {
					return argumentError(p.Name, fmt.Sprintf("[%d]%s", j, m.Path), m)
				}
			}

			continue
		}

		if m := typespec.Explain(p.Spec, bound[i]); m != nil {
			return argumentError(p.Name, m.Path, m)
		}
	}

	return nil
}

func argumentError(param, path string, m *typespec.Mismatch) error {
	return &errors.ArgumentError{
		Param:    param,
		Expected: m.Expected.String(),
		Actual:   reflect.TypeOf(m.Value),
		Value:    m.Value,
		Path:     path,
	}
}

// invoke delegates to the wrapped callable. Values that Go itself cannot
// pass (an unconstrained parameter given a value the function's static type
// rejects) surface as an ArgumentError naming the Go type rather than a
// reflect panic. The callable's panics propagate unmodified.
func (f *Func) invoke(_ context.Context, sig *signature.Signature, bound []any) ([]any, error) {
	typ := f.fn.Type()
	params := sig.Parameters()

	in := make([]reflect.Value, 0, len(bound))

	for i, value := range bound {
		if typ.IsVariadic() && i == typ.NumIn()-1 {
			elemType := typ.In(i).Elem()

			rest, _ := value.([]any)
			for j, elem := range rest {
				rv, err := conform(elem, elemType)
				if err != nil {
					return nil, &errors.ArgumentError{
						Param:    params[i].Name,
						Expected: elemType.String(),
						Actual:   reflect.TypeOf(elem),
						Value:    elem,
						Path:     fmt.Sprintf("[%d]", j),
					}
				}

				in = append(in, rv)
			}

			break
		}

		rv, err := conform(value, typ.In(i))
		if err != nil {
			return nil, &errors.ArgumentError{
				Param:    params[i].Name,
				Expected: typ.In(i).String(),
				Actual:   reflect.TypeOf(value),
				Value:    value,
			}
		}

		in = append(in, rv)
	}

	out := f.fn.Call(in)

	results := make([]any, 0, len(out))

	var callErr error

	for i, rv := range out {
		if i == f.errIndex {
			if !rv.IsNil() {
				callErr, _ = rv.Interface().(error)
			}

			continue
		}

		results = append(results, rv.Interface())
	}

	return results, callErr
}

// conform produces a reflect.Value of exactly the target type, or an error
// if the value cannot be passed as that type.
func conform(value any, target reflect.Type) (reflect.Value, error) {
	if value == nil {
		switch target.Kind() { //nolint:exhaustive
		case reflect.Interface, reflect.Pointer, reflect.Map,
			reflect.Slice, reflect.Chan, reflect.Func:
			return reflect.Zero(target), nil
		}

		return reflect.Value{}, fmt.Errorf("%w: nil is not a %s", errors.ErrWrongType, target)
	}

	rv := reflect.ValueOf(value)

	if rv.Type() == target {
		return rv, nil
	}

	if rv.Type().AssignableTo(target) {
		converted := reflect.New(target).Elem()
		converted.Set(rv)

		return converted, nil
	}

	return reflect.Value{}, fmt.Errorf("%w: %s is not assignable to %s",
		errors.ErrWrongType, rv.Type(), target)
}

// checkReturn validates the callable's results against the declared return
// specification: one result is checked directly, several as a fixed tuple,
// and none as nil (so a "None" return spec is satisfiable).
func (f *Func) checkReturn(sig *signature.Signature, results []any) error {
	spec := sig.Return()
	if spec == nil {
		return nil
	}

	var value any

	switch len(results) {
	case 0:
		value = nil
	case 1:
		value = results[0]
	default:
		value = results
	}

	if m := typespec.Explain(spec, value); m != nil {
		return &errors.ReturnError{
			Expected: m.Expected.String(),
			Actual:   reflect.TypeOf(m.Value),
			Value:    m.Value,
			Path:     m.Path,
		}
	}

	return nil
}

// decorate prefixes a validation error with the callable's name, unless the
// caller asked for bare errors via WithBareErrors.
func (f *Func) decorate(ctx context.Context, err error) error {
	if WantBareErrors(ctx) {
		return err
	}

	return fmt.Errorf("%s: %w", f.name, err)
}

// derive builds a signature from the function's own reflect.Type, for Funcs
// wrapped without an explicit one. Parameters are named arg0..argN.
// Unrepresentable parameter types (chan, func) derive to the unconstrained
// spec; the permissive skip is logged once per Func.
func (f *Func) derive(typ reflect.Type) *signature.Signature {
	b := signature.New()

	for i := 0; i < typ.NumIn(); i++ {
		name := fmt.Sprintf("arg%d", i)
		in := typ.In(i)

		if typ.IsVariadic() && i == typ.NumIn()-1 {
			b.Variadic(name, typespec.FromType(in.Elem()))

			continue
		}

		if !typespec.Representable(in) && f.warnedDerive.CompareAndSwap(false, true) {
			logger.Get().Warn("parameter type cannot be checked, treating as unconstrained",
				"func", f.name, "param", name, "type", in.String())
		}

		b.Param(name, typespec.FromType(in))
	}

	b.Returns(f.deriveReturn(typ))

	// Derivation cannot produce definition errors: names are unique by
	// construction and there are no defaults.
	return b.MustBuild()
}

func (f *Func) deriveReturn(typ reflect.Type) typespec.Spec {
	var outs []typespec.Spec

	for i := 0; i < typ.NumOut(); i++ {
		if i == f.errIndex {
			continue
		}

		outs = append(outs, typespec.FromType(typ.Out(i)))
	}

	switch len(outs) {
	case 0:
		return nil
	case 1:
		return outs[0]
	default:
		return typespec.Tuple(outs...)
	}
}

// trailingErrorIndex returns the index of the last result if it is the
// error interface, or -1. Only the exact interface counts: a concrete
// result type that happens to implement error is an ordinary value, and
// treating it as the error channel would mean calling IsNil on a
// non-nilable kind.
func trailingErrorIndex(typ reflect.Type) int {
	n := typ.NumOut()
	if n == 0 {
		return -1
	}

	if typ.Out(n-1) == errorType {
		return n - 1
	}

	return -1
}

// Stats is a point-in-time snapshot of a Func's counters.
type Stats struct {
	Calls            uint64
	BindFailures     uint64
	ArgumentFailures uint64
	ReturnFailures   uint64
}

// Stats returns the Func's call counters. The counters are observability
// only; validation verdicts never depend on them.
func (f *Func) Stats() Stats {
	return Stats{
		Calls:            f.calls.Load(),
		BindFailures:     f.bindFails.Load(),
		ArgumentFailures: f.argFails.Load(),
		ReturnFailures:   f.returnFails.Load(),
	}
}
