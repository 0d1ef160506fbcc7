package typespec

import "reflect"

// FromType derives a specification from a Go type:
//
//   - the empty interface derives to Any (a Go any already admits every value)
//   - non-empty interfaces derive to a primitive matched by implementation
//   - []byte derives to Bytes
//   - slices and arrays derive to Sequence over the derived element
//   - map[K]struct{} derives to Set over the derived key; other maps derive
//     to Mapping over the derived key and value
//   - pointers derive to Optional over the derived element
//   - chan, func and unsafe.Pointer kinds cannot be usefully checked and
//     derive to Any (the permissive policy; see Representable)
//   - everything else derives to a primitive
//
// A nil type derives to Any.
func FromType(t reflect.Type) Spec {
	if t == nil {
		return Any()
	}

	switch t.Kind() { //nolint:exhaustive
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return Any()
		}

		return Type(t)

	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 && t.Kind() == reflect.Slice {
			return Bytes()
		}

		return Sequence(FromType(t.Elem()))

	case reflect.Map:
		elem := t.Elem()
		if elem.Kind() == reflect.Struct && elem.NumField() == 0 {
			return Set(FromType(t.Key()))
		}

		return Mapping(FromType(t.Key()), FromType(t.Elem()))

	case reflect.Pointer:
		return Optional(FromType(t.Elem()))

	case reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return Any()
	}

	return Type(t)
}

// Representable reports whether FromType can derive a meaningful (non-Any)
// constraint for every part of the type. Callers that derive specifications
// automatically use this to decide whether to warn about a permissive skip.
func Representable(t reflect.Type) bool {
	if t == nil {
		return false
	}

	switch t.Kind() { //nolint:exhaustive
	case reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return false

	case reflect.Slice, reflect.Array, reflect.Pointer:
		if t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 {
			return true
		}

		return Representable(t.Elem())

	case reflect.Map:
		elem := t.Elem()
		if elem.Kind() == reflect.Struct && elem.NumField() == 0 {
			return Representable(t.Key())
		}

		return Representable(t.Key()) && Representable(t.Elem())
	}

	return true
}
