// Package typespec models type specifications: structural descriptions of
// the values a parameter or return slot is allowed to carry. A specification
// is one of a closed set of kinds - primitive, sequence, set, tuple, mapping,
// union, null, or unconstrained - and matching a value against one is a
// recursive structural walk.
//
// Specifications are immutable once constructed and safe to share between
// goroutines. They are built three ways: directly through the constructors
// in this package, parsed from an annotation expression such as "list[int]"
// or "int | str" (see Parse), or derived from a reflect.Type (see FromType).
package typespec

import (
	"fmt"
	"reflect"

	"github.com/amp-labs/typecheck/utils"
)

// Spec is a type specification. The set of implementations is closed; use
// the package constructors to obtain one.
type Spec interface {
	// Match reports whether the value conforms to this specification.
	Match(value any) bool

	// String renders the specification in annotation-expression form,
	// e.g. "list[int]" or "dict[str, int]". The rendering is what error
	// messages display as the expected shape.
	String() string

	// explain is the recursive matcher. It returns nil on conformance, or
	// a Mismatch locating the first offending element. Evaluation is
	// fail-fast: the walk stops at the first mismatch.
	explain(value any, path string) *Mismatch
}

// Mismatch describes the first point at which a value failed to conform to
// a specification: the element path (empty for a top-level failure), the
// offending value, and the innermost specification it failed.
type Mismatch struct {
	Path     string
	Value    any
	Expected Spec
}

// Explain matches value against spec, returning nil on success or the first
// mismatch found. Match is equivalent to Explain(...) == nil; Explain exists
// for callers that need to report where the failure happened.
func Explain(spec Spec, value any) *Mismatch {
	return spec.explain(value, "")
}

// Surface names for the builtin primitive types, shared between String
// rendering and the annotation parser.
var surfaceNames = map[reflect.Type]string{ //nolint:gochecknoglobals
	reflect.TypeOf(int(0)):      "int",
	reflect.TypeOf(int64(0)):    "int64",
	reflect.TypeOf(float64(0)):  "float",
	reflect.TypeOf(""):          "str",
	reflect.TypeOf(false):       "bool",
	reflect.TypeOf([]byte(nil)): "bytes",
}

// Primitive kind: a concrete Go type.

type primitiveSpec struct {
	typ reflect.Type
}

// Type creates a specification matching values of the given reflect.Type.
// For interface types, a value matches if its dynamic type implements the
// interface; otherwise the value's runtime type must be identical to (or
// assignable to) the declared type.
func Type(t reflect.Type) Spec {
	return primitiveSpec{typ: t}
}

// Of creates a specification for the Go type T. Of[io.Reader]() matches any
// value implementing io.Reader; Of[int]() matches exactly int.
func Of[T any]() Spec {
	return Type(reflect.TypeOf((*T)(nil)).Elem())
}

// Int matches exactly the Go int type. A bool never satisfies an integer
// specification, and integer widths never widen silently: int32 does not
// satisfy Int64 and vice versa. This is the strict numeric policy, pinned
// here once and applied uniformly.
func Int() Spec { return Type(reflect.TypeOf(int(0))) }

// Int64 matches exactly int64. See Int for the numeric policy.
func Int64() Spec { return Type(reflect.TypeOf(int64(0))) }

// Float64 matches exactly float64. An int does not satisfy Float64.
func Float64() Spec { return Type(reflect.TypeOf(float64(0))) }

// String matches exactly the Go string type.
func String() Spec { return Type(reflect.TypeOf("")) }

// Bool matches exactly bool.
func Bool() Spec { return Type(reflect.TypeOf(false)) }

// Bytes matches []byte.
func Bytes() Spec { return Type(reflect.TypeOf([]byte(nil))) }

func (s primitiveSpec) Match(value any) bool {
	return s.explain(value, "") == nil
}

func (s primitiveSpec) String() string {
	if name, ok := surfaceNames[s.typ]; ok {
		return name
	}

	return s.typ.String()
}

func (s primitiveSpec) explain(value any, path string) *Mismatch {
	if value == nil {
		return &Mismatch{Path: path, Value: value, Expected: s}
	}

	actual := reflect.TypeOf(value)

	if actual == s.typ || actual.AssignableTo(s.typ) {
		return nil
	}

	return &Mismatch{Path: path, Value: value, Expected: s}
}

// Sequence kind: ordered, homogeneous, any length.

type sequenceSpec struct {
	elem Spec
}

// Sequence creates a specification matching slices and arrays whose every
// element matches elem. An empty sequence matches vacuously.
func Sequence(elem Spec) Spec {
	return sequenceSpec{elem: elem}
}

func (s sequenceSpec) Match(value any) bool {
	return s.explain(value, "") == nil
}

func (s sequenceSpec) String() string {
	return fmt.Sprintf("list[%s]", s.elem)
}

func (s sequenceSpec) explain(value any, path string) *Mismatch {
	val, ok := sequenceValue(value)
	if !ok {
		return &Mismatch{Path: path, Value: value, Expected: s}
	}

	for i := 0; i < val.Len(); i++ {
		elemPath := fmt.Sprintf("%s[%d]", path, i)
		if m := s.elem.explain(val.Index(i).Interface(), elemPath); m != nil {
			return m
		}
	}

	return nil
}

// sequenceValue returns the reflect.Value of a slice or array, or ok=false
// for anything else (including strings, which are deliberately not treated
// as sequences of bytes).
func sequenceValue(value any) (reflect.Value, bool) {
	if value == nil {
		return reflect.Value{}, false
	}

	val := reflect.ValueOf(value)

	switch val.Kind() { //nolint:exhaustive
	case reflect.Slice, reflect.Array:
		return val, true
	}

	return reflect.Value{}, false
}

// Set kind: unordered, homogeneous, no duplicates. Go has no set type, so a
// Set specification matches the map-backed conventions: map[K]struct{} and
// map[K]bool.

type setSpec struct {
	elem Spec
}

// Set creates a specification matching set-shaped maps (struct{} or bool
// values) whose every key matches elem. An empty set matches vacuously.
func Set(elem Spec) Spec {
	return setSpec{elem: elem}
}

func (s setSpec) Match(value any) bool {
	return s.explain(value, "") == nil
}

func (s setSpec) String() string {
	return fmt.Sprintf("set[%s]", s.elem)
}

func (s setSpec) explain(value any, path string) *Mismatch {
	if value == nil {
		return &Mismatch{Path: path, Value: value, Expected: s}
	}

	val := reflect.ValueOf(value)

	if val.Kind() != reflect.Map || !setShaped(val.Type()) {
		return &Mismatch{Path: path, Value: value, Expected: s}
	}

	for _, key := range val.MapKeys() {
		elemPath := fmt.Sprintf("%s[%s]", path, formatKey(key.Interface()))
		if m := s.elem.explain(key.Interface(), elemPath); m != nil {
			return m
		}
	}

	return nil
}

// setShaped reports whether a map type follows a set convention.
func setShaped(t reflect.Type) bool {
	elem := t.Elem()

	if elem.Kind() == reflect.Bool {
		return true
	}

	return elem.Kind() == reflect.Struct && elem.NumField() == 0
}

// Tuple kind: fixed arity, heterogeneous positions.

type tupleSpec struct {
	elems []Spec
}

// Tuple creates a specification matching slices and arrays of exactly
// len(elems) elements, where position i matches elems[i].
func Tuple(elems ...Spec) Spec {
	return tupleSpec{elems: elems}
}

func (s tupleSpec) Match(value any) bool {
	return s.explain(value, "") == nil
}

func (s tupleSpec) String() string {
	out := "tuple["
	for i, e := range s.elems {
		if i > 0 {
			out += ", "
		}

		out += e.String()
	}

	return out + "]"
}

func (s tupleSpec) explain(value any, path string) *Mismatch {
	val, ok := sequenceValue(value)
	if !ok || val.Len() != len(s.elems) {
		return &Mismatch{Path: path, Value: value, Expected: s}
	}

	for i, elem := range s.elems {
		elemPath := fmt.Sprintf("%s[%d]", path, i)
		if m := elem.explain(val.Index(i).Interface(), elemPath); m != nil {
			return m
		}
	}

	return nil
}

// VariadicTuple is the tuple[T, ...] form: any length, every position
// matching the single element specification. It differs from Sequence only
// in rendering; the original annotation surface distinguishes the two.

type variadicTupleSpec struct {
	elem Spec
}

// VariadicTuple creates a specification matching slices and arrays of any
// length whose every element matches elem.
func VariadicTuple(elem Spec) Spec {
	return variadicTupleSpec{elem: elem}
}

func (s variadicTupleSpec) Match(value any) bool {
	return s.explain(value, "") == nil
}

func (s variadicTupleSpec) String() string {
	return fmt.Sprintf("tuple[%s, ...]", s.elem)
}

func (s variadicTupleSpec) explain(value any, path string) *Mismatch {
	val, ok := sequenceValue(value)
	if !ok {
		return &Mismatch{Path: path, Value: value, Expected: s}
	}

	for i := 0; i < val.Len(); i++ {
		elemPath := fmt.Sprintf("%s[%d]", path, i)
		if m := s.elem.explain(val.Index(i).Interface(), elemPath); m != nil {
			return m
		}
	}

	return nil
}

// Mapping kind: keys and values each carry their own specification.

type mappingSpec struct {
	key   Spec
	value Spec
}

// Mapping creates a specification matching maps whose every key matches key
// and every value matches value. An empty map matches vacuously.
func Mapping(key, value Spec) Spec {
	return mappingSpec{key: key, value: value}
}

func (s mappingSpec) Match(value any) bool {
	return s.explain(value, "") == nil
}

func (s mappingSpec) String() string {
	return fmt.Sprintf("dict[%s, %s]", s.key, s.value)
}

func (s mappingSpec) explain(value any, path string) *Mismatch {
	if value == nil {
		return &Mismatch{Path: path, Value: value, Expected: s}
	}

	val := reflect.ValueOf(value)

	if val.Kind() != reflect.Map {
		return &Mismatch{Path: path, Value: value, Expected: s}
	}

	iter := val.MapRange()
	for iter.Next() {
		key := iter.Key().Interface()

		keyPath := fmt.Sprintf("%s[key %s]", path, formatKey(key))
		if m := s.key.explain(key, keyPath); m != nil {
			return m
		}

		valPath := fmt.Sprintf("%s[%s]", path, formatKey(key))
		if m := s.value.explain(iter.Value().Interface(), valPath); m != nil {
			return m
		}
	}

	return nil
}

// formatKey renders a map key for mismatch paths; strings are quoted so the
// path stays readable when keys contain brackets or spaces.
func formatKey(key any) string {
	if s, ok := key.(string); ok {
		return fmt.Sprintf("%q", s)
	}

	return fmt.Sprintf("%v", key)
}

// Union kind: alternatives evaluated in declaration order.

type unionSpec struct {
	alts []Spec
}

// Union creates a specification matching values that match at least one of
// the alternatives. Alternatives are tried in declaration order with
// short-circuit on the first match; order affects only cost, never the
// verdict.
func Union(alts ...Spec) Spec {
	return unionSpec{alts: alts}
}

// Optional is the T-or-nothing special case: Union(spec, Null()).
func Optional(spec Spec) Spec {
	return Union(spec, Null())
}

func (s unionSpec) Match(value any) bool {
	return s.explain(value, "") == nil
}

func (s unionSpec) String() string {
	out := ""
	for i, alt := range s.alts {
		if i > 0 {
			out += " | "
		}

		out += alt.String()
	}

	return out
}

func (s unionSpec) explain(value any, path string) *Mismatch {
	for _, alt := range s.alts {
		if alt.explain(value, path) == nil {
			return nil
		}
	}

	// No alternative matched; the expected shape is the union itself, not
	// whichever alternative happened to be tried last.
	return &Mismatch{Path: path, Value: value, Expected: s}
}

// Null kind: matches nil and nil-ish values.

type nullSpec struct{}

// Null creates a specification matching nil, including typed nils (nil
// pointers, slices, maps).
func Null() Spec {
	return nullSpec{}
}

func (s nullSpec) Match(value any) bool {
	return s.explain(value, "") == nil
}

func (s nullSpec) String() string {
	return "None"
}

func (s nullSpec) explain(value any, path string) *Mismatch {
	if utils.IsNilish(value) {
		return nil
	}

	return &Mismatch{Path: path, Value: value, Expected: s}
}

// Unconstrained kind: always matches.

type anySpec struct{}

// Any creates the unconstrained specification. It matches every value and
// never reports a mismatch; parameters without a declared specification
// behave as if annotated with it.
func Any() Spec {
	return anySpec{}
}

func (s anySpec) Match(_ any) bool {
	return true
}

func (s anySpec) String() string {
	return "any"
}

func (s anySpec) explain(_ any, _ string) *Mismatch {
	return nil
}
