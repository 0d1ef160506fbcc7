package typespec

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimitive_ExactType(t *testing.T) {
	t.Parallel()

	assert.True(t, Int().Match(42))
	assert.True(t, String().Match("hello"))
	assert.True(t, Float64().Match(3.14))
	assert.True(t, Bool().Match(true))
	assert.True(t, Bytes().Match([]byte("raw")))

	assert.False(t, Int().Match("42"))
	assert.False(t, String().Match(42))
	assert.False(t, Float64().Match(3))
}

func TestPrimitive_BoolNeverSatisfiesInt(t *testing.T) {
	t.Parallel()

	// The pinned numeric policy: booleans are not integers.
	assert.False(t, Int().Match(true))
	assert.False(t, Int().Match(false))
	assert.True(t, Bool().Match(true))
}

func TestPrimitive_NoNumericWidening(t *testing.T) {
	t.Parallel()

	assert.False(t, Int64().Match(int(7)))
	assert.False(t, Int().Match(int64(7)))
	assert.False(t, Float64().Match(float32(1.5)))
}

func TestPrimitive_NamedTypesDoNotWiden(t *testing.T) {
	t.Parallel()

	type myInt int

	assert.False(t, Int().Match(myInt(3)))
	assert.True(t, Of[myInt]().Match(myInt(3)))
}

func TestPrimitive_InterfaceMatchedByImplementation(t *testing.T) {
	t.Parallel()

	spec := Of[io.Reader]()

	assert.True(t, spec.Match(strings.NewReader("x")))
	assert.False(t, spec.Match("not a reader"))
}

func TestPrimitive_NilNeverMatches(t *testing.T) {
	t.Parallel()

	assert.False(t, Int().Match(nil))
	assert.False(t, String().Match(nil))
}

func TestSequence_AllElementsChecked(t *testing.T) {
	t.Parallel()

	spec := Sequence(Int())

	assert.True(t, spec.Match([]any{1, 2, 3}))
	assert.True(t, spec.Match([]int{1, 2, 3}))
	assert.False(t, spec.Match([]any{1, "2", 3}))
	assert.False(t, spec.Match("not a list"))
	assert.False(t, spec.Match(nil))
}

func TestSequence_EmptyIsVacuouslyValid(t *testing.T) {
	t.Parallel()

	assert.True(t, Sequence(Int()).Match([]any{}))
	assert.True(t, Sequence(Int()).Match([]string{}))
}

func TestSequence_StringIsNotASequence(t *testing.T) {
	t.Parallel()

	assert.False(t, Sequence(Any()).Match("abc"))
}

func TestSet_MapBackedShapes(t *testing.T) {
	t.Parallel()

	spec := Set(String())

	assert.True(t, spec.Match(map[string]struct{}{"x": {}, "y": {}}))
	assert.True(t, spec.Match(map[string]bool{"x": true}))
	assert.True(t, spec.Match(map[string]struct{}{}))

	assert.False(t, spec.Match(map[int]struct{}{1: {}}))
	assert.False(t, spec.Match(map[string]int{"x": 1}))
	assert.False(t, spec.Match([]string{"x"}))
}

func TestTuple_FixedArity(t *testing.T) {
	t.Parallel()

	spec := Tuple(Int(), String())

	assert.True(t, spec.Match([]any{1, "a"}))
	assert.False(t, spec.Match([]any{1}))
	assert.False(t, spec.Match([]any{1, "a", 2}))
	assert.False(t, spec.Match([]any{"a", 1}))
}

func TestVariadicTuple_AnyLength(t *testing.T) {
	t.Parallel()

	spec := VariadicTuple(Int())

	assert.True(t, spec.Match([]any{}))
	assert.True(t, spec.Match([]any{1}))
	assert.True(t, spec.Match([]any{1, 2, 3, 4}))
	assert.False(t, spec.Match([]any{1, "2"}))
}

func TestMapping_KeysAndValuesChecked(t *testing.T) {
	t.Parallel()

	spec := Mapping(String(), Int())

	assert.True(t, spec.Match(map[string]int{"a": 1}))
	assert.True(t, spec.Match(map[string]any{"a": 1}))
	assert.False(t, spec.Match(map[string]any{"a": "1"}))
	assert.False(t, spec.Match(map[int]int{1: 1}))
	assert.False(t, spec.Match("not a map"))
}

func TestMapping_EmptyIsVacuouslyValid(t *testing.T) {
	t.Parallel()

	assert.True(t, Mapping(String(), Int()).Match(map[string]int{}))
	assert.True(t, Mapping(String(), Int()).Match(map[any]any{}))
}

func TestUnion_AnyAlternativeMatches(t *testing.T) {
	t.Parallel()

	spec := Union(Int(), String())

	assert.True(t, spec.Match(1))
	assert.True(t, spec.Match("one"))
	assert.False(t, spec.Match(3.14))
	assert.False(t, spec.Match(nil))
}

func TestOptional_NilAndTypedNilsMatch(t *testing.T) {
	t.Parallel()

	spec := Optional(Int())

	assert.True(t, spec.Match(3))
	assert.True(t, spec.Match(nil))
	assert.True(t, spec.Match((*int)(nil)))
	assert.False(t, spec.Match("three"))
}

func TestAny_MatchesEverything(t *testing.T) {
	t.Parallel()

	assert.True(t, Any().Match(nil))
	assert.True(t, Any().Match(42))
	assert.True(t, Any().Match(struct{ X int }{1}))
}

func TestNested_RecursiveMatching(t *testing.T) {
	t.Parallel()

	spec := Mapping(String(), Sequence(Union(Int(), Null())))

	assert.True(t, spec.Match(map[string][]any{"a": {1, nil, 2}}))
	assert.False(t, spec.Match(map[string][]any{"a": {1, "x"}}))
}

func TestExplain_ReportsFirstOffendingElement(t *testing.T) {
	t.Parallel()

	m := Explain(Sequence(Int()), []any{1, "2", 3})
	require.NotNil(t, m)
	assert.Equal(t, "[1]", m.Path)
	assert.Equal(t, "2", m.Value)
	assert.Equal(t, "int", m.Expected.String())
}

func TestExplain_MappingPaths(t *testing.T) {
	t.Parallel()

	m := Explain(Mapping(String(), Int()), map[string]any{"count": "ten"})
	require.NotNil(t, m)
	assert.Equal(t, `["count"]`, m.Path)
	assert.Equal(t, "ten", m.Value)

	m = Explain(Mapping(String(), Int()), map[any]any{7: 1})
	require.NotNil(t, m)
	assert.Equal(t, "[key 7]", m.Path)
	assert.Equal(t, 7, m.Value)
}

func TestExplain_UnionReportsWholeUnion(t *testing.T) {
	t.Parallel()

	m := Explain(Union(Int(), String()), 3.14)
	require.NotNil(t, m)
	assert.Equal(t, "int | str", m.Expected.String())
	assert.Empty(t, m.Path)
}

func TestExplain_NilOnSuccess(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Explain(Int(), 1))
	assert.Nil(t, Explain(Any(), nil))
}

func TestString_Renderings(t *testing.T) {
	t.Parallel()

	cases := map[string]Spec{
		"int":                  Int(),
		"str":                  String(),
		"float":                Float64(),
		"bytes":                Bytes(),
		"list[int]":            Sequence(Int()),
		"set[str]":             Set(String()),
		"dict[str, int]":       Mapping(String(), Int()),
		"tuple[int, str]":      Tuple(Int(), String()),
		"tuple[int, ...]":      VariadicTuple(Int()),
		"int | str":            Union(Int(), String()),
		"int | None":           Optional(Int()),
		"list[dict[str, int]]": Sequence(Mapping(String(), Int())),
		"any":                  Any(),
		"None":                 Null(),
	}

	for want, spec := range cases {
		assert.Equal(t, want, spec.String())
	}
}

func TestString_CustomTypeUsesGoName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "io.Reader", Of[io.Reader]().String())
}
