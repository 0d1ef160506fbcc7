package typespec

import (
	"io"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func TestFromType_Primitives(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "int", FromType(typeOf[int]()).String())
	assert.Equal(t, "str", FromType(typeOf[string]()).String())
	assert.Equal(t, "bytes", FromType(typeOf[[]byte]()).String())
}

func TestFromType_EmptyInterfaceIsUnconstrained(t *testing.T) {
	t.Parallel()

	spec := FromType(typeOf[any]())

	assert.Equal(t, "any", spec.String())
	assert.True(t, spec.Match("anything"))
	assert.True(t, spec.Match(nil))
}

func TestFromType_NonEmptyInterface(t *testing.T) {
	t.Parallel()

	spec := FromType(typeOf[io.Closer]())

	assert.True(t, spec.Match(io.NopCloser(nil)))
	assert.False(t, spec.Match("nope"))
}

func TestFromType_Containers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "list[int]", FromType(typeOf[[]int]()).String())
	assert.Equal(t, "dict[str, int]", FromType(typeOf[map[string]int]()).String())
	assert.Equal(t, "set[str]", FromType(typeOf[map[string]struct{}]()).String())
	assert.Equal(t, "list[list[str]]", FromType(typeOf[[][]string]()).String())
}

func TestFromType_PointerIsOptional(t *testing.T) {
	t.Parallel()

	spec := FromType(typeOf[*int]())

	assert.True(t, spec.Match(nil))
	assert.True(t, spec.Match(3))
	assert.False(t, spec.Match("x"))
}

func TestFromType_UnrepresentableKindsAreUnconstrained(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "any", FromType(typeOf[chan int]()).String())
	assert.Equal(t, "any", FromType(typeOf[func()]()).String())
	assert.Equal(t, "any", FromType(nil).String())
}

func TestRepresentable(t *testing.T) {
	t.Parallel()

	assert.True(t, Representable(typeOf[int]()))
	assert.True(t, Representable(typeOf[[]byte]()))
	assert.True(t, Representable(typeOf[map[string][]int]()))

	assert.False(t, Representable(nil))
	assert.False(t, Representable(typeOf[chan int]()))
	assert.False(t, Representable(typeOf[[]func()]()))
	assert.False(t, Representable(typeOf[map[string]chan int]()))
}
