package signature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonErrors "github.com/amp-labs/typecheck/errors"
	"github.com/amp-labs/typecheck/optional"
	"github.com/amp-labs/typecheck/typespec"
)

func TestBuild_Valid(t *testing.T) {
	t.Parallel()

	sig, err := New().
		Param("name", typespec.String()).
		ParamDefault("count", typespec.Int(), 1).
		Variadic("tags", typespec.String()).
		Returns(typespec.String()).
		Build()
	require.NoError(t, err)

	assert.Equal(t, 3, sig.Arity())
	assert.True(t, sig.HasVariadic())
	require.NotNil(t, sig.Return())
	assert.Equal(t, "str", sig.Return().String())
}

func TestBuild_UnconstrainedParameters(t *testing.T) {
	t.Parallel()

	sig, err := New().Param("anything", nil).Build()
	require.NoError(t, err)

	assert.Nil(t, sig.Parameters()[0].Spec)
	assert.Nil(t, sig.Return())
}

func TestBuild_CollectsAllDefinitionErrors(t *testing.T) {
	t.Parallel()

	_, err := New().
		Param("", typespec.Int()).
		Param("x", typespec.Int()).
		ParamDefault("x", typespec.Int(), 0).
		Param("y", typespec.Int()).
		Build()
	require.Error(t, err)
	require.ErrorIs(t, err, commonErrors.ErrInvalidSignature)

	// One pass reports every problem: the unnamed parameter, the duplicate
	// name, and the required parameter after a defaulted one.
	assert.Contains(t, err.Error(), "has no name")
	assert.Contains(t, err.Error(), `duplicate parameter "x"`)
	assert.Contains(t, err.Error(), `required parameter "y" follows`)
}

func TestBuild_VariadicMustBeLast(t *testing.T) {
	t.Parallel()

	_, err := New().
		Variadic("rest", nil).
		Param("after", typespec.Int()).
		Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, commonErrors.ErrInvalidSignature)
	assert.Contains(t, err.Error(), "must be last")
}

func TestBuild_VariadicCannotHaveDefault(t *testing.T) {
	t.Parallel()

	b := New()
	b.params = append(b.params, Parameter{
		Name:     "rest",
		Variadic: true,
		Default:  optional.Some[any](0),
	})

	_, err := b.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot have a default")
}

func TestMustBuild_PanicsOnError(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		New().Param("x", nil).Param("x", nil).MustBuild()
	})
}

func TestParameters_ReturnsACopy(t *testing.T) {
	t.Parallel()

	sig := New().Param("a", typespec.Int()).MustBuild()

	params := sig.Parameters()
	params[0].Name = "mutated"

	assert.Equal(t, "a", sig.Parameters()[0].Name)
}

func TestString_Rendering(t *testing.T) {
	t.Parallel()

	sig := New().
		Param("name", typespec.String()).
		ParamDefault("count", typespec.Int(), 3).
		Variadic("tags", typespec.String()).
		Returns(typespec.String()).
		MustBuild()

	assert.Equal(t, "(name: str, count: int = 3, *tags: str) -> str", sig.String())
}

func TestString_OmitsUnconstrainedReturn(t *testing.T) {
	t.Parallel()

	sig := New().Param("x", nil).MustBuild()

	assert.Equal(t, "(x: any)", sig.String())
}
