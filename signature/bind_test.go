package signature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonErrors "github.com/amp-labs/typecheck/errors"
	"github.com/amp-labs/typecheck/typespec"
)

func threeParams(t *testing.T) *Signature {
	t.Helper()

	return New().
		Param("a", typespec.Int()).
		Param("b", typespec.String()).
		ParamDefault("c", typespec.Int(), 9).
		MustBuild()
}

func TestBind_Positional(t *testing.T) {
	t.Parallel()

	bound, err := threeParams(t).Bind([]any{1, "x", 2}, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{1, "x", 2}, bound)
}

func TestBind_DefaultsApplied(t *testing.T) {
	t.Parallel()

	bound, err := threeParams(t).Bind([]any{1, "x"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{1, "x", 9}, bound)
}

func TestBind_Keywords(t *testing.T) {
	t.Parallel()

	bound, err := threeParams(t).Bind(nil, map[string]any{"a": 1, "b": "x", "c": 2})
	require.NoError(t, err)
	assert.Equal(t, []any{1, "x", 2}, bound)
}

func TestBind_MixedPositionalAndKeyword(t *testing.T) {
	t.Parallel()

	bound, err := threeParams(t).Bind([]any{1}, map[string]any{"b": "x"})
	require.NoError(t, err)
	assert.Equal(t, []any{1, "x", 9}, bound)
}

func TestBind_TooManyPositional(t *testing.T) {
	t.Parallel()

	_, err := threeParams(t).Bind([]any{1, "x", 2, 3}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, commonErrors.ErrBinding)
	assert.Contains(t, err.Error(), "takes 3 positional arguments but 4 were given")
}

func TestBind_UnknownKeyword(t *testing.T) {
	t.Parallel()

	_, err := threeParams(t).Bind(nil, map[string]any{"nope": 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, commonErrors.ErrBinding)
	assert.Contains(t, err.Error(), `unexpected keyword argument "nope"`)
}

func TestBind_DuplicateValue(t *testing.T) {
	t.Parallel()

	_, err := threeParams(t).Bind([]any{1}, map[string]any{"a": 2, "b": "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, commonErrors.ErrBinding)
	assert.Contains(t, err.Error(), `multiple values for argument "a"`)
}

func TestBind_MissingRequired(t *testing.T) {
	t.Parallel()

	_, err := threeParams(t).Bind([]any{1}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, commonErrors.ErrBinding)
	assert.Contains(t, err.Error(), `missing required argument "b"`)
}

func TestBind_VariadicCollectsOverflow(t *testing.T) {
	t.Parallel()

	sig := New().
		Param("first", typespec.Int()).
		Variadic("rest", typespec.Int()).
		MustBuild()

	bound, err := sig.Bind([]any{1, 2, 3, 4}, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{1, []any{2, 3, 4}}, bound)
}

func TestBind_VariadicEmptyWhenNoOverflow(t *testing.T) {
	t.Parallel()

	sig := New().
		Param("first", typespec.Int()).
		Variadic("rest", nil).
		MustBuild()

	bound, err := sig.Bind([]any{1}, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{1, []any{}}, bound)
}

func TestBind_VariadicNotAddressableByKeyword(t *testing.T) {
	t.Parallel()

	sig := New().Variadic("rest", nil).MustBuild()

	_, err := sig.Bind(nil, map[string]any{"rest": []any{1}})
	require.Error(t, err)
	assert.ErrorIs(t, err, commonErrors.ErrBinding)
	assert.Contains(t, err.Error(), "cannot be passed by keyword")
}

func TestBind_NoArgumentsNoParameters(t *testing.T) {
	t.Parallel()

	sig := New().MustBuild()

	bound, err := sig.Bind(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, bound)
}
