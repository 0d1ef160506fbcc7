// Package tests provides utilities for managing test context with unique
// identifiers and test metadata. Tests that exercise context-aware behavior
// (logger attributes, validation preference flags) use GetUniqueContext to
// obtain a context tagged with the test's name and a unique ID, making log
// output from parallel tests attributable.
package tests

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/amp-labs/typecheck/contexts"
)

// contextKey is a private type used for storing test metadata in context.Context.
// Using a custom type instead of string prevents collisions with other packages
// that might use the same key names.
type contextKey string

const (
	// testIdKey is the context key for storing the unique test identifier.
	testIdKey contextKey = "testId"

	// testNameKey is the context key for storing the test name.
	testNameKey contextKey = "testName"
)

// Info holds the metadata attached to a test context.
type Info struct {
	Id   string
	Name string
}

// GetUniqueContext creates a new context derived from t.Context() that includes
// a unique test identifier (UUID with "test-" prefix) and the test name from
// t.Name().
func GetUniqueContext(t *testing.T) context.Context {
	t.Helper()

	baseCtx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	ctx := contexts.WithValue(baseCtx, testIdKey, "test-"+uuid.NewString())

	return contexts.WithValue(ctx, testNameKey, t.Name())
}

// GetTestInfo returns the test metadata stored in the context, if any.
func GetTestInfo(ctx context.Context) (Info, bool) {
	id, okId := contexts.GetValue[contextKey, string](ctx, testIdKey)
	name, okName := contexts.GetValue[contextKey, string](ctx, testNameKey)

	if !okId || !okName {
		return Info{}, false
	}

	return Info{Id: id, Name: name}, true
}
