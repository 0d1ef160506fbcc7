package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureLoggingWithOptions_TextOutput(t *testing.T) {
	var buf bytes.Buffer

	log := ConfigureLoggingWithOptions(Options{
		Subsystem: "typecheck-test",
		MinLevel:  slog.LevelInfo,
		Output:    &buf,
	})
	require.NotNil(t, log)

	log.Info("hello", "key", "value")
	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), "key=value")
}

func TestConfigureLoggingWithOptions_JSONOutput(t *testing.T) {
	var buf bytes.Buffer

	log := ConfigureLoggingWithOptions(Options{
		Subsystem: "typecheck-test",
		JSON:      true,
		MinLevel:  slog.LevelInfo,
		Output:    &buf,
	})

	log.Info("structured")
	assert.Contains(t, buf.String(), `"msg":"structured"`)
}

func TestGet_AttachesSubsystemAndPod(t *testing.T) {
	var buf bytes.Buffer

	ConfigureLoggingWithOptions(Options{
		Subsystem: "typecheck-test",
		MinLevel:  slog.LevelInfo,
		Output:    &buf,
	})

	Get(context.Background()).Info("tagged")
	assert.Contains(t, buf.String(), "subsystem=typecheck-test")
	assert.Contains(t, buf.String(), "pod=")
}

func TestGet_NilContextIsSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		Get().Debug("no context at all")
		Get(nil).Debug("explicit nil")
	})
}

func TestWithMuted_SuppressesOutput(t *testing.T) {
	var buf bytes.Buffer

	ConfigureLoggingWithOptions(Options{
		Subsystem: "typecheck-test",
		MinLevel:  slog.LevelDebug,
		Output:    &buf,
	})

	ctx := WithMuted(context.Background(), true)
	Get(ctx).Error("should never appear")
	assert.Empty(t, buf.String())

	// Unmuting restores output.
	ctx = WithMuted(ctx, false)
	Get(ctx).Error("should appear")
	assert.Contains(t, buf.String(), "should appear")
}

func TestWith_ContextCarriedValues(t *testing.T) {
	var buf bytes.Buffer

	ConfigureLoggingWithOptions(Options{
		Subsystem: "typecheck-test",
		MinLevel:  slog.LevelInfo,
		Output:    &buf,
	})

	ctx := With(context.Background(), "func", "greet", "phase", "arguments")
	Get(ctx).Info("validated")

	assert.Contains(t, buf.String(), "func=greet")
	assert.Contains(t, buf.String(), "phase=arguments")
}

func TestWithSubsystem_OverridesDefault(t *testing.T) {
	var buf bytes.Buffer

	ConfigureLoggingWithOptions(Options{
		Subsystem: "default-sub",
		MinLevel:  slog.LevelInfo,
		Output:    &buf,
	})

	ctx := WithSubsystem(context.Background(), "override-sub")
	Get(ctx).Info("scoped")
	assert.Contains(t, buf.String(), "subsystem=override-sub")

	assert.Equal(t, "default-sub", GetSubsystem(context.Background()))
}

func TestGet_WorksWithTestLogger(t *testing.T) {
	// slogt routes records through t.Log, so per-test log output stays
	// attached to the test that produced it.
	slog.SetDefault(slogt.New(t))

	assert.NotPanics(t, func() {
		Get(context.Background()).Info("visible in test output only")
	})
}
