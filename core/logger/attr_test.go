package logger_test

import (
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/telemetrykit/core/logger"
)

func TestGroup(t *testing.T) {
	t.Parallel()
	attr := logger.Group("bucket", slog.String("scope", "http"), slog.Int("n", 2))
	require.Equal(t, "bucket", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "scope", g[0].Key)
	assert.Equal(t, "n", g[1].Key)
}

// ============================================================================
// Error Handling Tests
// ============================================================================

func TestErrors(t *testing.T) {
	t.Parallel()
	err1 := errors.New("first")
	err2 := errors.New("second")

	attr := logger.Errors(err1, nil, err2)
	require.Equal(t, "errors", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, err1, g[0].Value.Any())
	assert.Equal(t, err2, g[1].Value.Any())

	empty := logger.Errors(nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestError(t *testing.T) {
	t.Parallel()
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	empty := logger.Error(nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

// ============================================================================
// Performance and Timing Tests
// ============================================================================

func TestDuration(t *testing.T) {
	t.Parallel()
	d := 5 * time.Second
	attr := logger.Duration(d)
	require.Equal(t, "duration", attr.Key)
	assert.Equal(t, d, attr.Value.Duration())
}

func TestElapsed(t *testing.T) {
	t.Parallel()
	start := time.Now().Add(-500 * time.Millisecond)
	attr := logger.Elapsed(start)
	require.Equal(t, "elapsed", attr.Key)
	// Check that elapsed is at least 500ms
	assert.GreaterOrEqual(t, attr.Value.Duration(), 500*time.Millisecond)
}

// ============================================================================
// Telemetry Pipeline Tests
// ============================================================================

func TestScope(t *testing.T) {
	t.Parallel()
	attr := logger.Scope("http")
	require.Equal(t, "scope", attr.Key)
	assert.Equal(t, "http", attr.Value.String())

	empty := logger.Scope("")
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestReason(t *testing.T) {
	t.Parallel()
	attr := logger.Reason("Global rate limit exceeded")
	require.Equal(t, "reason", attr.Key)
	assert.Equal(t, "Global rate limit exceeded", attr.Value.String())

	empty := logger.Reason("")
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestEventSet(t *testing.T) {
	t.Parallel()
	attr := logger.EventSet("http_fields")
	require.Equal(t, "event_set", attr.Key)
	assert.Equal(t, "http_fields", attr.Value.String())

	empty := logger.EventSet("")
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestFile(t *testing.T) {
	t.Parallel()
	attr := logger.File("/etc/telemetry/sets/http.yaml")
	require.Equal(t, "file", attr.Key)
	assert.Equal(t, "/etc/telemetry/sets/http.yaml", attr.Value.String())

	empty := logger.File("")
	assert.True(t, empty.Equal(slog.Attr{}))
}

// ============================================================================
// Generic Metadata Tests
// ============================================================================

func TestComponent(t *testing.T) {
	t.Parallel()
	attr := logger.Component("ratelimit")
	require.Equal(t, "component", attr.Key)
	assert.Equal(t, "ratelimit", attr.Value.String())
}

func TestEvent(t *testing.T) {
	t.Parallel()
	attr := logger.Event("reload")
	require.Equal(t, "event", attr.Key)
	assert.Equal(t, "reload", attr.Value.String())
}

func TestCount(t *testing.T) {
	t.Parallel()
	attr := logger.Count("denied", 3)
	require.Equal(t, "denied", attr.Key)
	assert.Equal(t, int64(3), attr.Value.Int64())
}

func TestKey(t *testing.T) {
	t.Parallel()

	attr := logger.Key("custom", "value")
	require.Equal(t, "custom", attr.Key)
	assert.Equal(t, "value", attr.Value.Any())

	type testStruct struct {
		Name string
	}
	s := testStruct{Name: "test"}
	attr = logger.Key("data", s)
	require.Equal(t, "data", attr.Key)
	assert.Equal(t, s, attr.Value.Any())

	empty := logger.Key("key", nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

// ============================================================================
// Debugging Tests
// ============================================================================

func TestStack(t *testing.T) {
	t.Parallel()
	attr := logger.Stack()
	require.Equal(t, "stack", attr.Key)
	stack := attr.Value.String()
	// Check that stack trace contains this test function
	assert.Contains(t, stack, "TestStack")
	assert.Contains(t, stack, "attr_test.go")
}

func TestCaller(t *testing.T) {
	t.Parallel()
	attr := logger.Caller()
	require.Equal(t, "caller", attr.Key)
	caller := attr.Value.String()
	// Check that caller info contains this test file
	assert.Contains(t, caller, "attr_test.go")
	// Check that it contains a line number
	parts := strings.Split(caller, ":")
	assert.Len(t, parts, 2)
}
