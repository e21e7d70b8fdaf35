package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/telemetrykit/core/logger"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("defaults to text at info level", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf))

		log.Debug("hidden")
		log.Info("visible")

		out := buf.String()
		assert.NotContains(t, out, "hidden")
		assert.Contains(t, out, "msg=visible")
	})

	t.Run("json formatter emits one object per record", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(
			logger.WithJSONFormatter(),
			logger.WithOutput(&buf),
		)

		log.Info("event throttled", logger.Scope("http"))

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "event throttled", record["msg"])
		assert.Equal(t, "http", record["scope"])
	})

	t.Run("level option filters records", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(
			logger.WithLevel(slog.LevelWarn),
			logger.WithOutput(&buf),
		)

		log.Info("dropped")
		log.Warn("kept")

		assert.NotContains(t, buf.String(), "dropped")
		assert.Contains(t, buf.String(), "kept")
	})

	t.Run("attrs appear on every record", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(
			logger.WithJSONFormatter(),
			logger.WithOutput(&buf),
			logger.WithAttr(slog.String("service", "ingest")),
		)

		log.Info("first")
		log.Info("second")

		for line := range bytes.Lines(buf.Bytes()) {
			var record map[string]any
			require.NoError(t, json.Unmarshal(line, &record))
			assert.Equal(t, "ingest", record["service"])
		}
	})

	t.Run("nil option values keep defaults", func(t *testing.T) {
		log := logger.New(
			logger.WithLevel(nil),
			logger.WithOutput(nil),
		)
		require.NotNil(t, log)
		assert.False(t, log.Enabled(t.Context(), slog.LevelDebug))
		assert.True(t, log.Enabled(t.Context(), slog.LevelInfo))
	})
}

func TestEnvironmentPresets(t *testing.T) {
	t.Parallel()

	t.Run("development enables debug and tags the app", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(
			logger.WithDevelopment("telemetry"),
			logger.WithOutput(&buf), // override stdout for capture
		)

		log.Debug("verbose")

		out := buf.String()
		assert.Contains(t, out, "msg=verbose")
		assert.Contains(t, out, "app=telemetry")
		assert.Contains(t, out, "env=development")
	})

	t.Run("production uses json at info level", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(
			logger.WithProduction("telemetry"),
			logger.WithOutput(&buf),
		)

		log.Debug("hidden")
		log.Info("shipped")

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "shipped", record["msg"])
		assert.Equal(t, "telemetry", record["app"])
		assert.Equal(t, "production", record["env"])
	})

	t.Run("staging uses json at info level", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(
			logger.WithStaging("telemetry"),
			logger.WithOutput(&buf),
		)

		log.Info("staged")

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "staging", record["env"])
	})
}

func TestSetAsDefault(t *testing.T) {
	// Mutates the process-wide default logger; not parallel.
	previous := slog.Default()
	defer slog.SetDefault(previous)

	var buf bytes.Buffer
	log := logger.New(
		logger.WithJSONFormatter(),
		logger.WithOutput(&buf),
	)
	logger.SetAsDefault(log)

	slog.Info("via default", logger.Component("pipeline"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "via default", record["msg"])
	assert.Equal(t, "pipeline", record["component"])

	// A nil logger must not clobber the installed default.
	logger.SetAsDefault(nil)
	assert.Equal(t, log, slog.Default())
}
