package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkstar12/newstoss/pkg/logger"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("creates JSON logger by default", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf))
		log.Info("hello")

		entry := decode(t, buf)
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "hello", entry["msg"])
	})

	t.Run("text format", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithFormat(logger.FormatText))
		log.Info("hello")
		assert.Contains(t, buf.String(), "level=INFO")
	})

	t.Run("static attributes", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithAttr(slog.String("svc", "test")))
		log.Info("msg")
		assert.Equal(t, "test", decode(t, buf)["svc"])
	})

	t.Run("context extractors", func(t *testing.T) {
		t.Parallel()
		type key string
		buf := &bytes.Buffer{}
		log := logger.New(
			logger.WithOutput(buf),
			logger.WithContextExtractors(nil, func(ctx context.Context) (slog.Attr, bool) {
				if v, ok := ctx.Value(key("cycle")).(string); ok {
					return slog.String("cycle", v), true
				}
				return slog.Attr{}, false
			}),
		)
		ctx := context.WithValue(context.Background(), key("cycle"), "42")
		log.InfoContext(ctx, "tick")
		assert.Equal(t, "42", decode(t, buf)["cycle"])
	})

	t.Run("level name filters records", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithLevelName("warn"))
		log.Info("dropped")
		assert.Empty(t, buf.String())
		log.Warn("kept")
		assert.Equal(t, "kept", decode(t, buf)["msg"])
	})

	t.Run("unknown level name is ignored", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithLevelName("loud"))
		log.Info("kept")
		assert.Equal(t, "kept", decode(t, buf)["msg"])
	})
}

func TestWithEnvironment(t *testing.T) {
	t.Parallel()

	t.Run("production is json at info", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithEnvironment("prod", "worker"))
		log.Debug("hidden")
		assert.Empty(t, buf.String())
		log.Info("shown")
		entry := decode(t, buf)
		assert.Equal(t, "worker", entry["service"])
		assert.Equal(t, logger.EnvProduction, entry["env"])
	})

	t.Run("unknown environment falls back to development", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithEnvironment("local", "worker"))
		log.Debug("visible")
		out := buf.String()
		assert.Contains(t, out, "visible")
		assert.Contains(t, out, "env="+logger.EnvDevelopment)
	})
}

func TestWithFormatPanics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() {
		logger.New(logger.WithFormat(logger.Format("xml")))
	})
}
