package logging_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/docsite/pkg/logging"
)

func restoreDefault(t *testing.T) {
	t.Helper()
	original := *logging.Default()
	level := zerolog.GlobalLevel()
	t.Cleanup(func() {
		logging.SetDefault(original)
		zerolog.SetGlobalLevel(level)
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg := logging.DefaultConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "auto", cfg.Format)
	assert.Equal(t, "stderr", cfg.Output)
	assert.False(t, cfg.AddCaller)
}

func TestNewLoggerFromConfig(t *testing.T) {
	restoreDefault(t)

	t.Run("json to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "docsite.log")
		logger := logging.NewLoggerFromConfig(&logging.Config{
			Level:  "debug",
			Format: "json",
			Output: path,
			Fields: map[string]any{"site": "docs"},
		})
		logger.Info().Msg("manifest built")

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "manifest built")
		assert.Contains(t, string(content), `"site":"docs"`)
	})

	t.Run("console format", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "console.log")
		logger := logging.NewLoggerFromConfig(&logging.Config{
			Level:   "info",
			Format:  "console",
			Output:  path,
			NoColor: true,
		})
		logger.Info().Str("key", "value").Msg("console test")

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "console test")
		assert.Contains(t, string(content), "INF")
	})

	t.Run("discard output", func(t *testing.T) {
		logger := logging.NewLoggerFromConfig(&logging.Config{Output: "discard", Format: "auto"})
		logger.Info().Msg("nowhere")
	})
}

func TestConfigureLevels(t *testing.T) {
	restoreDefault(t)

	path := filepath.Join(t.TempDir(), "levels.log")
	logging.Configure(&logging.Config{Level: "warn", Format: "json", Output: path})

	logging.Default().Debug().Msg("debug message")
	logging.Default().Info().Msg("info message")
	logging.Default().Warn().Msg("warn message")
	logging.Default().Error().Msg("error message")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	output := string(content)
	assert.NotContains(t, output, "debug message")
	assert.NotContains(t, output, "info message")
	assert.Contains(t, output, "warn message")
	assert.Contains(t, output, "error message")
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	ctx := logging.WithLogger(context.Background(), &logger)
	ctx = logging.WithSite(ctx, "site")
	ctx = logging.WithModule(ctx, "virtual:image-list")
	ctx = logging.WithOperation(ctx, "load")

	logging.FromContext(ctx).Info().Msg("loaded")

	output := buf.String()
	assert.Contains(t, output, `"site":"site"`)
	assert.Contains(t, output, `"module":"virtual:image-list"`)
	assert.Contains(t, output, `"operation":"load"`)
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	//nolint:staticcheck // nil context is part of the contract
	assert.Equal(t, logging.Default(), logging.FromContext(nil))
	assert.Equal(t, logging.Default(), logging.FromContext(context.Background()))
}

func TestCaptureLoggingForTest(t *testing.T) {
	captured := logging.CaptureLoggingForTest(t)

	logging.Default().Info().Str("dir", "public/images").Msg("scanning")
	logging.Default().Debug().Msg("second")

	assert.True(t, captured.Contains("scanning"))
	assert.Len(t, captured.Lines(), 2)
}
