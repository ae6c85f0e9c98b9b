package logging_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piratetools42/antragsbuch/pkg/logging"
)

func TestDefaultLogger(t *testing.T) {
	original := *logging.Default()
	t.Cleanup(func() { logging.SetDefault(original) })

	buf := &bytes.Buffer{}
	logger := zerolog.New(buf).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	logging.SetDefault(logger)

	logging.Info().Msg("info message")
	logging.Warn().Msg("warning message")

	output := buf.String()
	assert.Contains(t, output, "info message")
	assert.Contains(t, output, "warning message")
}

func TestContextLogger(t *testing.T) {
	testLogger := logging.NewTestLogger(t)

	ctx := logging.WithLogger(context.Background(), testLogger.Logger)
	ctx = logging.WithAntrag(ctx, "WP038")
	ctx = logging.WithOperation(ctx, "update")
	ctx = logging.WithDryRun(ctx, true)

	logging.FromContext(ctx).Info().Msg("details changed")

	testLogger.AssertContains(t, `"antrag_id":"WP038"`)
	testLogger.AssertContains(t, `"operation":"update"`)
	testLogger.AssertContains(t, `"dry_run":true`)
	testLogger.AssertContains(t, "details changed")
}

func TestWithDryRunFalseLeavesContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, logging.WithDryRun(ctx, false))
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Same(t, logging.Default(), logging.FromContext(context.Background()))
	//nolint:staticcheck // nil context is handled explicitly
	assert.Same(t, logging.Default(), logging.FromContext(nil))
}

func TestWithFields(t *testing.T) {
	testLogger := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), testLogger.Logger)
	ctx = logging.WithFields(ctx, map[string]any{
		"records": 3,
		"tags":    []string{"WP038", "TO1"},
		"source":  "antragsbuch.json",
	})

	logging.Ctx(ctx).Info().Msg("loaded")

	testLogger.AssertContains(t, `"records":3`)
	testLogger.AssertContains(t, `"tags":["WP038","TO1"]`)
	testLogger.AssertContains(t, `"source":"antragsbuch.json"`)
}

func TestNewLoggerFromConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "antragsbuch.log")

	tests := []struct {
		name    string
		level   string
		logged  bool
		warning bool
	}{
		{name: "info logs info", level: "info", logged: true},
		{name: "warning alias", level: "warning", logged: false, warning: true},
		{name: "unknown falls back to info", level: "loud", logged: true},
		{name: "off disables", level: "off", logged: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, os.WriteFile(path, nil, 0o644))

			logger := logging.NewLoggerFromConfig(&logging.Config{
				Level:  tt.level,
				Format: "json",
				Output: path,
				Fields: map[string]any{"conference": "BPT14.1"},
			})
			logger.Info().Msg("hello")
			logger.Warn().Msg("careful")

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			out := string(data)
			assert.Equal(t, tt.logged, strings.Contains(out, "hello"))
			if tt.warning {
				assert.Contains(t, out, "careful")
			}
			if tt.logged {
				assert.Contains(t, out, `"conference":"BPT14.1"`)
			}
		})
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func TestCaptureLoggingForTest(t *testing.T) {
	captured := logging.CaptureLoggingForTest(t)
	logging.Info().Str("antrag_id", "PA001").Msg("captured")

	assert.Equal(t, 1, captured.Count())
	captured.AssertContains(t, "PA001")
	captured.AssertNotContains(t, "WP038")
}
