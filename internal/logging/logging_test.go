package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("loud"))
}

func TestNewLoggerWithPath_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "ecoquest.log")

	result := NewLoggerWithPath(Config{Level: "debug", Format: FormatJSON, File: path})
	t.Cleanup(func() { _ = result.Close() })

	require.True(t, result.UsingFile)
	assert.False(t, result.FallbackUsed)
	assert.Equal(t, path, result.FilePath)

	result.Logger.Debug().Str("k", "v").Msg("hello")
	require.NoError(t, result.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &line))
	assert.Equal(t, "hello", line["message"])
	assert.Equal(t, "v", line["k"])
}

func TestNewLoggerWithPath_Fallback(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	result := NewLoggerWithPath(Config{File: filepath.Join(blocker, "nested", "log")})

	assert.False(t, result.UsingFile)
	assert.True(t, result.FallbackUsed)
	assert.NotEmpty(t, result.FallbackReason)
	assert.NoError(t, result.Close())
}

func TestTraceHookAddsTraceID(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, FormatJSON, zerolog.InfoLevel, false)

	ctx := ContextWithTraceID(context.Background(), "01HZXTRACE")
	logger.Info().Ctx(ctx).Msg("with trace")

	assert.Contains(t, buf.String(), `"trace_id":"01HZXTRACE"`)

	buf.Reset()
	logger.Info().Msg("without trace")
	assert.NotContains(t, buf.String(), TraceIDField)
}

func TestComponentLoggerAndContext(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)
	ctx := ComponentLogger(base, "store").WithContext(context.Background())

	FromContext(ctx).Info().Msg("ready")
	assert.Contains(t, buf.String(), `"component":"store"`)

	// A bare context yields a usable, disabled logger.
	FromContext(context.Background()).Info().Msg("dropped")
}

func TestPrintMessages(t *testing.T) {
	var buf bytes.Buffer
	PrintLogPathMessage(&buf, "/tmp/x.log")
	PrintFallbackWarning(&buf, "permission denied")

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Logging to /tmp/x.log"))
	assert.Contains(t, out, "permission denied")
}
