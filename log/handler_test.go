package log

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openinfer/triton-go/internal/native"
	"github.com/openinfer/triton-go/internal/native/nativetest"
)

func TestHostLevelMapping(t *testing.T) {
	tests := []struct {
		level slog.Level
		want  uint32
	}{
		{slog.LevelDebug, native.LogVerbose},
		{slog.LevelDebug - 4, native.LogVerbose},
		{slog.LevelInfo, native.LogInfo},
		{slog.LevelWarn, native.LogWarn},
		{slog.LevelError, native.LogError},
		{slog.LevelError + 4, native.LogError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, hostLevel(tt.level), "level %v", tt.level)
	}
}

func TestHandlerForwardsToHostSink(t *testing.T) {
	host := nativetest.NewHost()
	host.Install(t)

	logger := slog.New(NewHandler())
	logger.Info("model loaded", "model", "resnet", "version", 3)

	require.Len(t, host.Logs, 1)
	line := host.Logs[0]
	assert.Equal(t, native.LogInfo, line.Level)
	assert.Equal(t, "model loaded model=resnet version=3", line.Message)
	assert.True(t, strings.HasSuffix(line.File, "handler_test.go"), "got file %q", line.File)
	assert.Greater(t, line.Line, 0)
}

func TestHandlerSkipsHostDisabledLevel(t *testing.T) {
	host := nativetest.NewHost()
	host.Install(t)
	host.DisableLogLevel(native.LogWarn)

	logger := slog.New(NewHandler())
	logger.Warn("dropped")
	logger.Error("kept")

	require.Len(t, host.Logs, 1)
	assert.Equal(t, native.LogError, host.Logs[0].Level)
}

func TestHandlerMinimumLevel(t *testing.T) {
	host := nativetest.NewHost()
	host.Install(t)

	logger := slog.New(NewHandler(WithLevel(slog.LevelError)))
	logger.Info("below threshold")
	logger.Error("at threshold")

	require.Len(t, host.Logs, 1)
	assert.Equal(t, native.LogError, host.Logs[0].Level)
}

func TestHandlerDebugMapsToVerbose(t *testing.T) {
	host := nativetest.NewHost()
	host.Install(t)

	logger := slog.New(NewHandler(WithLevel(slog.LevelDebug)))
	logger.Debug("tracing detail")

	require.Len(t, host.Logs, 1)
	assert.Equal(t, native.LogVerbose, host.Logs[0].Level)
}

func TestHandlerWithAttrsAndGroup(t *testing.T) {
	host := nativetest.NewHost()
	host.Install(t)

	logger := slog.New(NewHandler()).With("backend", "echo").WithGroup("request")
	logger.Info("executing", "id", "r1")

	require.Len(t, host.Logs, 1)
	msg := host.Logs[0].Message
	assert.Contains(t, msg, "backend=echo")
	assert.Contains(t, msg, "request.id=r1")
}

func TestHandlerEnabled(t *testing.T) {
	host := nativetest.NewHost()
	host.Install(t)
	host.DisableLogLevel(native.LogVerbose)

	h := NewHandler(WithLevel(slog.LevelDebug))
	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug), "host disabled verbose")
	assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))

	restrictive := NewHandler(WithLevel(slog.LevelWarn))
	assert.False(t, restrictive.Enabled(context.Background(), slog.LevelInfo))
}
