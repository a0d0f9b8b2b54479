package log

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextLogger(t *testing.T) {
	ctx := context.Background()

	l1 := Ctx(ctx)
	require.NotNil(t, l1)
	assert.Equal(t, defaultLogger, l1)

	var buf bytes.Buffer
	custom := slog.New(slog.NewJSONHandler(&buf, nil))
	ctx = With(ctx, custom)
	assert.Equal(t, custom, Ctx(ctx))

	Ctx(ctx).InfoContext(ctx, "simulation finished", slog.Int("intervals", 48))
	assert.Contains(t, buf.String(), `"intervals":48`)
}

func TestSetDefaultLogLevel(t *testing.T) {
	defer SetDefaultLogLevel(slog.LevelInfo)

	SetDefaultLogLevel(slog.LevelDebug)
	assert.True(t, defaultLogger.Enabled(context.Background(), slog.LevelDebug))

	SetDefaultLogLevel(slog.LevelWarn)
	assert.False(t, defaultLogger.Enabled(context.Background(), slog.LevelInfo))
}
