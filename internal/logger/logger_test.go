package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Modes(t *testing.T) {
	for _, mode := range []string{"dev", "prod", "quiet", ""} {
		l, err := New(mode)
		require.NoError(t, err, "mode %q", mode)
		require.NotNil(t, l.SugaredLogger)
	}
}

func TestWrap_StructuredFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := Wrap(zap.New(core)).With("component", "review")

	l.Error("commit failed", "key", "7+3")
	l.Info("mastered", "key", "8/2+3")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "commit failed", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "review", fields["component"])
	assert.Equal(t, "7+3", fields["key"])
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Debug("ignored")
	l.Sync()
}
