package log

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerLevelsAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewWithCore(core, LevelInfo)

	logger.Debug("hidden")
	logger.Info("step", Int("pairs", 3), Float64("dt", 0.5), String("phase", "narrow"))
	logger.Warn("cap", Uint64("a", 1), Bool("bullet", true), Err(errors.New("boom")))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "step", entries[0].Message)
	assert.Equal(t, int64(3), entries[0].ContextMap()["pairs"])
	assert.Equal(t, "cap", entries[1].Message)
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])

	logger.SetLevel(LevelDebug)
	assert.Equal(t, LevelDebug, logger.GetLevel())
	logger.Debug("visible")
	assert.Equal(t, 3, logs.Len())
}

func TestLoggerWith(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewWithCore(core, LevelDebug).With(String("session", "abc"))
	logger.Info("hello")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "abc", logs.All()[0].ContextMap()["session"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelInfo, ParseLevel("bogus"))
	assert.Equal(t, LevelSilent, ParseLevel("off"))
	assert.Equal(t, "error", LevelError.String())
}

func TestNopDiscards(t *testing.T) {
	logger := Nop()
	logger.Error("nothing happens")
	assert.Equal(t, LevelSilent, logger.GetLevel())
}
