package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"":      zapcore.InfoLevel,
		"debug": zapcore.DebugLevel,
		"WARN":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
	}
	for name, expected := range cases {
		lvl, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, expected, lvl, name)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestNewLoggerWithLevel(t *testing.T) {
	l, err := NewLoggerWithLevel("warn", false)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))

	_, err = NewLoggerWithLevel("nope", false)
	assert.Error(t, err)

	assert.True(t, NewLogger(true).Core().Enabled(zapcore.DebugLevel))
}

func TestZapLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := Wrap(zap.New(core))

	l.With(zap.String("file", "a.html")).Info("converted")
	l.Debug("debug")

	require.Equal(t, 2, logs.Len())
	first := logs.All()[0]
	assert.Equal(t, "converted", first.Message)
	assert.Equal(t, "a.html", first.ContextMap()["file"])

	assert.NotNil(t, Wrap(nil).Zap())
}
