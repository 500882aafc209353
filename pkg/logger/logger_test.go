package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Level(t *testing.T) {
	l, err := New(Options{Level: "debug"})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = New(Options{})
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	require.Error(t, err)
}

func TestNew_Format(t *testing.T) {
	_, err := New(Options{Format: FormatConsole})
	require.NoError(t, err)

	_, err = New(Options{Format: "xml"})
	assert.ErrorContains(t, err, "xml")
}

func TestNamed_NilBase(t *testing.T) {
	assert.NotNil(t, Named(nil, "x"))
}

func TestNamed_ChildCarriesComponent(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	Named(zap.New(core), "svc.dashboard").Info("ready")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "svc.dashboard", entries[0].LoggerName)
}
