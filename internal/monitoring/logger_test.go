package monitoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(format string, v ...interface{}) {
		called = true
	})
	Logf("test message")
	if !called {
		t.Error("Custom logger was not called")
	}

	// Now set to nil and verify it doesn't call our logger
	called = false
	SetLogger(nil)
	Logf("test")
	if called {
		t.Error("No-op logger should not have triggered callback")
	}
}

func TestLogf_Default(t *testing.T) {
	if Logf == nil {
		t.Error("Logf should not be nil by default")
	}
	Logf("test message: %s", "value")
}

func TestNewZapLogger(t *testing.T) {
	logger, err := NewZapLogger("debug", "json")
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = NewZapLogger("loud", "console")
	assert.Error(t, err)
}

func TestUseZap(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	core, logs := observer.New(zap.InfoLevel)
	UseZap(zap.New(core))

	Logf("removed error: %d", 3)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "removed error: 3", entries[0].Message)

	UseZap(nil)
	Logf("muted")
	assert.Len(t, logs.All(), 1)
}
