package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("", "loud")
	assert.Error(t, err)
}

func TestLoggerFormatsMessages(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := FromZap(zap.New(core))

	log.Info("Reserve: slot id=%d reserved (%d/%d)", 5, 1, 2)
	log.Warn("Reserve: slot id=%d is full", 5)
	log.Error("boom: %v", "db down")

	entries := logs.AllUntimed()
	require.Len(t, entries, 3)
	assert.Equal(t, "Reserve: slot id=5 reserved (1/2)", entries[0].Message)
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
	assert.Equal(t, "boom: db down", entries[2].Message)
}

func TestNopLogger(t *testing.T) {
	log := NewNop()
	assert.NotPanics(t, func() {
		log.Info("nothing %d", 1)
		_ = log.Close()
	})
}
