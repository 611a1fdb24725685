package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level, format string
		enabled       zap.AtomicLevel
	}{
		{level: "debug", format: "console", enabled: zap.NewAtomicLevelAt(zap.DebugLevel)},
		{level: "warn", format: "json", enabled: zap.NewAtomicLevelAt(zap.WarnLevel)},
	}

	for _, tt := range tests {
		logger, err := New(tt.level, tt.format)
		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(tt.enabled.Level()))
		assert.False(t, logger.Core().Enabled(tt.enabled.Level()-1))
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	_, err := New("chatty", "json")
	assert.Error(t, err)
}
