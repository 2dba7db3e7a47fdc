package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/Andrei15193/CodeMap-sub002/internal/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.LogConfig
	}{
		{"production info", config.LogConfig{Level: zapcore.InfoLevel}},
		{"development debug", config.LogConfig{Level: zapcore.DebugLevel, Development: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.cfg.Level))
			assert.False(t, logger.Core().Enabled(tt.cfg.Level-1))
		})
	}
}

func TestNewOrNop(t *testing.T) {
	logger := NewOrNop(config.LogConfig{Level: zapcore.ErrorLevel})
	require.NotNil(t, logger)
	assert.False(t, logger.Core().Enabled(zapcore.WarnLevel))
}
