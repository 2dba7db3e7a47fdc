// Package logging builds the zap logger shared by commands.
package logging

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Andrei15193/CodeMap-sub002/internal/config"
)

// New builds a logger at the configured level. Development loggers write
// human-readable console output; production loggers write JSON to stderr.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
		zc.Sampling = nil
	}
	zc.Level = zap.NewAtomicLevelAt(cfg.Level)
	zc.OutputPaths = []string{"stderr"}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

// NewOrNop is New, falling back to a no-op logger when the logger cannot be
// built.
func NewOrNop(cfg config.LogConfig) *zap.Logger {
	logger, err := New(cfg)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
