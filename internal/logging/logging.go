// Package logging builds the zap logger shared by the server, session
// manager, gateway, and persistence lanes.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/avisser/redline/internal/config"
)

// New creates a logger from config. Output goes to stderr so CLI JSON
// output on stdout stays machine-parseable.
func New(cfg *config.Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg != nil && cfg.LogLevel != "" {
		if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
			return nil, err
		}
	}

	zcfg := zap.NewProductionConfig()
	if cfg == nil || !cfg.LogJSON {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}

	return zcfg.Build()
}

// Nop returns a no-op logger for tests and for callers that pass nil.
func Nop() *zap.Logger {
	return zap.NewNop()
}
