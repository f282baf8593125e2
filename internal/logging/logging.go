// Package logging builds the application's zap logger.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a production logger for mode "release" and a colored
// development logger otherwise.
func New(mode string) (*zap.Logger, error) {
	var config zap.Config

	if mode == "release" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	return config.Build()
}

// Must is like New but falls back to a no-op logger when the configured one
// cannot be built.
func Must(mode string) *zap.Logger {
	l, err := New(mode)
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// Sync flushes l, ignoring the errors stdout and stderr report on some
// platforms.
func Sync(l *zap.Logger) {
	if l != nil {
		_ = l.Sync()
	}
}
