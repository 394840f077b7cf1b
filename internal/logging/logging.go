// Package logging constructs the zap loggers used across Crewline.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger for the given mode. "serve" gets production JSON
// output; everything else gets the human-readable console encoder used by the
// CLI commands.
func New(mode string) (*zap.Logger, error) {
	if mode == "serve" {
		return zap.NewProduction()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg.Build()
}
