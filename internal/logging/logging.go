// Package logging holds the process-wide zap logger. Callers that run
// before Init (or in tests) get a no-op logger rather than a nil panic.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var global *zap.SugaredLogger

// Init builds the global logger at the given level ("debug", "info",
// "warn", "error").
func Init(level string) error {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("LOG_LEVEL: unsupported level %q", level)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	z, err := cfg.Build()
	if err != nil {
		return err
	}
	global = z.Sugar()
	return nil
}

// L returns the global sugared logger, never nil.
func L() *zap.SugaredLogger {
	if global == nil {
		return zap.NewNop().Sugar()
	}
	return global
}

// Sync flushes buffered log entries. Safe to call before Init.
func Sync() {
	if global != nil {
		_ = global.Sync()
	}
}
