// logger.go: pluggable logging.
//
// Copyright (c) 2025 sentinelcache authors
// SPDX-License-Identifier: MPL-2.0
package cache

import "go.uber.org/zap"

// Logger defines a minimal structured logging interface. Implementations
// should be allocation-free on the no-op path.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs.
	Debug(msg string, keyvals ...interface{})

	// Info logs an info message with optional key-value pairs.
	Info(msg string, keyvals ...interface{})

	// Warn logs a warning message with optional key-value pairs.
	Warn(msg string, keyvals ...interface{})

	// Error logs an error message with optional key-value pairs.
	Error(msg string, keyvals ...interface{})
}

// NoOpLogger discards everything. Used as the default so the engine never
// pays for logging nobody asked for.
type NoOpLogger struct{}

func (NoOpLogger) Debug(msg string, keyvals ...interface{}) {}
func (NoOpLogger) Info(msg string, keyvals ...interface{})  {}
func (NoOpLogger) Warn(msg string, keyvals ...interface{})  {}
func (NoOpLogger) Error(msg string, keyvals ...interface{}) {}

// ZapLogger adapts a *zap.SugaredLogger to the Logger interface.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger wraps z as a Logger. If z is nil, zap.NewProduction() is used
// (falling back to a no-op core if that construction fails).
func NewZapLogger(z *zap.Logger) *ZapLogger {
	if z == nil {
		built, err := zap.NewProduction()
		if err != nil {
			built = zap.NewNop()
		}
		z = built
	}
	return &ZapLogger{sugar: z.Sugar()}
}

func (l *ZapLogger) Debug(msg string, keyvals ...interface{}) { l.sugar.Debugw(msg, keyvals...) }
func (l *ZapLogger) Info(msg string, keyvals ...interface{})  { l.sugar.Infow(msg, keyvals...) }
func (l *ZapLogger) Warn(msg string, keyvals ...interface{})  { l.sugar.Warnw(msg, keyvals...) }
func (l *ZapLogger) Error(msg string, keyvals ...interface{}) { l.sugar.Errorw(msg, keyvals...) }
