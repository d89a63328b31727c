// Copyright (c) 2025 sentinelcache authors
// SPDX-License-Identifier: MPL-2.0
package cache

import (
	"testing"

	"go.uber.org/zap"
)

func TestNoOpLoggerDoesNotPanic(t *testing.T) {
	var l Logger = NoOpLogger{}
	l.Debug("msg", "k", "v")
	l.Info("msg")
	l.Warn("msg", "k", 1)
	l.Error("msg", "err", "boom")
}

func TestZapLoggerWrapsProvidedLogger(t *testing.T) {
	z := zap.NewNop()
	l := NewZapLogger(z)
	if l == nil {
		t.Fatal("expected a non-nil ZapLogger")
	}
	l.Info("hello", "key", "value")
}

func TestZapLoggerFallsBackWhenNilGiven(t *testing.T) {
	l := NewZapLogger(nil)
	if l == nil || l.sugar == nil {
		t.Fatal("expected NewZapLogger(nil) to construct a usable logger")
	}
	l.Debug("hello")
}
