// Copyright (c) 2025 sentinelcache authors
// SPDX-License-Identifier: MPL-2.0
package cache

import "testing"

func TestFakeClockAdvanceAndSet(t *testing.T) {
	c := NewFakeClock(1000)
	if c.NowMillis() != 1000 {
		t.Fatalf("expected 1000, got %d", c.NowMillis())
	}

	c.Advance(500)
	if c.NowMillis() != 1500 {
		t.Errorf("expected 1500, got %d", c.NowMillis())
	}

	c.Set(42)
	if c.NowMillis() != 42 {
		t.Errorf("expected 42, got %d", c.NowMillis())
	}
}

func TestSystemClockReturnsPositiveMillis(t *testing.T) {
	c := NewSystemClock()
	if c.NowMillis() <= 0 {
		t.Errorf("expected a positive millisecond timestamp, got %d", c.NowMillis())
	}
}
