// Copyright (c) 2025 sentinelcache authors
// SPDX-License-Identifier: MPL-2.0
package cache

import "testing"

func TestConfigValidateAppliesDefaults(t *testing.T) {
	cfg := Config{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if cfg.MaxEntries != DefaultMaxEntries {
		t.Errorf("expected default MaxEntries, got %d", cfg.MaxEntries)
	}
	if cfg.MaxMemory != DefaultMaxMemory {
		t.Errorf("expected default MaxMemory, got %d", cfg.MaxMemory)
	}
	if cfg.CheckInterval != DefaultCheckInterval {
		t.Errorf("expected default CheckInterval, got %v", cfg.CheckInterval)
	}
	if cfg.NegativeCacheTTL != DefaultNegativeCacheTTL {
		t.Errorf("expected default NegativeCacheTTL, got %v", cfg.NegativeCacheTTL)
	}
	if _, ok := cfg.Logger.(NoOpLogger); !ok {
		t.Errorf("expected NoOpLogger default, got %T", cfg.Logger)
	}
	if _, ok := cfg.MetricsCollector.(NoOpMetricsCollector); !ok {
		t.Errorf("expected NoOpMetricsCollector default, got %T", cfg.MetricsCollector)
	}
	if cfg.Clock == nil {
		t.Error("expected a default Clock to be set")
	}
}

func TestConfigValidateDefaultsZeroNegativeCacheTTL(t *testing.T) {
	cfg := Config{NegativeCacheTTL: 0}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.NegativeCacheTTL != DefaultNegativeCacheTTL {
		t.Errorf("expected explicit 0 to be replaced by the default, got %v", cfg.NegativeCacheTTL)
	}
}

func TestConfigValidateRejectsBadEncryptionKey(t *testing.T) {
	cfg := Config{EncryptionEnabled: true, EncryptionKey: []byte("short")}
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for a non-32-byte encryption key")
	}
}

func TestConfigValidateRejectsBadSensitivePattern(t *testing.T) {
	cfg := Config{SensitivePatterns: []string{"("}}
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for an unparseable regex pattern")
	}
}

func TestConfigValidateRejectsBadAccessControlPattern(t *testing.T) {
	cfg := Config{AccessControl: &AccessControlConfig{RestrictedPatterns: []string{"["}}}
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for an unparseable access-control pattern")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MaxEntries != DefaultMaxEntries || cfg.MaxMemory != DefaultMaxMemory {
		t.Errorf("expected default limits, got %+v", cfg)
	}
	if cfg.AccessControl != nil {
		t.Error("expected no access control by default")
	}
	if cfg.EncryptionEnabled {
		t.Error("expected encryption disabled by default")
	}
}
