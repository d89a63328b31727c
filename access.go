// access.go: per-operation access control.
//
// Copyright (c) 2025 sentinelcache authors
// SPDX-License-Identifier: MPL-2.0
package cache

import "regexp"

// Operation identifies one of the four access-controlled engine actions.
type Operation string

const (
	OpGet    Operation = "get"
	OpSet    Operation = "set"
	OpDelete Operation = "delete"
	OpClear  Operation = "clear"
)

// AccessControlConfig configures the access controller. A nil
// *AccessControlConfig on Config means "allow everything".
type AccessControlConfig struct {
	// AllowedOperations restricts which operations may run at all. Empty
	// means all four are allowed.
	AllowedOperations []Operation

	// RestrictedKeys denies operations against these exact keys.
	RestrictedKeys []string

	// RestrictedPatterns denies operations against any key matching one
	// of these regexps.
	RestrictedPatterns []string
}

func (c *AccessControlConfig) validate() error {
	for _, p := range c.RestrictedPatterns {
		if _, err := compilePattern(p); err != nil {
			return NewErrConfigurationError("invalid RestrictedPatterns entry: " + p)
		}
	}
	return nil
}

func compilePattern(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile(pattern)
}

// accessController answers "is this operation allowed on this key".
type accessController struct {
	allowed    map[Operation]struct{} // empty means "all allowed"
	restricted map[string]struct{}
	patterns   []*regexp.Regexp
}

func newAccessController(cfg *AccessControlConfig) *accessController {
	if cfg == nil {
		return nil
	}

	ac := &accessController{
		restricted: make(map[string]struct{}, len(cfg.RestrictedKeys)),
	}
	if len(cfg.AllowedOperations) > 0 {
		ac.allowed = make(map[Operation]struct{}, len(cfg.AllowedOperations))
		for _, op := range cfg.AllowedOperations {
			ac.allowed[op] = struct{}{}
		}
	}
	for _, k := range cfg.RestrictedKeys {
		ac.restricted[k] = struct{}{}
	}
	for _, p := range cfg.RestrictedPatterns {
		// Config.Validate already checked these compile; an error here
		// would mean the config was mutated after validation.
		if re, err := compilePattern(p); err == nil {
			ac.patterns = append(ac.patterns, re)
		}
	}
	return ac
}

// allow reports whether op may run against key. A nil accessController
// (no access control configured) always allows.
func (ac *accessController) allow(op Operation, key string) bool {
	if ac == nil {
		return true
	}

	if ac.allowed != nil {
		if _, ok := ac.allowed[op]; !ok {
			return false
		}
	}

	if _, ok := ac.restricted[key]; ok {
		return false
	}

	for _, re := range ac.patterns {
		if re.MatchString(key) {
			return false
		}
	}

	return true
}
