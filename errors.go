// errors.go: structured error taxonomy for sentinelcache operations.
//
// Typed error codes, rich context, retryability and severity annotations
// via go-errors, rather than bare fmt.Errorf strings.
//
// Copyright (c) 2025 sentinelcache authors
// SPDX-License-Identifier: MPL-2.0
package cache

import (
	goerrors "errors"
	"fmt"

	"github.com/agilira/go-errors"
)

// Error codes for sentinelcache operations, grouped by category.
const (
	// Input and configuration (1xxx)
	ErrCodeInvalidInput       errors.ErrorCode = "SENTINEL_INVALID_INPUT"
	ErrCodeConfigurationError errors.ErrorCode = "SENTINEL_CONFIGURATION_ERROR"

	// Capacity (2xxx)
	ErrCodeMemoryLimitExceeded errors.ErrorCode = "SENTINEL_MEMORY_LIMIT_EXCEEDED"
	ErrCodeCacheFull           errors.ErrorCode = "SENTINEL_CACHE_FULL"

	// Lifecycle (3xxx)
	ErrCodeKeyNotFound   errors.ErrorCode = "SENTINEL_KEY_NOT_FOUND"
	ErrCodeEntryExpired  errors.ErrorCode = "SENTINEL_ENTRY_EXPIRED"

	// Versioning (4xxx)
	ErrCodeVersionConflict   errors.ErrorCode = "SENTINEL_VERSION_CONFLICT"
	ErrCodeDependencyChanged errors.ErrorCode = "SENTINEL_DEPENDENCY_CHANGED"

	// Concurrency (5xxx)
	ErrCodeLockAcquisitionFailed errors.ErrorCode = "SENTINEL_LOCK_ACQUISITION_FAILED"
	ErrCodeConcurrentModification errors.ErrorCode = "SENTINEL_CONCURRENT_MODIFICATION"

	// Security (6xxx)
	ErrCodeAccessDenied   errors.ErrorCode = "SENTINEL_ACCESS_DENIED"
	ErrCodeEncryptionError errors.ErrorCode = "SENTINEL_ENCRYPTION_ERROR"

	// System (7xxx)
	ErrCodeFileSystemError errors.ErrorCode = "SENTINEL_FILE_SYSTEM_ERROR"
	ErrCodeTimeoutError    errors.ErrorCode = "SENTINEL_TIMEOUT_ERROR"
	ErrCodeUnknownError    errors.ErrorCode = "SENTINEL_UNKNOWN_ERROR"
	ErrCodePanicRecovered  errors.ErrorCode = "SENTINEL_PANIC_RECOVERED"
)

const (
	msgInvalidInput        = "invalid input"
	msgConfigurationError  = "invalid configuration"
	msgMemoryLimitExceeded = "entry does not fit even after eviction"
	msgCacheFull           = "entry count limit cannot be satisfied"
	msgKeyNotFound         = "key not found in cache"
	msgEntryExpired        = "entry has expired"
	msgVersionConflict     = "version conflict"
	msgDependencyChanged   = "a dependency has changed since this entry was cached"
	msgLockAcquisitionFailed = "failed to acquire engine lock"
	msgConcurrentModification = "concurrent modification detected"
	msgAccessDenied        = "operation denied by access control"
	msgEncryptionError     = "encryption or decryption failed"
	msgFileSystemError     = "file system operation failed"
	msgTimeoutError        = "operation timed out"
	msgUnknownError        = "unexpected internal error"
	msgPanicRecovered      = "panic recovered during operation"
)

// =============================================================================
// INPUT AND CONFIGURATION ERRORS
// =============================================================================

// NewErrInvalidInput reports a malformed key, value, or TTL.
func NewErrInvalidInput(reason string) error {
	return errors.NewWithField(ErrCodeInvalidInput, msgInvalidInput, "reason", reason)
}

// NewErrConfigurationError reports a bad configuration record.
func NewErrConfigurationError(reason string) error {
	return errors.NewWithField(ErrCodeConfigurationError, msgConfigurationError, "reason", reason)
}

// =============================================================================
// CAPACITY ERRORS
// =============================================================================

// NewErrMemoryLimitExceeded reports that a single insertion cannot fit even
// after evicting the entire LRU tail.
func NewErrMemoryLimitExceeded(key string, needed, maxMemory int64) error {
	return errors.NewWithContext(ErrCodeMemoryLimitExceeded, msgMemoryLimitExceeded, map[string]interface{}{
		"key":        key,
		"needed":     needed,
		"max_memory": maxMemory,
	})
}

// NewErrCacheFull reports that the entry-count cap cannot be satisfied.
func NewErrCacheFull(capacity, size int) error {
	return errors.NewWithContext(ErrCodeCacheFull, msgCacheFull, map[string]interface{}{
		"capacity":     capacity,
		"current_size": size,
	}).AsRetryable()
}

// =============================================================================
// LIFECYCLE ERRORS
// =============================================================================

// NewErrKeyNotFound reports that an explicit-check API found no entry.
func NewErrKeyNotFound(key string) error {
	return errors.NewWithField(ErrCodeKeyNotFound, msgKeyNotFound, "key", key)
}

// NewErrEntryExpired reports, for explicit-check APIs only, that an entry's
// TTL elapsed. get() itself never returns this; it returns absent instead.
func NewErrEntryExpired(key string) error {
	return errors.NewWithField(ErrCodeEntryExpired, msgEntryExpired, "key", key)
}

// =============================================================================
// VERSIONING ERRORS
// =============================================================================

// NewErrVersionConflict reports an explicit version request for a key whose
// effective key does not exist.
func NewErrVersionConflict(key, version string) error {
	return errors.NewWithContext(ErrCodeVersionConflict, msgVersionConflict, map[string]interface{}{
		"key":     key,
		"version": version,
	})
}

// NewErrDependencyChanged reports that a dependency's mtime invalidated an
// entry, for explicit-check callers that want the reason surfaced as an
// error rather than a silent miss.
func NewErrDependencyChanged(key, dependency string) error {
	return errors.NewWithContext(ErrCodeDependencyChanged, msgDependencyChanged, map[string]interface{}{
		"key":        key,
		"dependency": dependency,
	})
}

// =============================================================================
// CONCURRENCY ERRORS
// =============================================================================

// NewErrLockAcquisitionFailed is reserved for host environments that layer a
// timeout over the engine mutex; the engine itself never times out its own
// lock.
func NewErrLockAcquisitionFailed(operation string) error {
	return errors.NewWithField(ErrCodeLockAcquisitionFailed, msgLockAcquisitionFailed, "operation", operation).
		AsRetryable()
}

// NewErrConcurrentModification is reserved; under the engine's single-mutex
// discipline it should never actually be returned.
func NewErrConcurrentModification(key string) error {
	return errors.NewWithField(ErrCodeConcurrentModification, msgConcurrentModification, "key", key)
}

// =============================================================================
// SECURITY ERRORS
// =============================================================================

// NewErrAccessDenied reports an access-control denial.
func NewErrAccessDenied(operation, key string) error {
	return errors.NewWithContext(ErrCodeAccessDenied, msgAccessDenied, map[string]interface{}{
		"operation": operation,
		"key":       key,
	})
}

// NewErrEncryptionError wraps an underlying cipher error with the offending
// key.
func NewErrEncryptionError(key string, cause error) error {
	return errors.Wrap(cause, ErrCodeEncryptionError, msgEncryptionError).
		WithContext("key", key)
}

// =============================================================================
// SYSTEM ERRORS
// =============================================================================

// NewErrFileSystemError wraps a watcher registration or stat failure.
// These are logged and tolerated, not surfaced to the caller of get/set;
// the engine's watcher code logs the underlying error directly and does
// not call this constructor.
func NewErrFileSystemError(path string, cause error) error {
	return errors.Wrap(cause, ErrCodeFileSystemError, msgFileSystemError).
		WithContext("path", path)
}

// NewErrTimeout reports an operation that exceeded a caller-imposed timeout.
// The engine itself issues no timeouts; this is provided for host wrappers.
func NewErrTimeout(operation string) error {
	return errors.NewWithField(ErrCodeTimeoutError, msgTimeoutError, "operation", operation).
		AsRetryable()
}

// NewErrUnknown wraps an unexpected condition.
func NewErrUnknown(operation string, cause error) error {
	if cause != nil {
		return errors.Wrap(cause, ErrCodeUnknownError, msgUnknownError).
			WithContext("operation", operation).
			WithSeverity("warning")
	}
	return errors.NewWithField(ErrCodeUnknownError, msgUnknownError, "operation", operation).
		WithSeverity("warning")
}

// NewErrPanicRecovered reports a loader panic recovered by getWithProtection.
func NewErrPanicRecovered(operation string, panicValue interface{}) error {
	return errors.NewWithContext(ErrCodePanicRecovered, msgPanicRecovered, map[string]interface{}{
		"operation":   operation,
		"panic_value": fmt.Sprintf("%v", panicValue),
	}).WithSeverity("critical")
}

// =============================================================================
// ERROR CHECKING HELPERS
// =============================================================================

func hasCode(err error, code errors.ErrorCode) bool {
	return errors.HasCode(err, code)
}

// IsAccessDenied reports whether err is an access-control denial.
func IsAccessDenied(err error) bool { return hasCode(err, ErrCodeAccessDenied) }

// IsMemoryLimitExceeded reports whether err is a capacity rejection.
func IsMemoryLimitExceeded(err error) bool { return hasCode(err, ErrCodeMemoryLimitExceeded) }

// IsCacheFull reports whether err is an entry-count cap rejection.
func IsCacheFull(err error) bool { return hasCode(err, ErrCodeCacheFull) }

// IsKeyNotFound reports whether err is a not-found error.
func IsKeyNotFound(err error) bool { return hasCode(err, ErrCodeKeyNotFound) }

// IsVersionConflict reports whether err is a versioning conflict.
func IsVersionConflict(err error) bool { return hasCode(err, ErrCodeVersionConflict) }

// IsDependencyChanged reports whether err is a dependency-invalidation error.
func IsDependencyChanged(err error) bool { return hasCode(err, ErrCodeDependencyChanged) }

// IsEncryptionError reports whether err originated in the encryptor.
func IsEncryptionError(err error) bool { return hasCode(err, ErrCodeEncryptionError) }

// IsInvalidInput reports whether err is an input-validation error.
func IsInvalidInput(err error) bool { return hasCode(err, ErrCodeInvalidInput) }

// IsRetryable reports whether the error declares itself retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var retryable errors.Retryable
	if goerrors.As(err, &retryable) {
		return retryable.IsRetryable()
	}
	return false
}

// GetErrorCode extracts the error code from err, or "" if it has none.
func GetErrorCode(err error) errors.ErrorCode {
	if err == nil {
		return ""
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		return coder.ErrorCode()
	}
	return ""
}

// GetErrorContext extracts the context map attached to err, if any.
func GetErrorContext(err error) map[string]interface{} {
	if err == nil {
		return nil
	}
	var sentinelErr *errors.Error
	if goerrors.As(err, &sentinelErr) {
		return sentinelErr.Context
	}
	return nil
}
