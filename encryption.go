// encryption.go: opportunistic AES-256-GCM encryption of sensitive values.
//
// Copyright (c) 2025 sentinelcache authors
// SPDX-License-Identifier: MPL-2.0
package cache

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"io"
	"strings"
)

// builtinSensitivePatterns are matched against keys and values regardless
// of caller configuration.
var builtinSensitivePatterns = []string{
	"password", "token", "secret", "key", "auth",
	"credential", "private", "confidential", "secure", "sensitive",
}

// cipherRecord is the opaque stored form of an encrypted value.
type cipherRecord struct {
	Data []byte `json:"data"`
	IV   []byte `json:"iv"`
	Tag  []byte `json:"tag"`
}

// encryptor turns sensitive values into cipherRecords and back, and
// decides which (key, value) pairs are sensitive in the first place.
type encryptor struct {
	gcm      cipher.AEAD
	patterns []string // caller-configured patterns, in addition to the builtins
}

// newEncryptor builds an encryptor from a raw 32-byte AES-256 key. Callers
// must have already validated len(key) == 32 via Config.Validate.
func newEncryptor(key []byte, patterns []string) (*encryptor, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, NewErrEncryptionError("", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, NewErrEncryptionError("", err)
	}
	return &encryptor{gcm: gcm, patterns: patterns}, nil
}

// sensitive reports whether key or value matches a built-in or
// caller-configured sensitivity pattern.
func (enc *encryptor) sensitive(key string, value interface{}) bool {
	lowerKey := strings.ToLower(key)
	lowerValue := strings.ToLower(textualProjection(value))

	for _, p := range builtinSensitivePatterns {
		if strings.Contains(lowerKey, p) || strings.Contains(lowerValue, p) {
			return true
		}
	}
	for _, p := range enc.patterns {
		lp := strings.ToLower(p)
		if strings.Contains(lowerKey, lp) || strings.Contains(lowerValue, lp) {
			return true
		}
	}
	return false
}

// textualProjection renders value as text for sensitivity matching. It
// never fails outward: encoding failures yield an empty projection rather
// than blocking the sensitivity check.
func textualProjection(value interface{}) string {
	if s, ok := value.(string); ok {
		return s
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	return string(encoded)
}

// encrypt serializes value to JSON, then seals it with a fresh random
// nonce, returning a *cipherRecord suitable for storage in entry.value.
func (enc *encryptor) encrypt(key string, value interface{}) (*cipherRecord, error) {
	plaintext, err := json.Marshal(value)
	if err != nil {
		return nil, NewErrEncryptionError(key, err)
	}

	nonce := make([]byte, enc.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, NewErrEncryptionError(key, err)
	}

	sealed := enc.gcm.Seal(nil, nonce, plaintext, nil)
	// Go's AEAD.Seal appends the authentication tag to the ciphertext;
	// split it out so the stored record mirrors the {data, iv, tag} shape
	// expected by callers.
	tagStart := len(sealed) - enc.gcm.Overhead()
	return &cipherRecord{
		Data: sealed[:tagStart],
		IV:   nonce,
		Tag:  sealed[tagStart:],
	}, nil
}

// decrypt reverses encrypt, returning the original plaintext value as a
// generic interface{} (json.Unmarshal's usual map/slice/primitive shapes).
func (enc *encryptor) decrypt(key string, rec *cipherRecord) (interface{}, error) {
	sealed := append(append([]byte{}, rec.Data...), rec.Tag...)
	plaintext, err := enc.gcm.Open(nil, rec.IV, sealed, nil)
	if err != nil {
		return nil, NewErrEncryptionError(key, err)
	}

	var value interface{}
	if err := json.Unmarshal(plaintext, &value); err != nil {
		return nil, NewErrEncryptionError(key, err)
	}
	return value, nil
}
