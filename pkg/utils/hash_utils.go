package utils

import (
	"crypto/sha256"
	"fmt"
)

// SecretHasher derives stable, non-reversible fingerprints for secrets
// so that log lines can tell two API keys apart without exposing them.
type SecretHasher struct{}

// NewSecretHasher creates a new secret hasher instance
func NewSecretHasher() *SecretHasher {
	return &SecretHasher{}
}

// Fingerprint returns the hex sha256 of the secret, or "" for an empty secret
func (h *SecretHasher) Fingerprint(secret string) string {
	if secret == "" {
		return ""
	}

	sum := sha256.Sum256([]byte(secret))
	return fmt.Sprintf("%x", sum)
}

// FingerprintShort returns the first 8 characters of the fingerprint
func (h *SecretHasher) FingerprintShort(secret string) string {
	full := h.Fingerprint(secret)
	if len(full) >= 8 {
		return full[:8]
	}
	return full
}

var globalHasher = NewSecretHasher()

// Fingerprint uses the global hasher
func Fingerprint(secret string) string {
	return globalHasher.Fingerprint(secret)
}

// FingerprintShort uses the global hasher
func FingerprintShort(secret string) string {
	return globalHasher.FingerprintShort(secret)
}
