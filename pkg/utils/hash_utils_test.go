package utils

import "testing"

func TestFingerprint_Empty(t *testing.T) {
	if got := Fingerprint(""); got != "" {
		t.Errorf("Expected empty fingerprint, got %q", got)
	}
	if got := FingerprintShort(""); got != "" {
		t.Errorf("Expected empty short fingerprint, got %q", got)
	}
}

func TestFingerprint_Stable(t *testing.T) {
	a := Fingerprint("secret-key")
	b := Fingerprint("secret-key")
	if a != b {
		t.Errorf("Expected stable fingerprint, got %s and %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("Expected 64 hex characters, got %d", len(a))
	}
	if FingerprintShort("secret-key") != a[:8] {
		t.Errorf("Expected short fingerprint to be a prefix of the full one")
	}
	if Fingerprint("other-key") == a {
		t.Error("Expected different secrets to produce different fingerprints")
	}
}
