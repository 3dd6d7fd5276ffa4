package storage

import (
	"testing"
)

func TestKeystoreStartsEmpty(t *testing.T) {
	ks, err := NewKeystore(t.TempDir())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if ks.HasKeys() {
		t.Error("Expected fresh keystore to have no keys")
	}
}

func TestKeystoreRoundTrip(t *testing.T) {
	dir := t.TempDir()

	ks, err := NewKeystore(dir)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := ks.SetKeys("owm-key", "gemini-key"); err != nil {
		t.Fatalf("Failed to set keys: %v", err)
	}
	if !ks.HasKeys() {
		t.Error("Expected keystore to report keys present")
	}

	// A fresh keystore over the same directory sees the persisted values.
	reloaded, err := NewKeystore(dir)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got := reloaded.OpenWeatherKey(); got != "owm-key" {
		t.Errorf("Expected owm-key, got %q", got)
	}
	if got := reloaded.GeminiKey(); got != "gemini-key" {
		t.Errorf("Expected gemini-key, got %q", got)
	}
}

func TestKeystoreEmptyArgumentsKeepStoredValues(t *testing.T) {
	ks, err := NewKeystore(t.TempDir())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := ks.SetKeys("owm-key", "gemini-key"); err != nil {
		t.Fatalf("Failed to set keys: %v", err)
	}

	if err := ks.SetKeys("", "new-gemini-key"); err != nil {
		t.Fatalf("Failed to update keys: %v", err)
	}
	if got := ks.OpenWeatherKey(); got != "owm-key" {
		t.Errorf("Expected stored owm-key to survive, got %q", got)
	}
	if got := ks.GeminiKey(); got != "new-gemini-key" {
		t.Errorf("Expected new-gemini-key, got %q", got)
	}
}

func TestKeystorePartialKeysNotEnough(t *testing.T) {
	ks, err := NewKeystore(t.TempDir())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := ks.SetKeys("owm-key", ""); err != nil {
		t.Fatalf("Failed to set keys: %v", err)
	}
	if ks.HasKeys() {
		t.Error("Expected one missing credential to count as no keys")
	}
}
