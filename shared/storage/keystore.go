package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Keystore persists the two API credentials across runs. Keys are trusted
// local secrets; the file is only protected by filesystem permissions.
type Keystore struct {
	filePath string
	mu       sync.RWMutex
	keys     storedKeys
}

type storedKeys struct {
	OpenWeatherKey string `json:"openweather_api_key"`
	GeminiKey      string `json:"gemini_api_key"`
}

func NewKeystore(dataDir string) (*Keystore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	ks := &Keystore{
		filePath: filepath.Join(dataDir, "credentials.json"),
	}
	if err := ks.load(); err != nil {
		return nil, fmt.Errorf("failed to load stored credentials: %w", err)
	}
	return ks, nil
}

// HasKeys reports whether both credentials are present. The pipeline refuses
// to start without them.
func (ks *Keystore) HasKeys() bool {
	ks.mu.RLock()
	defer ks.mu.RUnlock()
	return ks.keys.OpenWeatherKey != "" && ks.keys.GeminiKey != ""
}

func (ks *Keystore) OpenWeatherKey() string {
	ks.mu.RLock()
	defer ks.mu.RUnlock()
	return ks.keys.OpenWeatherKey
}

func (ks *Keystore) GeminiKey() string {
	ks.mu.RLock()
	defer ks.mu.RUnlock()
	return ks.keys.GeminiKey
}

// SetKeys stores both credentials, overwriting previous values. Empty
// arguments leave the corresponding stored value untouched.
func (ks *Keystore) SetKeys(openWeatherKey, geminiKey string) error {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	if openWeatherKey != "" {
		ks.keys.OpenWeatherKey = openWeatherKey
	}
	if geminiKey != "" {
		ks.keys.GeminiKey = geminiKey
	}
	return ks.save()
}

func (ks *Keystore) load() error {
	file, err := os.Open(ks.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open keystore file: %w", err)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&ks.keys); err != nil {
		return fmt.Errorf("failed to decode keystore data: %w", err)
	}
	return nil
}

func (ks *Keystore) save() error {
	file, err := os.OpenFile(ks.filePath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to create keystore file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ks.keys)
}
