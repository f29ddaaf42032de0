// Package localstore is the gateway's stand-in for browser local storage: a
// small file-backed key-value store with write-through persistence and an
// explicit logout lifecycle.
package localstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Keys persisted across restarts, mirroring what the storefront UI kept in
// the browser.
const (
	KeySessionToken  = "session_token"
	KeyProfile       = "profile"
	KeyLastTab       = "last_dashboard_tab"
	KeySettingsCache = "settings_cache"
	KeyTrackingPhone = "tracking_phone"
)

// sessionKeys are invalidated on logout; the settings cache deliberately
// survives so the storefront can render branding before the next fetch.
var sessionKeys = []string{KeySessionToken, KeyProfile, KeyLastTab}

type Store struct {
	mu   sync.Mutex
	path string
	data map[string]json.RawMessage
}

// Open loads the store file, creating parent directories as needed. A missing
// file yields an empty store.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("localstore: path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("localstore: create dir: %w", err)
	}

	s := &Store{path: path, data: make(map[string]json.RawMessage)}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("localstore: read: %w", err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &s.data); err != nil {
			return nil, fmt.Errorf("localstore: parse: %w", err)
		}
	}
	return s, nil
}

// Get decodes the stored value into dest, reporting whether the key existed.
func (s *Store) Get(key string, dest any) (bool, error) {
	s.mu.Lock()
	raw, ok := s.data[key]
	s.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return true, fmt.Errorf("localstore: decode %s: %w", key, err)
	}
	return true, nil
}

// GetString is a convenience for plain string values.
func (s *Store) GetString(key string) (string, bool) {
	var value string
	ok, err := s.Get(key, &value)
	if err != nil || !ok {
		return "", false
	}
	return value, true
}

// Set stores the value and writes through to disk immediately.
func (s *Store) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("localstore: encode %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = raw
	return s.flushLocked()
}

// Delete removes the given keys and flushes.
func (s *Store) Delete(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.data, key)
	}
	return s.flushLocked()
}

// ClearSession invalidates everything tied to the signed-in identity.
func (s *Store) ClearSession() error {
	return s.Delete(sessionKeys...)
}

func (s *Store) flushLocked() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("localstore: encode: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("localstore: write: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("localstore: replace: %w", err)
	}
	return nil
}
