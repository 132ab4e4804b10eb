// Package localstore provides the durable key-value storage that backs the
// client-side session, preference and locale stores.
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Keys used by the client stores.
const (
	KeyUser       = "oremus-user"
	KeyToken      = "oremus-token"
	KeyDemo       = "oremus-demo"
	KeyTheme      = "oremus-theme"
	KeyColorTheme = "oremus-color-theme"
	KeyLanguage   = "oremus-language"
)

// Store is a string key-value store. Get reports absence with ok=false;
// implementations never fail a read because of corrupt content.
type Store interface {
	Get(key string) (value string, ok bool)
	Set(key, value string) error
	Delete(key string) error
}

// Memory is a Store that lives only as long as the process.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// Get returns the value stored under key.
func (m *Memory) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

// Set stores value under key.
func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// File is a Store persisted as a JSON object in a single file. Every write
// rewrites the file atomically (temp file + rename).
type File struct {
	mu     sync.Mutex
	path   string
	values map[string]string
	logger *slog.Logger
}

// OpenFile loads the store at path. A missing file is an empty store; an
// unreadable or malformed file is logged and treated as empty.
func OpenFile(path string, logger *slog.Logger) (*File, error) {
	if logger == nil {
		logger = slog.Default()
	}
	f := &File{path: path, values: make(map[string]string), logger: logger}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return f, nil
	case err != nil:
		logger.Warn("Local state unreadable, starting empty", "path", path, "error", err)
		return f, nil
	}

	if err := json.Unmarshal(data, &f.values); err != nil {
		logger.Warn("Local state malformed, starting empty", "path", path, "error", err)
		f.values = make(map[string]string)
	}
	return f, nil
}

// Get returns the value stored under key.
func (f *File) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	return v, ok
}

// Set stores value under key and rewrites the file. On a write error the
// previous value is kept.
func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	prev, had := f.values[key]
	f.values[key] = value
	if err := f.flush(); err != nil {
		if had {
			f.values[key] = prev
		} else {
			delete(f.values, key)
		}
		return err
	}
	return nil
}

// Delete removes key and rewrites the file. Deleting a missing key is not
// an error.
func (f *File) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	prev, had := f.values[key]
	if !had {
		return nil
	}
	delete(f.values, key)
	if err := f.flush(); err != nil {
		f.values[key] = prev
		return err
	}
	return nil
}

// flush must be called with f.mu held.
func (f *File) flush() error {
	data, err := json.MarshalIndent(f.values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode local state: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".oremus-state-*")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write local state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close local state: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("failed to replace local state: %w", err)
	}
	return nil
}

// GetJSON decodes the JSON value stored under key into v. It reports false
// when the key is absent or its content does not decode.
func GetJSON(s Store, key string, v any) bool {
	raw, ok := s.Get(key)
	if !ok || raw == "" {
		return false
	}
	return json.Unmarshal([]byte(raw), v) == nil
}

// SetJSON stores v under key as JSON.
func SetJSON(s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.Set(key, string(data))
}
