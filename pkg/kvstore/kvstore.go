// Package kvstore is the small client-side key/value store used for
// per-round UI state such as the selected player.
package kvstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Store reads and writes string values by key.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// Memory keeps values for the life of the process.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
	return nil
}

// File is a Store backed by a JSON object on disk. Every Set rewrites the file.
type File struct {
	mu     sync.RWMutex
	values map[string]string
	path   string
}

const stateFile = "state.json"

// DefaultPath is state.json under the user's config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "geoparty", stateFile)
}

// Open loads path. A missing or unreadable file starts empty.
func Open(path string) *File {
	f := &File{values: make(map[string]string), path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		return f
	}
	if err := json.Unmarshal(data, &f.values); err != nil || f.values == nil {
		f.values = make(map[string]string)
	}
	return f
}

// Path returns the backing file.
func (f *File) Path() string { return f.path }

func (f *File) Get(key string) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.values[key]
	return v, ok
}

func (f *File) Set(key, value string) error {
	f.mu.Lock()
	f.values[key] = value
	data, err := json.MarshalIndent(f.values, "", "  ")
	f.mu.Unlock()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0o644)
}
