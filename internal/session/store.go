// Package session persists the opaque bearer token across console runs.
//
// The token is a capability string owned by the server; it is stored as-is
// and never inspected or parsed. Absence of a token means anonymous.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/attendly/attendly/internal/errors"
)

// Store defines the interface for durable token storage.
//
// Implementations carry no validation or expiry logic. Whether a stored
// token is still usable is always decided by the server.
type Store interface {
	// Get returns the stored token. ok is false when no token is stored.
	Get() (token string, ok bool, err error)

	// Set stores a token, replacing any existing one.
	Set(token string) error

	// Clear removes the stored token. Clearing an empty store is a no-op.
	Clear() error
}

// sessionFile is the on-disk layout of the stored credential
type sessionFile struct {
	Token string `json:"token"`
}

// FileStore persists the token as a JSON file under the user config
// directory, surviving console restarts.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a store rooted at path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath returns the well-known session file location,
// e.g. ~/.config/attendly/session.json on Linux.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeSessionReadFailed, "cannot determine config directory", err)
	}
	return filepath.Join(dir, "attendly", "session.json"), nil
}

// Get returns the stored token
func (s *FileStore) Get() (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, errors.Wrap(errors.ErrCodeSessionReadFailed, "cannot read session file", err)
	}

	var f sessionFile
	if err := json.Unmarshal(data, &f); err != nil {
		// A corrupt session file is treated as anonymous rather than fatal;
		// the next Set overwrites it.
		return "", false, nil
	}

	if f.Token == "" {
		return "", false, nil
	}
	return f.Token, true, nil
}

// Set stores a token
func (s *FileStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeSessionWriteFailed, "cannot create config directory", err)
	}

	data, err := json.MarshalIndent(sessionFile{Token: token}, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeSessionWriteFailed, "cannot encode session", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return errors.Wrap(errors.ErrCodeSessionWriteFailed, "cannot write session file", err)
	}
	return nil
}

// Clear removes the stored token
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeSessionWriteFailed, "cannot remove session file", err)
	}
	return nil
}

// MemoryStore implements in-memory token storage for tests
type MemoryStore struct {
	mu    sync.Mutex
	token string
	set   bool
}

// NewMemoryStore creates a new in-memory token store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Get returns the stored token
func (m *MemoryStore) Get() (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.set, nil
}

// Set stores a token
func (m *MemoryStore) Set(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.set = true
	return nil
}

// Clear removes the stored token
func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.set = false
	return nil
}
