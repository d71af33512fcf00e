// Package connstore persists the last-used connection and analysis
// snapshot so a session can be restored later. It is a single-slot store:
// each write overwrites the whole record, and there is no eviction beyond
// the retention window check.
package connstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Kind identifies the service a stored connection belongs to.
type Kind string

const (
	KindFigma Kind = "figma"
	// KindMCP is reserved for the MCP connection path. No MCP client is
	// implemented; the constant exists so stored records from other
	// frontends keep a stable kind value.
	KindMCP Kind = "mcp"
)

// RetentionWindow is how long a stored connection stays usable after its
// last successful connect, regardless of the validity flag.
const RetentionWindow = 7 * 24 * time.Hour

const (
	connectionFile = "connection.json"
	snapshotFile   = "snapshot.json"
)

// FileInfo is the last-known metadata of the connected design file.
type FileInfo struct {
	Key          string `json:"key"`
	Name         string `json:"name"`
	LastModified string `json:"lastModified"`
	Version      string `json:"version"`
}

// Connection is the persisted connection record.
type Connection struct {
	Kind          Kind      `json:"kind"`
	Credentials   string    `json:"credentials"`
	FileInfo      FileInfo  `json:"fileInfo"`
	LastConnected time.Time `json:"lastConnected"`
	Valid         bool      `json:"isValid"`
}

// Snapshot records the version string of the last completed analysis,
// used to detect remote file changes without holding the full result.
type Snapshot struct {
	FileKey    string    `json:"fileKey"`
	Version    string    `json:"version"`
	AnalyzedAt time.Time `json:"analyzedAt"`
}

// Store reads and writes the connection and snapshot slots in a directory.
// One logical writer is assumed; the mutex only guards in-process callers.
type Store struct {
	mu  sync.Mutex
	dir string
}

// New creates a Store rooted at dir. The directory is created on first write.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// DefaultDir returns the per-user config directory for the store.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, "ds-copilot"), nil
}

// Create builds a connection record stamped with the current time and a
// true validity flag, and stores it.
func (s *Store) Create(kind Kind, credentials string, fileInfo FileInfo) (Connection, error) {
	conn := Connection{
		Kind:          kind,
		Credentials:   credentials,
		FileInfo:      fileInfo,
		LastConnected: time.Now(),
		Valid:         true,
	}
	if err := s.Store(conn); err != nil {
		return Connection{}, err
	}
	return conn, nil
}

// Store overwrites the connection slot with conn.
func (s *Store) Store(conn Connection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeSlot(connectionFile, conn)
}

// Get returns the stored connection, if any. A record that fails to parse
// is treated as absent and the slot is cleared as a side effect.
func (s *Store) Get() (Connection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var conn Connection
	if !s.readSlot(connectionFile, &conn) {
		return Connection{}, false
	}
	return conn, true
}

// Clear removes the stored connection. Clearing an empty store is not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeSlot(connectionFile)
}

// IsValid reports whether the stored connection is usable: present, flagged
// valid, and last connected within the retention window. An expired record
// is reported invalid but not deleted.
func (s *Store) IsValid() bool {
	conn, ok := s.Get()
	if !ok {
		return false
	}
	if !conn.Valid {
		return false
	}
	return time.Since(conn.LastConnected) <= RetentionWindow
}

// UpdateValidity flips the validity flag on the stored connection.
// A missing record is not an error; there is nothing to update.
func (s *Store) UpdateValidity(valid bool) error {
	conn, ok := s.Get()
	if !ok {
		return nil
	}
	conn.Valid = valid
	return s.Store(conn)
}

// SaveSnapshot overwrites the last-analysis snapshot slot.
func (s *Store) SaveSnapshot(snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeSlot(snapshotFile, snap)
}

// LoadSnapshot returns the last-analysis snapshot, if any. Corrupted data
// is treated as absent and cleared.
func (s *Store) LoadSnapshot() (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var snap Snapshot
	if !s.readSlot(snapshotFile, &snap) {
		return Snapshot{}, false
	}
	return snap, true
}

func (s *Store) writeSlot(name string, v any) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// readSlot reads and decodes one slot. It reports false for a missing
// slot, and for a corrupted slot after removing it.
func (s *Store) readSlot(name string, v any) bool {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		os.Remove(path)
		return false
	}
	return true
}

func (s *Store) removeSlot(name string) error {
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear %s: %w", name, err)
	}
	return nil
}
