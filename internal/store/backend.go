package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/live-labs/credvault/internal/keyring"
)

const (
	DirPermSecure  = 0700 // Directory: owner rwx only
	FilePermSecure = 0600 // File: owner rw only
)

// backend reads and writes the serialized record document. The record
// codec (JSON plus the optional file-wide envelope) lives in the
// manager; backends only move opaque bytes.
type backend interface {
	// Load returns the document bytes. An absent record is (nil,
	// false, nil), not an error.
	Load() ([]byte, bool, error)
	Save(data []byte) error
	Description() string
}

// fileBackend keeps the record as a single file with owner-only
// permissions.
type fileBackend struct {
	path   string
	logger *slog.Logger
}

func newFileBackend(path string, logger *slog.Logger) *fileBackend {
	return &fileBackend{path: path, logger: logger}
}

func (b *fileBackend) Load() ([]byte, bool, error) {
	data, err := os.ReadFile(b.path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read record file: %w", err)
	}
	return data, true, nil
}

func (b *fileBackend) Save(data []byte) error {
	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, DirPermSecure); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}

	if err := os.WriteFile(b.path, data, FilePermSecure); err != nil {
		return fmt.Errorf("failed to write record file: %w", err)
	}

	// WriteFile only applies the mode on creation; re-assert it on
	// every save. Permission tightening is best-effort.
	if err := os.Chmod(b.path, FilePermSecure); err != nil {
		b.logger.Warn("failed to set record file permissions", "path", b.path, "error", err)
	}
	if err := os.Chmod(dir, DirPermSecure); err != nil {
		b.logger.Warn("failed to set storage directory permissions", "path", dir, "error", err)
	}
	return nil
}

func (b *fileBackend) Description() string {
	return fmt.Sprintf("file %s", b.path)
}

// keychainBackend keeps the record as an OS-keyring item labeled by
// the resolved path, so distinct configured paths map to distinct
// keyring entries.
type keychainBackend struct {
	label string
}

func newKeychainBackend(label string) *keychainBackend {
	return &keychainBackend{label: label}
}

func (b *keychainBackend) Load() ([]byte, bool, error) {
	data, found, err := keyring.GetRecord(b.label)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read record from keyring: %w", err)
	}
	return data, found, nil
}

func (b *keychainBackend) Save(data []byte) error {
	if err := keyring.SaveRecord(b.label, data); err != nil {
		return fmt.Errorf("failed to write record to keyring: %w", err)
	}
	return nil
}

func (b *keychainBackend) Description() string {
	return fmt.Sprintf("keychain item %s", b.label)
}

// memoryBackend holds the record in process memory. Used by tests and
// for deliberately ephemeral vaults.
type memoryBackend struct {
	mu   sync.Mutex
	data []byte
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{}
}

func (b *memoryBackend) Load() ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.data == nil {
		return nil, false, nil
	}
	return append([]byte(nil), b.data...), true, nil
}

func (b *memoryBackend) Save(data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = append([]byte(nil), data...)
	return nil
}

func (b *memoryBackend) Description() string {
	return "in-memory"
}
