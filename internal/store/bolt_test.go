package store

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestBoltBackendLifecycle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.db")

	m, err := NewManager(Config{Method: MethodBolt, Path: path}, nil)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	if _, err := m.Store("api_key", "bolt-value"); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	value, err := m.Retrieve("api_key")
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if value != "bolt-value" {
		t.Errorf("Retrieved wrong value: %q", value)
	}

	if err := m.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// The record survives reopening the database.
	m2, err := NewManager(Config{Method: MethodBolt, Path: path}, nil)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer m2.Close()

	entries, err := m2.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "api_key" {
		t.Errorf("Expected persisted credential, got %+v", entries)
	}
	if entries[0].AccessCount != 1 {
		t.Errorf("Access bookkeeping should persist, got count %d", entries[0].AccessCount)
	}
}

func TestBoltBackendEncrypted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.db")

	m, err := NewManager(Config{Method: MethodBolt, Path: path, Passphrase: "Correct-Horse-9!"}, nil)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	defer m.Close()

	if _, err := m.Store("token", "tok-secret"); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	value, err := m.Retrieve("token")
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if value != "tok-secret" {
		t.Errorf("Retrieved wrong value: %q", value)
	}

	if err := m.Delete("token"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := m.Delete("token"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
