package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/live-labs/credvault/internal/crypto"
	"github.com/live-labs/credvault/internal/record"
)

var (
	ErrNotFound           = errors.New("credential not found")
	ErrCorrupted          = errors.New("storage record corrupted")
	ErrEmptyName          = errors.New("credential name must not be empty")
	ErrEmptyValue         = errors.New("credential value must not be empty")
	ErrPassphraseRequired = errors.New("record is encrypted but no passphrase is configured")
	ErrWeakPassphrase     = errors.New("passphrase does not meet strength requirements")
)

// fileEnvelope is the document shape of an encrypted-at-rest record:
// the whole serialized record wrapped in a second envelope on top of
// per-value encryption.
type fileEnvelope struct {
	Encrypted bool             `json:"encrypted"`
	Data      *crypto.Envelope `json:"data"`
}

// Manager owns one record's lifecycle. Build it from an explicit
// Config; there is no process-wide default instance.
type Manager struct {
	cfg     Config
	path    string
	backend backend
	logger  *slog.Logger
	mu      *sync.Mutex
}

// NewManager constructs a manager for the configured storage method.
// The encrypted-file method requires a passphrase; any configured
// passphrase must meet the strength rule (length >= 8, score >= 3).
func NewManager(cfg Config, logger *slog.Logger) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}

	path, err := ResolvePath(cfg.Path)
	if err != nil {
		return nil, err
	}

	if cfg.Passphrase != "" && !crypto.Acceptable(cfg.Passphrase) {
		return nil, ErrWeakPassphrase
	}

	m := &Manager{
		cfg:    cfg,
		path:   path,
		logger: logger,
		mu:     lockForPath(path),
	}

	switch cfg.Method {
	case MethodEncryptedFile:
		if cfg.Passphrase == "" {
			return nil, fmt.Errorf("%s storage requires a passphrase", MethodEncryptedFile)
		}
		m.backend = newFileBackend(path, logger)
	case MethodPlainFile, "":
		m.backend = newFileBackend(path, logger)
	case MethodKeychain:
		m.backend = newKeychainBackend(path)
	case MethodBolt:
		b, err := newBoltBackend(path)
		if err != nil {
			return nil, err
		}
		m.backend = b
	case MethodMemory:
		m.backend = newMemoryBackend()
	default:
		return nil, fmt.Errorf("unknown storage method %q", cfg.Method)
	}

	return m, nil
}

// Path returns the resolved storage path.
func (m *Manager) Path() string {
	return m.path
}

// Close releases backend resources (the bolt backend holds an open
// database handle).
func (m *Manager) Close() error {
	if c, ok := m.backend.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (m *Manager) encryptionConfigured() bool {
	return m.cfg.Passphrase != ""
}

// Load reads the current record. An absent record yields a fresh empty
// one; an unreadable or unparsable record fails with ErrCorrupted so
// data loss is never masked by a silently empty record.
func (m *Manager) Load() (*record.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadLocked()
}

func (m *Manager) loadLocked() (*record.Record, error) {
	data, found, err := m.backend.Load()
	if err != nil {
		return nil, err
	}
	if !found {
		return record.New(string(m.cfg.Method), m.encryptionConfigured()), nil
	}

	var wrapper fileEnvelope
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	if wrapper.Encrypted {
		if wrapper.Data == nil {
			return nil, fmt.Errorf("%w: encrypted record missing envelope", ErrCorrupted)
		}
		if !m.encryptionConfigured() {
			return nil, ErrPassphraseRequired
		}
		plaintext, err := crypto.Decrypt(wrapper.Data, m.cfg.Passphrase)
		if err != nil {
			return nil, err
		}
		data = []byte(plaintext)
	}

	var rec record.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	if rec.Version == "" || rec.Credentials == nil {
		return nil, fmt.Errorf("%w: document is not a credential record", ErrCorrupted)
	}
	return &rec, nil
}

// Save persists the record, refreshing lastModified and wrapping the
// whole document in a file-wide envelope when a passphrase is
// configured.
func (m *Manager) Save(rec *record.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveLocked(rec)
}

func (m *Manager) saveLocked(rec *record.Record) error {
	rec.Metadata.LastModified = time.Now().UTC()
	if excess := len(rec.AuditLog) - record.MaxAuditEntries; excess > 0 {
		rec.AuditLog = rec.AuditLog[excess:]
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize record: %w", err)
	}

	if m.encryptionConfigured() {
		env, err := crypto.Encrypt(string(data), m.cfg.Passphrase)
		if err != nil {
			return err
		}
		data, err = json.MarshalIndent(fileEnvelope{Encrypted: true, Data: env}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to serialize record envelope: %w", err)
		}
	}

	return m.backend.Save(data)
}

// auditFailure appends a failed-operation entry and persists it on a
// best-effort basis: a failing audit write is logged, never allowed to
// mask the operation's own error.
func (m *Manager) auditFailure(rec *record.Record, action record.Action, name string, opErr error) {
	rec.AppendAudit(record.AuditEntry{
		Action:        action,
		CredentialKey: name,
		Success:       false,
		Error:         opErr.Error(),
	})
	if err := m.saveLocked(rec); err != nil {
		m.logger.Warn("failed to persist audit entry", "action", action, "credential", name, "error", err)
	}
}

// Store upserts a credential. The value is encrypted per-value when a
// passphrase is configured; storing an existing name overwrites it and
// resets its creation bookkeeping.
func (m *Manager) Store(name, value string) (*record.StoredCredential, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rec, err := m.loadLocked()
	if err != nil {
		return nil, err
	}

	if value == "" {
		m.auditFailure(rec, record.ActionStore, name, ErrEmptyValue)
		return nil, ErrEmptyValue
	}

	payload := value
	encrypted := false
	if m.encryptionConfigured() {
		env, err := crypto.Encrypt(value, m.cfg.Passphrase)
		if err != nil {
			m.auditFailure(rec, record.ActionStore, name, err)
			return nil, err
		}
		envJSON, err := json.Marshal(env)
		if err != nil {
			m.auditFailure(rec, record.ActionStore, name, err)
			return nil, fmt.Errorf("failed to serialize envelope: %w", err)
		}
		payload = string(envJSON)
		encrypted = true
	}

	cred := rec.Upsert(name, payload, encrypted)
	rec.AppendAudit(record.AuditEntry{
		Action:        record.ActionStore,
		CredentialKey: name,
		Success:       true,
		Metadata:      map[string]string{"encrypted": fmt.Sprintf("%t", encrypted)},
	})

	if err := m.saveLocked(rec); err != nil {
		return nil, err
	}

	copied := *cred
	return &copied, nil
}

// Retrieve returns a credential's value, decrypting it when stored
// encrypted. Retrieval is not read-only: it increments accessCount,
// refreshes lastAccessed, and persists that mutation.
func (m *Manager) Retrieve(name string) (string, error) {
	if name == "" {
		return "", ErrEmptyName
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rec, err := m.loadLocked()
	if err != nil {
		return "", err
	}

	cred, ok := rec.Credentials[name]
	if !ok {
		m.auditFailure(rec, record.ActionRetrieve, name, ErrNotFound)
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	value := cred.Value
	if cred.Encrypted {
		if !m.encryptionConfigured() {
			m.auditFailure(rec, record.ActionRetrieve, name, ErrPassphraseRequired)
			return "", ErrPassphraseRequired
		}
		var env crypto.Envelope
		if err := json.Unmarshal([]byte(cred.Value), &env); err != nil {
			wrapped := fmt.Errorf("%w: stored envelope unparsable: %v", crypto.ErrInvalidEnvelope, err)
			m.auditFailure(rec, record.ActionRetrieve, name, wrapped)
			return "", wrapped
		}
		value, err = crypto.Decrypt(&env, m.cfg.Passphrase)
		if err != nil {
			m.auditFailure(rec, record.ActionRetrieve, name, err)
			return "", err
		}
	}

	cred.Touch()
	rec.AppendAudit(record.AuditEntry{
		Action:        record.ActionRetrieve,
		CredentialKey: name,
		Success:       true,
	})
	if err := m.saveLocked(rec); err != nil {
		return "", err
	}

	return value, nil
}

// Delete removes a credential or fails with ErrNotFound.
func (m *Manager) Delete(name string) error {
	if name == "" {
		return ErrEmptyName
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rec, err := m.loadLocked()
	if err != nil {
		return err
	}

	if _, ok := rec.Credentials[name]; !ok {
		m.auditFailure(rec, record.ActionDelete, name, ErrNotFound)
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	delete(rec.Credentials, name)
	rec.AppendAudit(record.AuditEntry{
		Action:        record.ActionDelete,
		CredentialKey: name,
		Success:       true,
	})
	return m.saveLocked(rec)
}

// timeFormat renders list timestamps.
const timeFormat = time.RFC3339

// ListEntry is credential metadata safe to expose: it never carries
// the secret value.
type ListEntry struct {
	Name         string `json:"name"`
	Encrypted    bool   `json:"encrypted"`
	StoredAt     string `json:"storedAt"`
	LastAccessed string `json:"lastAccessed"`
	AccessCount  int    `json:"accessCount"`
}

// List returns metadata for every stored credential.
func (m *Manager) List() ([]ListEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, err := m.loadLocked()
	if err != nil {
		return nil, err
	}

	entries := make([]ListEntry, 0, len(rec.Credentials))
	for _, cred := range rec.Credentials {
		entries = append(entries, ListEntry{
			Name:         cred.Name,
			Encrypted:    cred.Encrypted,
			StoredAt:     cred.StoredAt.Format(timeFormat),
			LastAccessed: cred.LastAccessed.Format(timeFormat),
			AccessCount:  cred.AccessCount,
		})
	}
	return entries, nil
}

// AuditLog returns the most recent limit entries, most recent last.
func (m *Manager) AuditLog(limit int) ([]record.AuditEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, err := m.loadLocked()
	if err != nil {
		return nil, err
	}
	return rec.AuditTail(limit), nil
}

// RecordAudit appends a standalone audit entry for an operation
// performed above the storage layer (e.g. format validation of a
// retrieved value) and persists it.
func (m *Manager) RecordAudit(action record.Action, name string, success bool, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, err := m.loadLocked()
	if err != nil {
		return err
	}
	rec.AppendAudit(record.AuditEntry{
		Action:        action,
		CredentialKey: name,
		Success:       success,
		Error:         errMsg,
	})
	return m.saveLocked(rec)
}

// IntegrityReport summarizes a validation pass.
type IntegrityReport struct {
	CredentialCount   int
	EncryptionEnabled bool
}

// ValidateIntegrity recomputes the encryption-consistency invariant
// and reports record shape. A violation surfaces as
// record.ErrIntegrity.
func (m *Manager) ValidateIntegrity() (*IntegrityReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, err := m.loadLocked()
	if err != nil {
		return nil, err
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return &IntegrityReport{
		CredentialCount:   len(rec.Credentials),
		EncryptionEnabled: rec.Metadata.EncryptionEnabled,
	}, nil
}
