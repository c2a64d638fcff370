package record

import (
	"errors"
	"fmt"
	"time"
)

const (
	// Version is the record format version written by this engine.
	Version = "1.0"

	// MaxAuditEntries bounds the audit log. Older entries are evicted
	// first; exceeding the bound is never an error.
	MaxAuditEntries = 1000
)

var (
	ErrIntegrity = errors.New("integrity violation")
)

// Action labels one audited operation.
type Action string

const (
	ActionStore    Action = "store"
	ActionRetrieve Action = "retrieve"
	ActionValidate Action = "validate"
	ActionDelete   Action = "delete"
)

// StoredCredential is one secret in the record. Value holds either the
// raw secret (Encrypted false) or a serialized crypto.Envelope
// (Encrypted true).
type StoredCredential struct {
	Name         string    `json:"name"`
	Value        string    `json:"value"`
	Encrypted    bool      `json:"encrypted"`
	StoredAt     time.Time `json:"storedAt"`
	LastAccessed time.Time `json:"lastAccessed"`
	AccessCount  int       `json:"accessCount"`
}

// Metadata is the record-global bookkeeping block.
type Metadata struct {
	CreatedAt         time.Time `json:"createdAt"`
	LastModified      time.Time `json:"lastModified"`
	EncryptionEnabled bool      `json:"encryptionEnabled"`
	StorageMethod     string    `json:"storageMethod"`
}

// AuditEntry records one attempted operation, success or failure.
type AuditEntry struct {
	Timestamp     time.Time         `json:"timestamp"`
	Action        Action            `json:"action"`
	CredentialKey string            `json:"credentialKey"`
	Success       bool              `json:"success"`
	Error         string            `json:"error,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// Record is the whole persisted document.
type Record struct {
	Version     string                       `json:"version"`
	Credentials map[string]*StoredCredential `json:"credentials"`
	Metadata    Metadata                     `json:"metadata"`
	AuditLog    []AuditEntry                 `json:"auditLog"`
}

// New creates an empty record. encrypted marks the record as created in
// encrypted mode, which satisfies the encryption-consistency invariant
// even while no credentials exist yet.
func New(method string, encrypted bool) *Record {
	now := time.Now().UTC()
	return &Record{
		Version:     Version,
		Credentials: make(map[string]*StoredCredential),
		Metadata: Metadata{
			CreatedAt:         now,
			LastModified:      now,
			EncryptionEnabled: encrypted,
			StorageMethod:     method,
		},
		AuditLog: make([]AuditEntry, 0),
	}
}

// Upsert stores a credential under its name, overwriting any existing
// entry. Overwrite resets StoredAt and AccessCount to the new
// creation's values.
func (r *Record) Upsert(name, value string, encrypted bool) *StoredCredential {
	now := time.Now().UTC()
	cred := &StoredCredential{
		Name:         name,
		Value:        value,
		Encrypted:    encrypted,
		StoredAt:     now,
		LastAccessed: now,
		AccessCount:  0,
	}
	r.Credentials[name] = cred
	if encrypted {
		r.Metadata.EncryptionEnabled = true
	}
	return cred
}

// Touch updates access bookkeeping for a successful retrieval.
func (c *StoredCredential) Touch() {
	c.LastAccessed = time.Now().UTC()
	c.AccessCount++
}

// AppendAudit appends an entry and evicts the oldest entries beyond
// MaxAuditEntries.
func (r *Record) AppendAudit(entry AuditEntry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	r.AuditLog = append(r.AuditLog, entry)
	if excess := len(r.AuditLog) - MaxAuditEntries; excess > 0 {
		r.AuditLog = r.AuditLog[excess:]
	}
}

// AuditTail returns the last limit entries, most recent last. A
// non-positive limit returns the whole log.
func (r *Record) AuditTail(limit int) []AuditEntry {
	if limit <= 0 || limit >= len(r.AuditLog) {
		limit = len(r.AuditLog)
	}
	tail := make([]AuditEntry, limit)
	copy(tail, r.AuditLog[len(r.AuditLog)-limit:])
	return tail
}

// HasEncryptedCredential reports whether any stored credential is
// marked encrypted.
func (r *Record) HasEncryptedCredential() bool {
	for _, cred := range r.Credentials {
		if cred.Encrypted {
			return true
		}
	}
	return false
}

// Validate recomputes the encryption-consistency invariant: the
// metadata flag must be set whenever an encrypted credential exists,
// and an unset flag with encrypted entries (or vice versa, a record
// claiming encryption it cannot back up by mode or content) fails.
func (r *Record) Validate() error {
	if r.Credentials == nil {
		return fmt.Errorf("%w: credentials map is nil", ErrIntegrity)
	}
	for name, cred := range r.Credentials {
		if cred == nil {
			return fmt.Errorf("%w: credential %q is nil", ErrIntegrity, name)
		}
		if cred.Name != name {
			return fmt.Errorf("%w: credential %q stored under key %q", ErrIntegrity, cred.Name, name)
		}
	}
	if r.HasEncryptedCredential() && !r.Metadata.EncryptionEnabled {
		return fmt.Errorf("%w: encrypted credentials present but encryption not enabled in metadata", ErrIntegrity)
	}
	return nil
}
