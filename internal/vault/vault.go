package vault

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/live-labs/credvault/internal/record"
	"github.com/live-labs/credvault/internal/store"
)

var (
	ErrAcquisitionFailed      = errors.New("failed to acquire credential")
	ErrAcquisitionCancelled   = errors.New("acquisition cancelled")
	ErrAcquisitionUnavailable = errors.New("no acquisition collaborator configured")
)

// AcquisitionRequest describes a missing secret to the external
// acquisition collaborator.
type AcquisitionRequest struct {
	Name        string
	Description string
	Optional    bool
	HelpURL     string
}

// AcquisitionResult is the collaborator's answer. Cancelled and Error
// are both treated as failure to acquire by the engine; the batch
// report preserves the distinction for UX callers.
type AcquisitionResult struct {
	Success   bool
	Value     string
	Error     string
	Cancelled bool
}

// AcquireFunc is the external acquisition collaborator.
type AcquireFunc func(req AcquisitionRequest) AcquisitionResult

// Manager is the credential manager façade. Build it from an explicit
// storage manager; there is no process-wide default instance.
type Manager struct {
	store   *store.Manager
	acquire AcquireFunc
	logger  *slog.Logger
}

// New constructs a façade over the given storage manager. acquire may
// be nil when acquisition is never allowed.
func New(st *store.Manager, acquire AcquireFunc, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{store: st, acquire: acquire, logger: logger}
}

// GetOptions controls a single Get.
type GetOptions struct {
	// Validate runs the Kind's format rules against the retrieved or
	// acquired value.
	Validate bool
	// Kind selects the format rules. The zero value is KindGeneric;
	// use ClassifyName for name-based selection.
	Kind Kind
	// AllowAcquisition permits falling back to the acquisition
	// collaborator when the credential is absent.
	AllowAcquisition bool
}

// Get retrieves a credential. When absent and acquisition is allowed,
// the collaborator is invoked and a successful acquisition is stored
// before being returned.
func (m *Manager) Get(name string, req *AcquisitionRequest, opts GetOptions) (string, error) {
	value, err := m.store.Retrieve(name)
	if err == nil {
		if opts.Validate {
			if verr := m.validateValue(name, opts.Kind, value); verr != nil {
				return "", verr
			}
		}
		return value, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return "", err
	}

	if req == nil || !opts.AllowAcquisition {
		return "", err
	}
	if m.acquire == nil {
		return "", ErrAcquisitionUnavailable
	}

	req.Name = name
	result := m.acquire(*req)
	if !result.Success {
		if result.Cancelled {
			return "", fmt.Errorf("%w: %w", ErrAcquisitionFailed, ErrAcquisitionCancelled)
		}
		return "", fmt.Errorf("%w: %s", ErrAcquisitionFailed, result.Error)
	}

	if opts.Validate {
		if verr := m.validateValue(name, opts.Kind, result.Value); verr != nil {
			return "", verr
		}
	}

	if _, err := m.store.Store(name, result.Value); err != nil {
		return "", err
	}
	m.logger.Info("credential acquired and stored", "credential", name)
	return result.Value, nil
}

// validateValue runs format rules and records the outcome in the audit
// trail. The audit write is best-effort.
func (m *Manager) validateValue(name string, kind Kind, value string) error {
	verr := kind.Validate(value)
	errMsg := ""
	if verr != nil {
		errMsg = verr.Error()
	}
	if err := m.store.RecordAudit(record.ActionValidate, name, verr == nil, errMsg); err != nil {
		m.logger.Warn("failed to record validation audit entry", "credential", name, "error", err)
	}
	return verr
}

// Set validates and stores a credential under the given kind's rules.
func (m *Manager) Set(name, value string, kind Kind) (*record.StoredCredential, error) {
	if err := kind.Validate(value); err != nil {
		return nil, err
	}
	return m.store.Store(name, value)
}

// Remove deletes a credential.
func (m *Manager) Remove(name string) error {
	return m.store.Delete(name)
}

// List returns metadata for every stored credential, never values.
func (m *Manager) List() ([]store.ListEntry, error) {
	return m.store.List()
}

// Audit returns the most recent limit audit entries.
func (m *Manager) Audit(limit int) ([]record.AuditEntry, error) {
	return m.store.AuditLog(limit)
}

// Verify runs the storage integrity check.
func (m *Manager) Verify() (*store.IntegrityReport, error) {
	return m.store.ValidateIntegrity()
}
