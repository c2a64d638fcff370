package record

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestUpsertOverwritesExisting(t *testing.T) {
	rec := New("plaintext-file", false)

	first := rec.Upsert("api_key", "old-value", false)
	first.Touch()
	first.Touch()

	second := rec.Upsert("api_key", "new-value", false)

	if len(rec.Credentials) != 1 {
		t.Fatalf("Expected 1 credential, got %d", len(rec.Credentials))
	}
	if rec.Credentials["api_key"].Value != "new-value" {
		t.Errorf("Value not overwritten: got %q", rec.Credentials["api_key"].Value)
	}
	if second.AccessCount != 0 {
		t.Errorf("Upsert should reset access count, got %d", second.AccessCount)
	}
}

func TestUpsertEncryptedEnablesMetadataFlag(t *testing.T) {
	rec := New("encrypted-file", false)
	rec.Upsert("token", "envelope-json", true)

	if !rec.Metadata.EncryptionEnabled {
		t.Error("Storing an encrypted credential should enable the metadata flag")
	}
	if err := rec.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestTouchBumpsAccessBookkeeping(t *testing.T) {
	rec := New("plaintext-file", false)
	cred := rec.Upsert("api_key", "value", false)
	before := cred.LastAccessed

	time.Sleep(time.Millisecond)
	cred.Touch()

	if cred.AccessCount != 1 {
		t.Errorf("Expected access count 1, got %d", cred.AccessCount)
	}
	if !cred.LastAccessed.After(before) {
		t.Error("LastAccessed should move forward")
	}

	cred.Touch()
	if cred.AccessCount != 2 {
		t.Errorf("Expected access count 2, got %d", cred.AccessCount)
	}
}

func TestAuditLogBounded(t *testing.T) {
	rec := New("plaintext-file", false)

	for i := 0; i < 1500; i++ {
		rec.AppendAudit(AuditEntry{
			Action:        ActionStore,
			CredentialKey: fmt.Sprintf("cred-%d", i),
			Success:       true,
		})
	}

	if len(rec.AuditLog) != MaxAuditEntries {
		t.Fatalf("Expected %d entries, got %d", MaxAuditEntries, len(rec.AuditLog))
	}

	// The most recent entries survive, oldest are evicted.
	if rec.AuditLog[0].CredentialKey != "cred-500" {
		t.Errorf("Oldest surviving entry should be cred-500, got %s", rec.AuditLog[0].CredentialKey)
	}
	if rec.AuditLog[len(rec.AuditLog)-1].CredentialKey != "cred-1499" {
		t.Errorf("Newest entry should be cred-1499, got %s", rec.AuditLog[len(rec.AuditLog)-1].CredentialKey)
	}
}

func TestAuditTail(t *testing.T) {
	rec := New("plaintext-file", false)
	for i := 0; i < 10; i++ {
		rec.AppendAudit(AuditEntry{
			Action:        ActionRetrieve,
			CredentialKey: fmt.Sprintf("cred-%d", i),
			Success:       true,
		})
	}

	tail := rec.AuditTail(3)
	if len(tail) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(tail))
	}
	if tail[2].CredentialKey != "cred-9" {
		t.Errorf("Most recent entry should be last, got %s", tail[2].CredentialKey)
	}

	all := rec.AuditTail(0)
	if len(all) != 10 {
		t.Errorf("Non-positive limit should return the whole log, got %d", len(all))
	}

	over := rec.AuditTail(100)
	if len(over) != 10 {
		t.Errorf("Limit beyond length should return the whole log, got %d", len(over))
	}
}

func TestValidateDetectsInconsistentEncryptionFlag(t *testing.T) {
	rec := New("encrypted-file", false)
	rec.Upsert("token", "envelope-json", true)
	// Hand-break the invariant.
	rec.Metadata.EncryptionEnabled = false

	if err := rec.Validate(); !errors.Is(err, ErrIntegrity) {
		t.Errorf("Expected ErrIntegrity, got %v", err)
	}
}

func TestValidateDetectsKeyNameMismatch(t *testing.T) {
	rec := New("plaintext-file", false)
	rec.Upsert("api_key", "value", false)
	rec.Credentials["api_key"].Name = "other_name"

	if err := rec.Validate(); !errors.Is(err, ErrIntegrity) {
		t.Errorf("Expected ErrIntegrity, got %v", err)
	}
}

func TestEmptyEncryptedRecordIsValid(t *testing.T) {
	// A record created in encrypted mode is consistent even with no
	// credentials stored yet.
	rec := New("encrypted-file", true)
	if err := rec.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}
