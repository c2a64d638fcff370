// Package record defines the persisted credential record document.
//
// A record is a single JSON document holding:
//   - credentials: name -> stored credential (unique by name)
//   - metadata: creation/modification times, encryption flag, method
//   - auditLog: bounded trail of the most recent 1,000 operations
//
// Structural invariants:
//   - metadata.encryptionEnabled is true iff an encrypted credential
//     exists or the record was created in encrypted mode while empty
//   - the audit log never exceeds MaxAuditEntries after a save;
//     the oldest entries are evicted first
package record
