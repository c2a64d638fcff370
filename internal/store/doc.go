// Package store owns the lifecycle of the credential record: load,
// mutate, persist, restrictive permissions, structural invariants.
//
// Every mutating operation runs the full read-record, mutate-in-memory,
// write-record cycle under an exclusive lock keyed by the resolved
// storage path, so concurrent stores against the same path serialize
// instead of silently dropping each other's writes. Retrieval mutates
// access bookkeeping and therefore takes the same lock as writes.
//
// Storage backends:
//   - encrypted-file / plaintext-env-file: JSON document on disk,
//     directory 0700, file 0600 (permissions best-effort, logged)
//   - bolt: the same document bytes in a bbolt bucket
//   - in-memory-keychain: the document bytes as an OS-keyring item
//   - memory: ephemeral, for tests
//
// When a passphrase is configured the serialized record is wrapped in a
// second, file-wide encryption envelope on top of per-value encryption.
package store
