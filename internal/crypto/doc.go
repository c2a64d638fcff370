// Package crypto provides the envelope cipher for credvault.
//
// Encryption uses AES-256-GCM with:
//   - 32-byte key derived from a passphrase via PBKDF2
//   - 16-byte random IV per encryption operation (the record format
//     stores a 128-bit IV, so GCM runs with an extended nonce size)
//   - 32-byte random salt per encryption operation, never reused
//   - a fixed associated-data tag binding envelopes to this engine
//
// Key derivation uses PBKDF2-HMAC-SHA256 with:
//   - 32-byte random salt (stored in the envelope, unencrypted)
//   - 210,000 iterations (OWASP minimum recommendation)
//
// The iteration count is part of the persisted algorithm identifier,
// so envelopes written under older defaults remain decryptable.
//
// Memory safety:
//   - Use ClearBytes() to zero sensitive data after use
package crypto
