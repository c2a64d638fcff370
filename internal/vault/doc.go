// Package vault is the credential manager façade. It composes the
// storage manager with per-kind format validation and an external
// acquisition callback for secrets that are requested but absent.
//
// Credential kinds are an explicit tagged variant (API key, token,
// URL, email, generic). Callers either pass a kind or run
// ClassifyName; no operation dispatches on name substrings implicitly.
//
// Expected failures (not found, validation, failed acquisition) are
// sentinel errors; Classify maps any engine error to its taxonomy
// label so callers can branch on kind at the boundary.
package vault
