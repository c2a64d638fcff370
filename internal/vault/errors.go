package vault

import (
	"errors"

	"github.com/live-labs/credvault/internal/crypto"
	"github.com/live-labs/credvault/internal/record"
	"github.com/live-labs/credvault/internal/store"
)

// ErrorKind is the taxonomy label attached to engine failures so
// callers can branch on kind at the boundary without matching
// sentinels themselves.
type ErrorKind string

const (
	ErrorValidation  ErrorKind = "validation"
	ErrorEncryption  ErrorKind = "encryption"
	ErrorDecryption  ErrorKind = "decryption"
	ErrorCorruption  ErrorKind = "corruption"
	ErrorNotFound    ErrorKind = "not_found"
	ErrorIntegrity   ErrorKind = "integrity"
	ErrorAcquisition ErrorKind = "acquisition"
	ErrorIO          ErrorKind = "io"
)

// Classify maps an engine error to its taxonomy label. Anything not
// matching a known expected condition is an I/O-level failure.
func Classify(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrInvalidFormat),
		errors.Is(err, store.ErrEmptyName),
		errors.Is(err, store.ErrEmptyValue),
		errors.Is(err, store.ErrWeakPassphrase),
		errors.Is(err, crypto.ErrEmptyPlaintext),
		errors.Is(err, crypto.ErrEmptyPassphrase):
		return ErrorValidation
	case errors.Is(err, crypto.ErrEncryptionFailed):
		return ErrorEncryption
	case errors.Is(err, crypto.ErrDecryptionFailed),
		errors.Is(err, crypto.ErrInvalidEnvelope),
		errors.Is(err, crypto.ErrUnknownAlgorithm),
		errors.Is(err, store.ErrPassphraseRequired):
		return ErrorDecryption
	case errors.Is(err, store.ErrCorrupted):
		return ErrorCorruption
	case errors.Is(err, store.ErrNotFound):
		return ErrorNotFound
	case errors.Is(err, record.ErrIntegrity):
		return ErrorIntegrity
	case errors.Is(err, ErrAcquisitionFailed), errors.Is(err, ErrAcquisitionUnavailable):
		return ErrorAcquisition
	default:
		return ErrorIO
	}
}
