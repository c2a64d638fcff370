package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	SaltSize     = 32     // Salt size in bytes
	KeySize      = 32     // AES-256 key size
	IVSize       = 16     // GCM nonce size (record format stores 128-bit IVs)
	TagSize      = 16     // GCM authentication tag size
	DefaultIters = 210000 // Default PBKDF2 iterations (OWASP minimum)
)

// algorithmPrefix identifies the cipher and derivation scheme. The
// iteration count is appended so the full identifier is reproducible:
// "aes-256-gcm+pbkdf2-sha256/210000".
const algorithmPrefix = "aes-256-gcm+pbkdf2-sha256"

// domainTag is bound into the GCM authentication check so envelopes
// produced here cannot be replayed into an unrelated decryption context.
const domainTag = "credvault.envelope.v1"

var (
	ErrEmptyPlaintext   = errors.New("plaintext must not be empty")
	ErrEmptyPassphrase  = errors.New("passphrase must not be empty")
	ErrEncryptionFailed = errors.New("encryption failed")
	ErrDecryptionFailed = errors.New("decryption failed")
	ErrInvalidEnvelope  = errors.New("invalid envelope")
	ErrUnknownAlgorithm = errors.New("unknown algorithm identifier")
)

// KDF handles key derivation from passphrases
type KDF struct {
	Salt       []byte
	Iterations int
}

// NewKDF creates a new KDF with a random salt
func NewKDF() (*KDF, error) {
	salt, err := GenerateRandom(SaltSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	return &KDF{
		Salt:       salt,
		Iterations: DefaultIters,
	}, nil
}

// DeriveKey derives an encryption key from a passphrase
func (k *KDF) DeriveKey(passphrase []byte) []byte {
	return pbkdf2.Key(passphrase, k.Salt, k.Iterations, KeySize, sha256.New)
}

// AlgorithmID returns the persisted algorithm identifier for this KDF's
// parameters.
func (k *KDF) AlgorithmID() string {
	return fmt.Sprintf("%s/%d", algorithmPrefix, k.Iterations)
}

// parseAlgorithm extracts the iteration count from a persisted algorithm
// identifier. Envelopes written under a different iteration default stay
// decryptable because the count travels with the envelope.
func parseAlgorithm(id string) (int, error) {
	prefix, itersStr, ok := strings.Cut(id, "/")
	if !ok || prefix != algorithmPrefix {
		return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, id)
	}
	iters, err := strconv.Atoi(itersStr)
	if err != nil || iters <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, id)
	}
	return iters, nil
}

// Envelope is the output of one encryption operation. The four binary
// fields are hex-encoded so the envelope serializes into the record
// document as plain strings.
type Envelope struct {
	Ciphertext string `json:"ciphertext"`
	IV         string `json:"iv"`
	Salt       string `json:"salt"`
	AuthTag    string `json:"authTag"`
	Algorithm  string `json:"algorithm"`
}

// Encrypt encrypts plaintext under a key derived from the passphrase,
// using a fresh random salt and IV. The same plaintext and passphrase
// produce a different envelope on every call.
func Encrypt(plaintext, passphrase string) (*Envelope, error) {
	if plaintext == "" {
		return nil, ErrEmptyPlaintext
	}
	if passphrase == "" {
		return nil, ErrEmptyPassphrase
	}

	kdf, err := NewKDF()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
	}

	key := kdf.DeriveKey([]byte(passphrase))
	defer ClearBytes(key)

	iv, err := GenerateRandom(IVSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
	}

	// Seal appends the 16-byte tag to the ciphertext; the record format
	// stores them as separate fields.
	sealed := gcm.Seal(nil, iv, []byte(plaintext), []byte(domainTag))
	ciphertext := sealed[:len(sealed)-TagSize]
	tag := sealed[len(sealed)-TagSize:]

	return &Envelope{
		Ciphertext: hex.EncodeToString(ciphertext),
		IV:         hex.EncodeToString(iv),
		Salt:       hex.EncodeToString(kdf.Salt),
		AuthTag:    hex.EncodeToString(tag),
		Algorithm:  kdf.AlgorithmID(),
	}, nil
}

// Decrypt re-derives the key from the passphrase and the envelope's salt
// and performs authenticated decryption. A wrong passphrase, corrupted
// ciphertext, corrupted tag, or any bit-level tampering fails the tag
// check and returns ErrDecryptionFailed; the cause is deliberately not
// distinguished.
func Decrypt(env *Envelope, passphrase string) (string, error) {
	if passphrase == "" {
		return "", ErrEmptyPassphrase
	}
	if env == nil {
		return "", fmt.Errorf("%w: missing envelope", ErrInvalidEnvelope)
	}

	iters, err := parseAlgorithm(env.Algorithm)
	if err != nil {
		return "", err
	}

	ciphertext, err := decodeField("ciphertext", env.Ciphertext, 0)
	if err != nil {
		return "", err
	}
	iv, err := decodeField("iv", env.IV, IVSize)
	if err != nil {
		return "", err
	}
	salt, err := decodeField("salt", env.Salt, SaltSize)
	if err != nil {
		return "", err
	}
	tag, err := decodeField("authTag", env.AuthTag, TagSize)
	if err != nil {
		return "", err
	}

	kdf := &KDF{Salt: salt, Iterations: iters}
	key := kdf.DeriveKey([]byte(passphrase))
	defer ClearBytes(key)

	gcm, err := newGCM(key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := gcm.Open(nil, iv, sealed, []byte(domainTag))
	if err != nil {
		return "", ErrDecryptionFailed
	}

	return string(plaintext), nil
}

// newGCM builds an AES-256-GCM instance with the extended 16-byte nonce
// size the record format requires.
func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCMWithNonceSize(block, IVSize)
}

// decodeField hex-decodes an envelope field, enforcing its expected
// length when wantLen is non-zero.
func decodeField(name, value string, wantLen int) ([]byte, error) {
	if value == "" {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidEnvelope, name)
	}
	b, err := hex.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed %s", ErrInvalidEnvelope, name)
	}
	if wantLen != 0 && len(b) != wantLen {
		return nil, fmt.Errorf("%w: %s must be %d bytes", ErrInvalidEnvelope, name, wantLen)
	}
	return b, nil
}

// ClearBytes securely clears a byte slice
func ClearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ConstantTimeCompare performs a constant-time comparison of two byte slices
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// GenerateRandom generates n random bytes
func GenerateRandom(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return b, nil
}
