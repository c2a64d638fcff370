package crypto

import (
	"encoding/hex"
	"errors"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	plaintexts := []string{
		"sk-ABCDEFGHIJKLMNOPQRSTUVWXYZ0123",
		"a",
		"value with spaces and symbols !@#$%^&*()",
		"unicode: пароль 密码 🔑",
	}

	for _, plaintext := range plaintexts {
		env, err := Encrypt(plaintext, "Correct-Horse-9!")
		if err != nil {
			t.Fatalf("Encrypt(%q) failed: %v", plaintext, err)
		}

		got, err := Decrypt(env, "Correct-Horse-9!")
		if err != nil {
			t.Fatalf("Decrypt failed: %v", err)
		}
		if got != plaintext {
			t.Errorf("Round trip mismatch: got %q, want %q", got, plaintext)
		}
	}
}

func TestEncryptRejectsEmptyInputs(t *testing.T) {
	if _, err := Encrypt("", "passphrase"); !errors.Is(err, ErrEmptyPlaintext) {
		t.Errorf("Expected ErrEmptyPlaintext, got %v", err)
	}
	if _, err := Encrypt("value", ""); !errors.Is(err, ErrEmptyPassphrase) {
		t.Errorf("Expected ErrEmptyPassphrase, got %v", err)
	}
}

func TestWrongPassphraseFails(t *testing.T) {
	env, err := Encrypt("secret-value", "Correct-Horse-9!")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	_, err = Decrypt(env, "Wrong-Passphrase!")
	if !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("Expected ErrDecryptionFailed, got %v", err)
	}
}

func TestCiphertextNonDeterminism(t *testing.T) {
	env1, err := Encrypt("same-value", "same-passphrase-1!")
	if err != nil {
		t.Fatalf("First encrypt failed: %v", err)
	}
	env2, err := Encrypt("same-value", "same-passphrase-1!")
	if err != nil {
		t.Fatalf("Second encrypt failed: %v", err)
	}

	if env1.Ciphertext == env2.Ciphertext {
		t.Error("Ciphertext should differ between calls")
	}
	if env1.IV == env2.IV {
		t.Error("IV should differ between calls")
	}
	if env1.Salt == env2.Salt {
		t.Error("Salt should differ between calls")
	}
}

// flipByte returns a copy of the hex field with one bit of the byte at
// index i inverted.
func flipByte(t *testing.T, field string, i int) string {
	t.Helper()
	raw, err := hex.DecodeString(field)
	if err != nil {
		t.Fatalf("Failed to decode field: %v", err)
	}
	raw[i] ^= 0x01
	return hex.EncodeToString(raw)
}

func TestTamperDetection(t *testing.T) {
	original, err := Encrypt("tamper-me", "Correct-Horse-9!")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(env *Envelope)
	}{
		{"ciphertext first byte", func(env *Envelope) { env.Ciphertext = flipByte(t, env.Ciphertext, 0) }},
		{"ciphertext last byte", func(env *Envelope) {
			env.Ciphertext = flipByte(t, env.Ciphertext, len(env.Ciphertext)/2-1)
		}},
		{"auth tag", func(env *Envelope) { env.AuthTag = flipByte(t, env.AuthTag, 3) }},
		{"iv", func(env *Envelope) { env.IV = flipByte(t, env.IV, 7) }},
		{"salt", func(env *Envelope) { env.Salt = flipByte(t, env.Salt, 15) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := *original
			tt.mutate(&env)

			got, err := Decrypt(&env, "Correct-Horse-9!")
			if err == nil {
				t.Fatalf("Tampered envelope decrypted silently to %q", got)
			}
			if !errors.Is(err, ErrDecryptionFailed) {
				t.Errorf("Expected ErrDecryptionFailed, got %v", err)
			}
		})
	}
}

func TestDecryptRejectsMalformedEnvelopes(t *testing.T) {
	valid, err := Encrypt("value", "Correct-Horse-9!")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(env *Envelope)
		want   error
	}{
		{"missing ciphertext", func(env *Envelope) { env.Ciphertext = "" }, ErrInvalidEnvelope},
		{"missing iv", func(env *Envelope) { env.IV = "" }, ErrInvalidEnvelope},
		{"missing salt", func(env *Envelope) { env.Salt = "" }, ErrInvalidEnvelope},
		{"missing tag", func(env *Envelope) { env.AuthTag = "" }, ErrInvalidEnvelope},
		{"non-hex iv", func(env *Envelope) { env.IV = "zzzz" }, ErrInvalidEnvelope},
		{"short salt", func(env *Envelope) { env.Salt = "abcd" }, ErrInvalidEnvelope},
		{"unknown algorithm", func(env *Envelope) { env.Algorithm = "rot13" }, ErrUnknownAlgorithm},
		{"bad iteration count", func(env *Envelope) { env.Algorithm = "aes-256-gcm+pbkdf2-sha256/zero" }, ErrUnknownAlgorithm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := *valid
			tt.mutate(&env)

			if _, err := Decrypt(&env, "Correct-Horse-9!"); !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}

	if _, err := Decrypt(nil, "Correct-Horse-9!"); !errors.Is(err, ErrInvalidEnvelope) {
		t.Errorf("Expected ErrInvalidEnvelope for nil envelope, got %v", err)
	}
}

func TestAlgorithmIdentifierPersisted(t *testing.T) {
	env, err := Encrypt("value", "Correct-Horse-9!")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	want := "aes-256-gcm+pbkdf2-sha256/210000"
	if env.Algorithm != want {
		t.Errorf("Algorithm mismatch: got %q, want %q", env.Algorithm, want)
	}
}

func TestDecryptHonorsEnvelopeIterations(t *testing.T) {
	// An envelope written under a lower iteration count must stay
	// decryptable with the count from its own algorithm field.
	kdf := &KDF{Salt: make([]byte, SaltSize), Iterations: 1000}
	for i := range kdf.Salt {
		kdf.Salt[i] = byte(i)
	}
	key := kdf.DeriveKey([]byte("Correct-Horse-9!"))
	defer ClearBytes(key)

	gcm, err := newGCM(key)
	if err != nil {
		t.Fatalf("newGCM failed: %v", err)
	}
	iv := make([]byte, IVSize)
	sealed := gcm.Seal(nil, iv, []byte("legacy-value"), []byte(domainTag))

	env := &Envelope{
		Ciphertext: hex.EncodeToString(sealed[:len(sealed)-TagSize]),
		IV:         hex.EncodeToString(iv),
		Salt:       hex.EncodeToString(kdf.Salt),
		AuthTag:    hex.EncodeToString(sealed[len(sealed)-TagSize:]),
		Algorithm:  kdf.AlgorithmID(),
	}

	got, err := Decrypt(env, "Correct-Horse-9!")
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if got != "legacy-value" {
		t.Errorf("Got %q, want %q", got, "legacy-value")
	}
}

func TestPassphraseScore(t *testing.T) {
	tests := []struct {
		passphrase string
		score      int
		acceptable bool
	}{
		{"", 0, false},
		{"short", 1, false},
		{"alllowercase", 2, false},
		{"Ab1", 3, false},     // score 3 but too short
		{"Abcdef12", 3, true}, // minimum acceptable
		{"Correct-Horse-9!", 5, true},
		{"correcthorsebatterystaple", 2, false},
		{"PASSWORD123!", 4, true},
	}

	for _, tt := range tests {
		if got := Score(tt.passphrase); got != tt.score {
			t.Errorf("Score(%q) = %d, want %d", tt.passphrase, got, tt.score)
		}
		if got := Acceptable(tt.passphrase); got != tt.acceptable {
			t.Errorf("Acceptable(%q) = %v, want %v", tt.passphrase, got, tt.acceptable)
		}
	}
}
