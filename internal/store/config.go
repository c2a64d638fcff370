package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Method selects where the record document lives.
type Method string

const (
	MethodKeychain      Method = "in-memory-keychain"
	MethodEncryptedFile Method = "encrypted-file"
	MethodPlainFile     Method = "plaintext-env-file"
	MethodBolt          Method = "bolt"
	MethodMemory        Method = "memory"
)

// Environment variables forming the configuration surface.
const (
	EnvStorageMethod = "CREDVAULT_STORAGE_METHOD"
	EnvStoragePath   = "CREDVAULT_STORAGE_PATH"
	EnvSecurityLevel = "CREDVAULT_SECURITY_LEVEL"
	EnvPassphrase    = "CREDVAULT_PASSPHRASE"
)

// DefaultPath is the record location when none is configured.
const DefaultPath = "~/.credvault/credentials.json"

// Config is the explicit construction input for a Manager. There are
// no process-wide defaults baked into the engine; the composition root
// builds one of these and passes it down.
type Config struct {
	Method        Method
	Path          string
	SecurityLevel string
	// Passphrase enables encryption when non-empty: per-value
	// envelopes plus a second file-wide envelope on save.
	Passphrase string
}

// ConfigFromEnv reads the configuration surface from the environment.
// Values are trusted beyond structural checks, which happen in
// NewManager.
func ConfigFromEnv() Config {
	cfg := Config{
		Method:        Method(os.Getenv(EnvStorageMethod)),
		Path:          os.Getenv(EnvStoragePath),
		SecurityLevel: os.Getenv(EnvSecurityLevel),
		Passphrase:    os.Getenv(EnvPassphrase),
	}
	if cfg.Method == "" {
		cfg.Method = MethodEncryptedFile
	}
	if cfg.Path == "" {
		cfg.Path = DefaultPath
	}
	return cfg
}

// ResolvePath expands a leading home-directory shorthand and returns
// an absolute path.
func ResolvePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("storage path must not be empty")
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve storage path: %w", err)
	}
	return abs, nil
}
