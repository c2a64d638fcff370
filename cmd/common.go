package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/live-labs/credvault/internal/crypto"
	"github.com/live-labs/credvault/internal/keyring"
	"github.com/live-labs/credvault/internal/record"
	"github.com/live-labs/credvault/internal/store"
	"github.com/live-labs/credvault/internal/vault"
)

// ReadSecret reads a line from the terminal without echoing
func ReadSecret(prompt string) (string, error) {
	fmt.Print(prompt)

	secret, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // New line after input

	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(secret), nil
}

// GetPassphrase resolves the vault passphrase: environment variable
// first, then the OS keyring entry for this storage path, then a
// terminal prompt.
func GetPassphrase(path string) (string, error) {
	if passphrase := os.Getenv(store.EnvPassphrase); passphrase != "" {
		return passphrase, nil
	}
	if passphrase, err := keyring.GetPassphrase(path); err == nil {
		return passphrase, nil
	}
	return ReadSecret("Enter passphrase: ")
}

// newVault builds the façade from the environment configuration. This
// is the composition root: the one place a pre-built instance exists.
func newVault() (*vault.Manager, *store.Manager, error) {
	cfg := store.ConfigFromEnv()

	if cfg.Method == store.MethodEncryptedFile && cfg.Passphrase == "" {
		path, err := store.ResolvePath(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		cfg.Passphrase, err = GetPassphrase(path)
		if err != nil {
			return nil, nil, err
		}
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	st, err := store.NewManager(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return vault.New(st, promptAcquire, logger), st, nil
}

// promptAcquire is the CLI acquisition collaborator: it asks the user
// for a missing secret on the terminal.
func promptAcquire(req vault.AcquisitionRequest) vault.AcquisitionResult {
	fmt.Printf("Credential %q is not stored.\n", req.Name)
	if req.Description != "" {
		fmt.Printf("  %s\n", req.Description)
	}
	if req.HelpURL != "" {
		fmt.Printf("  See: %s\n", req.HelpURL)
	}

	value, err := ReadSecret(fmt.Sprintf("Enter value for %s (empty to cancel): ", req.Name))
	if err != nil {
		return vault.AcquisitionResult{Success: false, Error: err.Error()}
	}
	if strings.TrimSpace(value) == "" {
		return vault.AcquisitionResult{Success: false, Cancelled: true}
	}
	return vault.AcquisitionResult{Success: true, Value: value}
}

// Confirm asks a yes/no question on stdin
func Confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// HandleError prints a friendly message for known failures and exits
func HandleError(err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		fmt.Fprintf(os.Stderr, "Error: credential not found\n")
	case errors.Is(err, crypto.ErrDecryptionFailed):
		fmt.Fprintf(os.Stderr, "Error: decryption failed (wrong passphrase or tampered record)\n")
	case errors.Is(err, store.ErrCorrupted):
		fmt.Fprintf(os.Stderr, "Error: storage record is corrupted\n")
		fmt.Fprintf(os.Stderr, "The record file exists but is not a valid credential record\n")
	case errors.Is(err, store.ErrWeakPassphrase):
		fmt.Fprintf(os.Stderr, "Error: passphrase too weak\n")
		fmt.Fprintf(os.Stderr, "Use at least 8 characters mixing case, digits, and symbols\n")
	case errors.Is(err, record.ErrIntegrity):
		fmt.Fprintf(os.Stderr, "Error: record failed integrity validation: %s\n", err)
	default:
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
	os.Exit(1)
}
