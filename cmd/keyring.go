package cmd

import (
	"fmt"
	"os"

	"github.com/live-labs/credvault/internal/keyring"
	"github.com/live-labs/credvault/internal/store"
)

// KeyringSave stores the vault passphrase in the OS keyring, keyed by
// the resolved storage path
func KeyringSave() {
	cfg := store.ConfigFromEnv()
	path, err := store.ResolvePath(cfg.Path)
	if err != nil {
		HandleError(err)
	}

	passphrase := cfg.Passphrase
	if passphrase == "" {
		passphrase, err = ReadSecret("Enter passphrase: ")
		if err != nil {
			HandleError(err)
		}
	}

	// Verify the passphrase opens the record before trusting it.
	cfg.Passphrase = passphrase
	st, err := store.NewManager(cfg, nil)
	if err != nil {
		HandleError(err)
	}
	defer st.Close()
	if _, err := st.Load(); err != nil {
		HandleError(err)
	}

	if err := keyring.SavePassphrase(path, passphrase); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to save to keyring: %s\n", err)
		os.Exit(1)
	}

	fmt.Println("Passphrase saved to keyring")
}

// KeyringDelete removes the passphrase from the OS keyring
func KeyringDelete() {
	path, err := store.ResolvePath(store.ConfigFromEnv().Path)
	if err != nil {
		HandleError(err)
	}

	if err := keyring.DeletePassphrase(path); err != nil {
		fmt.Println("No passphrase stored in keyring")
		return
	}
	fmt.Println("Passphrase removed from keyring")
}

// KeyringStatus checks if a passphrase is stored in the keyring
func KeyringStatus() {
	path, err := store.ResolvePath(store.ConfigFromEnv().Path)
	if err != nil {
		HandleError(err)
	}

	if keyring.HasPassphrase(path) {
		fmt.Println("Passphrase: stored in keyring")
	} else {
		fmt.Println("Passphrase: not stored")
	}
}
