package cmd

import (
	"fmt"
	"os"

	"github.com/live-labs/credvault/internal/vault"
)

// Store saves a credential. The value is prompted for when not given
// on the command line, so secrets stay out of shell history.
func Store(name, value, kindName string) {
	v, st, err := newVault()
	if err != nil {
		HandleError(err)
	}
	defer st.Close()

	if value == "" {
		value, err = ReadSecret(fmt.Sprintf("Enter value for %s: ", name))
		if err != nil {
			HandleError(err)
		}
	}

	kind := vault.ClassifyName(name)
	if kindName != "" {
		kind, err = parseKind(kindName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
	}

	cred, err := v.Set(name, value, kind)
	if err != nil {
		HandleError(err)
	}

	state := "plaintext"
	if cred.Encrypted {
		state = "encrypted"
	}
	fmt.Printf("Stored %s (%s)\n", name, state)
}

func parseKind(name string) (vault.Kind, error) {
	switch name {
	case "api-key":
		return vault.KindAPIKey, nil
	case "token":
		return vault.KindToken, nil
	case "url":
		return vault.KindURL, nil
	case "email":
		return vault.KindEmail, nil
	case "generic":
		return vault.KindGeneric, nil
	default:
		return vault.KindGeneric, fmt.Errorf("unknown kind %q (api-key, token, url, email, generic)", name)
	}
}
