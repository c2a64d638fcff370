package cmd

import (
	"fmt"
	"os"
)

// Remove deletes credentials from the record
func Remove(names []string, force bool) {
	if len(names) == 0 {
		fmt.Fprintf(os.Stderr, "Error: rm requires at least one credential name\n")
		fmt.Fprintf(os.Stderr, "Usage: credvault rm <name> [name...]\n")
		os.Exit(1)
	}

	v, st, err := newVault()
	if err != nil {
		HandleError(err)
	}
	defer st.Close()

	for _, name := range names {
		if !force && !Confirm(fmt.Sprintf("Delete credential %q?", name)) {
			fmt.Printf("Skipped %s\n", name)
			continue
		}
		if err := v.Remove(name); err != nil {
			HandleError(err)
		}
		fmt.Printf("Deleted %s\n", name)
	}
}
