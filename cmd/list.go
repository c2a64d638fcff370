package cmd

import (
	"fmt"
	"sort"
)

// List shows stored credential metadata. Secret values are never
// printed.
func List() {
	_, st, err := newVault()
	if err != nil {
		HandleError(err)
	}
	defer st.Close()

	entries, err := st.List()
	if err != nil {
		HandleError(err)
	}

	if len(entries) == 0 {
		fmt.Println("No credentials stored")
		return
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	fmt.Printf("Credentials in %s:\n", st.Path())
	for _, e := range entries {
		state := "plaintext"
		if e.Encrypted {
			state = "encrypted"
		}
		fmt.Printf("  %s (%s, stored %s, accessed %d times)\n", e.Name, state, e.StoredAt, e.AccessCount)
	}
}
