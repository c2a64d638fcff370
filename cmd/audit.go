package cmd

import (
	"fmt"
	"time"
)

// Audit prints the most recent audit entries, most recent last
func Audit(limit int) {
	_, st, err := newVault()
	if err != nil {
		HandleError(err)
	}
	defer st.Close()

	entries, err := st.AuditLog(limit)
	if err != nil {
		HandleError(err)
	}

	if len(entries) == 0 {
		fmt.Println("Audit log is empty")
		return
	}

	for _, e := range entries {
		outcome := "ok"
		if !e.Success {
			outcome = "FAILED"
		}
		line := fmt.Sprintf("%s  %-8s %-30s %s", e.Timestamp.Format(time.RFC3339), e.Action, e.CredentialKey, outcome)
		if e.Error != "" {
			line += fmt.Sprintf(" (%s)", e.Error)
		}
		fmt.Println(line)
	}
}
