package cmd

import (
	"fmt"

	"github.com/live-labs/credvault/internal/vault"
)

// Get retrieves a credential and prints its value to stdout. With
// acquire enabled, a missing credential is prompted for and stored.
func Get(name string, validate, acquire bool) {
	v, st, err := newVault()
	if err != nil {
		HandleError(err)
	}
	defer st.Close()

	var req *vault.AcquisitionRequest
	if acquire {
		req = &vault.AcquisitionRequest{}
	}

	value, err := v.Get(name, req, vault.GetOptions{
		Validate:         validate,
		Kind:             vault.ClassifyName(name),
		AllowAcquisition: acquire,
	})
	if err != nil {
		HandleError(err)
	}

	fmt.Println(value)
}
