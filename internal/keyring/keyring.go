// Package keyring wraps the OS keyring for credvault. It stores two
// kinds of items, both labeled by the resolved storage path: the vault
// passphrase, and — for the keychain storage method — the serialized
// record document itself.
package keyring

import (
	"github.com/zalando/go-keyring"
)

const (
	serviceName = "credvault"
	recordName  = "credvault-record"
)

// SavePassphrase stores a vault passphrase in the OS keyring
func SavePassphrase(label string, passphrase string) error {
	return keyring.Set(serviceName, label, passphrase)
}

// GetPassphrase retrieves a vault passphrase from the OS keyring
func GetPassphrase(label string) (string, error) {
	return keyring.Get(serviceName, label)
}

// DeletePassphrase removes a vault passphrase from the OS keyring
func DeletePassphrase(label string) error {
	return keyring.Delete(serviceName, label)
}

// HasPassphrase checks if a passphrase is stored in the keyring
func HasPassphrase(label string) bool {
	_, err := keyring.Get(serviceName, label)
	return err == nil
}

// SaveRecord stores a serialized record document under the given label
func SaveRecord(label string, data []byte) error {
	return keyring.Set(recordName, label, string(data))
}

// GetRecord retrieves a serialized record document. The second return
// is false when no record is stored under the label.
func GetRecord(label string) ([]byte, bool, error) {
	data, err := keyring.Get(recordName, label)
	if err == keyring.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(data), true, nil
}

// DeleteRecord removes a serialized record document
func DeleteRecord(label string) error {
	return keyring.Delete(recordName, label)
}
