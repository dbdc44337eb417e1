// internal/config/keyring.go
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/99designs/keyring"
)

const (
	serviceName   = "lazydata"
	masterKeyItem = "__master_key__"
)

// KeyringStore wraps the OS keyring entry holding the master key.
type KeyringStore struct {
	ring keyring.Keyring
}

// NewKeyringStore creates a new keyring store instance
func NewKeyringStore() (*KeyringStore, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName:              serviceName,
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	return &KeyringStore{ring: ring}, nil
}

// MasterKey returns the stored 32-byte key, generating and storing one on
// first use.
func (k *KeyringStore) MasterKey() ([]byte, error) {
	item, err := k.ring.Get(masterKeyItem)
	if err == nil {
		return hex.DecodeString(string(item.Data))
	}
	if !errors.Is(err, keyring.ErrKeyNotFound) {
		return nil, fmt.Errorf("read master key: %w", err)
	}

	key := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, err
	}
	if err := k.ring.Set(keyring.Item{
		Key:   masterKeyItem,
		Data:  []byte(hex.EncodeToString(key)),
		Label: "lazydata master key",
	}); err != nil {
		return nil, fmt.Errorf("store master key: %w", err)
	}
	return key, nil
}
