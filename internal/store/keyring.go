package store

import (
	"errors"
	"strings"

	"github.com/99designs/keyring"

	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/domain"
)

// KeyringKV stores values in the operating system credential store
// (Keychain, Secret Service, wincred, ...) via 99designs/keyring.
type KeyringKV struct {
	ring keyring.Keyring
}

// NewKeyringKV opens the OS keyring under the given service name.
func NewKeyringKV(service string) (*KeyringKV, error) {
	ring, err := keyring.Open(keyring.Config{ServiceName: service})
	if err != nil {
		return nil, err
	}
	return &KeyringKV{ring: ring}, nil
}

func (s *KeyringKV) Get(key string) ([]byte, bool, error) {
	item, err := s.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return item.Data, true, nil
}

func (s *KeyringKV) Set(key string, value []byte) error {
	return s.ring.Set(keyring.Item{Key: key, Data: value})
}

func (s *KeyringKV) Remove(key string) error {
	err := s.ring.Remove(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil
	}
	return err
}

func (s *KeyringKV) Keys(prefix string) ([]string, error) {
	all, err := s.ring.Keys()
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, k := range all {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

var _ domain.KeyValue = (*KeyringKV)(nil)
