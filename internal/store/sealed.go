package store

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"

	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/domain"
	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/util/memzero"
)

// The current supported version of the sealed blob format.
const sealedFormatVersion = 1

// ErrSealBroken is returned when the passphrase is wrong or a sealed value
// has been modified.
var ErrSealBroken = errors.New("wrong passphrase or corrupted record")

// blob is the sealed JSON structure holding the ciphertext and KDF
// parameters.
type blob struct {
	V      int    `json:"v"`
	Salt   []byte `json:"salt"`
	N      int    `json:"scrypt_N"`
	R      int    `json:"scrypt_r"`
	P      int    `json:"scrypt_p"`
	Cipher []byte `json:"cipher"`
}

// SealedKV seals every value with a passphrase-derived key before handing
// it to the inner backend. Keys stay in the clear so prefix listing and
// removal pass straight through.
type SealedKV struct {
	inner      domain.KeyValue
	passphrase string
}

// NewSealedKV wraps inner so values are sealed under passphrase.
func NewSealedKV(inner domain.KeyValue, passphrase string) *SealedKV {
	return &SealedKV{inner: inner, passphrase: passphrase}
}

func (s *SealedKV) Get(key string) ([]byte, bool, error) {
	sealed, ok, err := s.inner.Get(key)
	if err != nil || !ok {
		return nil, ok, err
	}
	pt, err := unseal(s.passphrase, sealed)
	if err != nil {
		return nil, false, err
	}
	return pt, true, nil
}

func (s *SealedKV) Set(key string, value []byte) error {
	N, r, p := scryptParamsDefault()
	sealed, err := seal(s.passphrase, value, N, r, p)
	if err != nil {
		return err
	}
	return s.inner.Set(key, sealed)
}

func (s *SealedKV) Remove(key string) error { return s.inner.Remove(key) }

func (s *SealedKV) Keys(prefix string) ([]string, error) { return s.inner.Keys(prefix) }

// seal derives a key from passphrase and seals raw into a JSON blob.
func seal(passphrase string, raw []byte, N, r, p int) ([]byte, error) {
	var salt [16]byte
	if _, err := rand.Read(salt[:]); err != nil {
		return nil, err
	}
	key, err := scrypt.Key([]byte(passphrase), salt[:], N, r, p, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(key)
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	var nonce [chacha20poly1305.NonceSize]byte // zero nonce; salt-bound key guarantees uniqueness
	ct := aead.Seal(nil, nonce[:], raw, salt[:])

	return json.Marshal(blob{
		V:      sealedFormatVersion,
		Salt:   salt[:],
		N:      N,
		R:      r,
		P:      p,
		Cipher: ct,
	})
}

// unseal opens the JSON blob using a key derived from passphrase.
func unseal(passphrase string, b []byte) ([]byte, error) {
	var bl blob
	if err := json.Unmarshal(b, &bl); err != nil {
		return nil, ErrSealBroken
	}
	if bl.V != sealedFormatVersion {
		return nil, fmt.Errorf("unsupported sealed format version %d", bl.V)
	}
	// The KDF parameters come out of the blob, which an attacker can
	// rewrite; only values this format has actually written are honoured.
	if !scryptParamsSane(bl.N, bl.R, bl.P) {
		return nil, ErrSealBroken
	}

	key, err := scrypt.Key([]byte(passphrase), bl.Salt, bl.N, bl.R, bl.P, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(key)
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	var nonce [chacha20poly1305.NonceSize]byte
	pt, err := aead.Open(nil, nonce[:], bl.Cipher, bl.Salt)
	if err != nil {
		return nil, ErrSealBroken
	}
	return pt, nil
}

// Tunables for scrypt key derivation.
func scryptParamsDefault() (N, r, p int) { return 1 << 15, 8, 1 }

// scryptParamsSane bounds blob-supplied KDF parameters: N a power of two
// within the range any version of this format writes, r and p small.
func scryptParamsSane(N, r, p int) bool {
	if N < 1<<14 || N > 1<<22 || N&(N-1) != 0 {
		return false
	}
	return r >= 1 && r <= 32 && p >= 1 && p <= 4
}

var _ domain.KeyValue = (*SealedKV)(nil)
