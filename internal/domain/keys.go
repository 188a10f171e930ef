package domain

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// ------------- X25519 -------------

// X25519Private is a Curve25519 private key.
type X25519Private [32]byte

// X25519Public is a Curve25519 public key.
type X25519Public [32]byte

func (k X25519Private) Slice() []byte { return k[:] }
func (k X25519Public) Slice() []byte  { return k[:] }

func (k X25519Private) MarshalJSON() ([]byte, error) { return marshalKeyBytes(k[:]) }
func (k X25519Public) MarshalJSON() ([]byte, error)  { return marshalKeyBytes(k[:]) }

func (k *X25519Private) UnmarshalJSON(data []byte) error {
	return unmarshalKeyBytes(k[:], data, "X25519 private key")
}

func (k *X25519Public) UnmarshalJSON(data []byte) error {
	return unmarshalKeyBytes(k[:], data, "X25519 public key")
}

// ------------- Ed25519 -------------

// Ed25519Private is a signing private key (ed25519.PrivateKey layout,
// seed followed by the public key).
type Ed25519Private [64]byte

// Ed25519Public is a signing public key.
type Ed25519Public [32]byte

func (k Ed25519Private) Slice() []byte { return k[:] }
func (k Ed25519Public) Slice() []byte  { return k[:] }

func (k Ed25519Private) MarshalJSON() ([]byte, error) { return marshalKeyBytes(k[:]) }
func (k Ed25519Public) MarshalJSON() ([]byte, error)  { return marshalKeyBytes(k[:]) }

func (k *Ed25519Private) UnmarshalJSON(data []byte) error {
	return unmarshalKeyBytes(k[:], data, "Ed25519 private key")
}

func (k *Ed25519Public) UnmarshalJSON(data []byte) error {
	return unmarshalKeyBytes(k[:], data, "Ed25519 public key")
}

// ------------- Signatures -------------

// Signature is a detached Ed25519 signature.
type Signature [64]byte

func (s Signature) Slice() []byte { return s[:] }

func (s Signature) MarshalJSON() ([]byte, error) { return marshalKeyBytes(s[:]) }

func (s *Signature) UnmarshalJSON(data []byte) error {
	return unmarshalKeyBytes(s[:], data, "signature")
}

// ------------- helpers -------------

// Fixed-size key material travels as standard base64 strings; decoding
// rejects any payload whose length does not match the target type.

func marshalKeyBytes(b []byte) ([]byte, error) {
	return json.Marshal(base64.StdEncoding.EncodeToString(b))
}

func unmarshalKeyBytes(dst []byte, data []byte, kind string) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%s: %w", kind, err)
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return fmt.Errorf("%s: %w", kind, err)
	}
	if len(raw) != len(dst) {
		return fmt.Errorf("%s: want %d bytes, got %d", kind, len(dst), len(raw))
	}
	copy(dst, raw)
	return nil
}
