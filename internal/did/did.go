package did

import (
	"errors"
	"strings"

	"github.com/mr-tron/base58"

	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/domain"
)

// A did:key identifier is "did:key:" followed by a multibase string: the
// base58btc alphabet signalled by a leading 'z', over the multicodec tag for
// the key type plus the raw key bytes. Ed25519 uses multicodec 0xed,
// varint-encoded as 0xed 0x01, so every Ed25519 did:key starts "did:key:z6Mk".
const prefix = "did:key:z"

var multicodecEd25519 = [...]byte{0xed, 0x01}

// ErrInvalid reports an identifier that is not a well-formed Ed25519 did:key.
var ErrInvalid = errors.New("invalid did:key identifier")

// FromPublicKey derives the did:key identifier for an Ed25519 public key.
func FromPublicKey(pub domain.Ed25519Public) domain.DID {
	payload := make([]byte, 0, len(multicodecEd25519)+len(pub))
	payload = append(payload, multicodecEd25519[:]...)
	payload = append(payload, pub.Slice()...)
	return domain.DID(prefix + base58.Encode(payload))
}

// PublicKey recovers the Ed25519 public key embedded in a did:key
// identifier. It fails on any other DID method, multibase, codec or length.
func PublicKey(id domain.DID) (pub domain.Ed25519Public, err error) {
	s := string(id)
	if !strings.HasPrefix(s, prefix) {
		return pub, ErrInvalid
	}
	raw, err := base58.Decode(strings.TrimPrefix(s, prefix))
	if err != nil {
		return pub, ErrInvalid
	}
	if len(raw) != len(multicodecEd25519)+len(pub) {
		return pub, ErrInvalid
	}
	if raw[0] != multicodecEd25519[0] || raw[1] != multicodecEd25519[1] {
		return pub, ErrInvalid
	}
	copy(pub[:], raw[len(multicodecEd25519):])
	return pub, nil
}
