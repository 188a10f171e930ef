package crypto

import (
	"crypto/sha512"

	"filippo.io/edwards25519"

	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/domain"
	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/util/memzero"
)

// X25519FromEd25519Private derives the X25519 private key matching an
// Ed25519 signing key. Per RFC 8032 the Ed25519 scalar is the clamped lower
// half of SHA-512(seed), which is itself a valid Curve25519 private key.
func X25519FromEd25519Private(priv domain.Ed25519Private) (out domain.X25519Private) {
	digest := sha512.Sum512(priv[:32])
	copy(out[:], digest[:32])
	memzero.Zero(digest[:])
	clamp(&out)
	return out
}

// X25519FromEd25519Public maps an Ed25519 public key onto the Montgomery
// curve (u = (1+y)/(1-y) mod p), giving the X25519 public key that pairs
// with X25519FromEd25519Private. Fails on encodings that are not valid
// curve points.
func X25519FromEd25519Public(pub domain.Ed25519Public) (out domain.X25519Public, err error) {
	point, err := new(edwards25519.Point).SetBytes(pub.Slice())
	if err != nil {
		return out, err
	}
	copy(out[:], point.BytesMontgomery())
	return out, nil
}
