package crypto

import (
	"crypto/rand"
	"io"

	"golang.org/x/crypto/curve25519"

	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/domain"
)

// GenerateX25519 returns a fresh Curve25519 key pair.
// The private key is clamped per RFC 7748. A nil random falls back to
// crypto/rand.
func GenerateX25519(random io.Reader) (priv domain.X25519Private, pub domain.X25519Public, err error) {
	if random == nil {
		random = rand.Reader
	}
	if _, err = io.ReadFull(random, priv[:]); err != nil {
		return priv, pub, err
	}
	clamp(&priv)
	pb, err := curve25519.X25519(priv.Slice(), curve25519.Basepoint)
	if err != nil {
		return priv, pub, err
	}
	copy(pub[:], pb)
	return priv, pub, nil
}

// DH computes X25519 Diffie–Hellman. It rejects low-order peer keys that
// would yield an all-zero secret.
func DH(priv domain.X25519Private, pub domain.X25519Public) (out [32]byte, err error) {
	secret, err := curve25519.X25519(priv.Slice(), pub.Slice())
	if err != nil {
		return out, err
	}
	copy(out[:], secret)
	return out, nil
}

func clamp(k *domain.X25519Private) {
	kb := k[:]
	kb[0] &= 248
	kb[31] &= 127
	kb[31] |= 64
}
