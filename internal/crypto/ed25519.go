package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"io"

	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/domain"
)

// GenerateEd25519 returns a new Ed25519 signing key pair.
// A nil random falls back to crypto/rand.
func GenerateEd25519(random io.Reader) (priv domain.Ed25519Private, pub domain.Ed25519Public, err error) {
	if random == nil {
		random = rand.Reader
	}
	pk, sk, err := ed25519.GenerateKey(random)
	if err != nil {
		return priv, pub, err
	}
	copy(priv[:], sk)
	copy(pub[:], pk)
	return priv, pub, nil
}

// SignEd25519 signs msg with priv and returns the signature.
func SignEd25519(priv domain.Ed25519Private, msg []byte) (sig domain.Signature) {
	copy(sig[:], ed25519.Sign(ed25519.PrivateKey(priv.Slice()), msg))
	return sig
}

// VerifyEd25519 verifies sig over msg with pub.
func VerifyEd25519(pub domain.Ed25519Public, msg []byte, sig domain.Signature) bool {
	return ed25519.Verify(ed25519.PublicKey(pub.Slice()), msg, sig.Slice())
}
