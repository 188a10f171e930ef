package x3dh

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/crypto"
	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/domain"
	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/util/memzero"
)

// SecretSize is the size of the derived shared secret in bytes.
const SecretSize = 32

// infoLabel domain-separates the X3DH KDF from the other HKDF uses in the app.
const infoLabel = "p2pmatch-x3dh"

// VerifySignedPreKey checks the Ed25519 signature over a signed prekey.
func VerifySignedPreKey(identity domain.Ed25519Public, spk domain.X25519Public, sig domain.Signature) bool {
	return crypto.VerifyEd25519(identity, spk.Slice(), sig)
}

// InitiatorSecret derives the initiator's copy of the shared secret from the
// responder's bundle. The caller generates the ephemeral pair and sends its
// public half in the key exchange; the private half seeds the ratchet.
func InitiatorSecret(
	identityPriv domain.Ed25519Private,
	ephPriv domain.X25519Private,
	bundle domain.PreKeyBundle,
) ([]byte, error) {
	identityPrivX := crypto.X25519FromEd25519Private(identityPriv)
	defer memzero.Zero(identityPrivX[:])

	peerIdentityX, err := crypto.X25519FromEd25519Public(bundle.IdentityKey)
	if err != nil {
		return nil, err
	}

	dh1, err := crypto.DH(identityPrivX, bundle.SignedPreKey) // DH(IKa, SPKb)
	if err != nil {
		return nil, err
	}
	dh2, err := crypto.DH(ephPriv, peerIdentityX) // DH(EKa, IKb)
	if err != nil {
		return nil, err
	}
	dh3, err := crypto.DH(ephPriv, bundle.SignedPreKey) // DH(EKa, SPKb)
	if err != nil {
		return nil, err
	}

	transcript := make([]byte, 0, 32*4)
	transcript = append(transcript, dh1[:]...)
	transcript = append(transcript, dh2[:]...)
	transcript = append(transcript, dh3[:]...)

	if bundle.OneTimePreKey != nil {
		dh4, err := crypto.DH(ephPriv, *bundle.OneTimePreKey) // DH(EKa, OPKb)
		if err != nil {
			return nil, err
		}
		transcript = append(transcript, dh4[:]...)
	}

	return derive(transcript)
}

// ResponderSecret recomputes the shared secret from a received key exchange.
// spkPriv is the private half of the signed prekey the initiator used;
// opkPriv, when the exchange names a one-time prekey, is its consumed
// private half.
func ResponderSecret(
	identityPriv domain.Ed25519Private,
	spkPriv domain.X25519Private,
	opkPriv *domain.X25519Private,
	kx domain.KeyExchange,
) ([]byte, error) {
	identityPrivX := crypto.X25519FromEd25519Private(identityPriv)
	defer memzero.Zero(identityPrivX[:])

	peerIdentityX, err := crypto.X25519FromEd25519Public(kx.IdentityKey)
	if err != nil {
		return nil, err
	}

	dh1, err := crypto.DH(spkPriv, peerIdentityX) // DH(SPKb, IKa)
	if err != nil {
		return nil, err
	}
	dh2, err := crypto.DH(identityPrivX, kx.EphemeralKey) // DH(IKb, EKa)
	if err != nil {
		return nil, err
	}
	dh3, err := crypto.DH(spkPriv, kx.EphemeralKey) // DH(SPKb, EKa)
	if err != nil {
		return nil, err
	}

	transcript := make([]byte, 0, 32*4)
	transcript = append(transcript, dh1[:]...)
	transcript = append(transcript, dh2[:]...)
	transcript = append(transcript, dh3[:]...)

	if opkPriv != nil {
		dh4, err := crypto.DH(*opkPriv, kx.EphemeralKey) // DH(OPKb, EKa)
		if err != nil {
			return nil, err
		}
		transcript = append(transcript, dh4[:]...)
	}

	return derive(transcript)
}

func derive(transcript []byte) ([]byte, error) {
	defer memzero.Zero(transcript)
	secret := make([]byte, SecretSize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, transcript, nil, []byte(infoLabel)), secret); err != nil {
		return nil, err
	}
	return secret, nil
}
