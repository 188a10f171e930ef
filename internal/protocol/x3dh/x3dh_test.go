package x3dh_test

import (
	"bytes"
	"testing"

	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/crypto"
	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/domain"
	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/protocol/x3dh"
)

// makeSigningPair creates a fresh Ed25519 identity pair.
func makeSigningPair(t *testing.T) (domain.Ed25519Private, domain.Ed25519Public) {
	t.Helper()
	priv, pub, err := crypto.GenerateEd25519(nil)
	if err != nil {
		t.Fatalf("GenerateEd25519: %v", err)
	}
	return priv, pub
}

// makeDHPair creates a fresh X25519 pair.
func makeDHPair(t *testing.T) (domain.X25519Private, domain.X25519Public) {
	t.Helper()
	priv, pub, err := crypto.GenerateX25519(nil)
	if err != nil {
		t.Fatalf("GenerateX25519: %v", err)
	}
	return priv, pub
}

func TestSharedSecretAgreement_NoOneTimeKey(t *testing.T) {
	// Alice is initiator, Bob is responder.
	alicePriv, alicePub := makeSigningPair(t)
	bobPriv, bobPub := makeSigningPair(t)

	// Bob's signed prekey pair + sig over the public half.
	spkPriv, spkPub := makeDHPair(t)
	spkSig := crypto.SignEd25519(bobPriv, spkPub.Slice())

	bundle := domain.PreKeyBundle{
		IdentityKey:           bobPub,
		SignedPreKey:          spkPub,
		SignedPreKeySignature: spkSig,
	}
	if !x3dh.VerifySignedPreKey(bundle.IdentityKey, bundle.SignedPreKey, bundle.SignedPreKeySignature) {
		t.Fatal("VerifySignedPreKey rejected a valid bundle")
	}

	ephPriv, ephPub := makeDHPair(t)

	aliceSecret, err := x3dh.InitiatorSecret(alicePriv, ephPriv, bundle)
	if err != nil {
		t.Fatalf("InitiatorSecret: %v", err)
	}

	// Alice's first envelope would carry this.
	kx := domain.KeyExchange{
		IdentityKey:  alicePub,
		EphemeralKey: ephPub,
		SignedPreKey: spkPub,
	}
	bobSecret, err := x3dh.ResponderSecret(bobPriv, spkPriv, nil, kx)
	if err != nil {
		t.Fatalf("ResponderSecret: %v", err)
	}

	if !bytes.Equal(aliceSecret, bobSecret) {
		t.Fatal("shared secrets differ (no OPK)")
	}
	if len(aliceSecret) != x3dh.SecretSize {
		t.Fatalf("want %d-byte secret, got %d", x3dh.SecretSize, len(aliceSecret))
	}
}

func TestSharedSecretAgreement_WithOneTimeKey(t *testing.T) {
	alicePriv, alicePub := makeSigningPair(t)
	bobPriv, bobPub := makeSigningPair(t)

	spkPriv, spkPub := makeDHPair(t)
	spkSig := crypto.SignEd25519(bobPriv, spkPub.Slice())
	opkPriv, opkPub := makeDHPair(t)

	bundle := domain.PreKeyBundle{
		IdentityKey:           bobPub,
		SignedPreKey:          spkPub,
		SignedPreKeySignature: spkSig,
		OneTimePreKey:         &opkPub,
	}

	ephPriv, ephPub := makeDHPair(t)

	aliceSecret, err := x3dh.InitiatorSecret(alicePriv, ephPriv, bundle)
	if err != nil {
		t.Fatalf("InitiatorSecret: %v", err)
	}

	kx := domain.KeyExchange{
		IdentityKey:   alicePub,
		EphemeralKey:  ephPub,
		SignedPreKey:  spkPub,
		OneTimePreKey: &opkPub,
	}
	bobSecret, err := x3dh.ResponderSecret(bobPriv, spkPriv, &opkPriv, kx)
	if err != nil {
		t.Fatalf("ResponderSecret: %v", err)
	}

	if !bytes.Equal(aliceSecret, bobSecret) {
		t.Fatal("shared secrets differ (with OPK)")
	}

	// The one-time key must actually change the derivation.
	bundle.OneTimePreKey = nil
	withoutOPK, err := x3dh.InitiatorSecret(alicePriv, ephPriv, bundle)
	if err != nil {
		t.Fatalf("InitiatorSecret (no OPK): %v", err)
	}
	if bytes.Equal(aliceSecret, withoutOPK) {
		t.Fatal("one-time prekey did not affect the secret")
	}
}

func TestSecretsDifferAcrossEphemerals(t *testing.T) {
	alicePriv, _ := makeSigningPair(t)
	bobPriv, bobPub := makeSigningPair(t)

	_, spkPub := makeDHPair(t)
	spkSig := crypto.SignEd25519(bobPriv, spkPub.Slice())

	bundle := domain.PreKeyBundle{
		IdentityKey:           bobPub,
		SignedPreKey:          spkPub,
		SignedPreKeySignature: spkSig,
	}

	ephPriv1, _ := makeDHPair(t)
	ephPriv2, _ := makeDHPair(t)

	first, err := x3dh.InitiatorSecret(alicePriv, ephPriv1, bundle)
	if err != nil {
		t.Fatalf("InitiatorSecret: %v", err)
	}
	second, err := x3dh.InitiatorSecret(alicePriv, ephPriv2, bundle)
	if err != nil {
		t.Fatalf("InitiatorSecret: %v", err)
	}
	if bytes.Equal(first, second) {
		t.Fatal("distinct ephemerals produced the same secret")
	}
}

func TestVerifySignedPreKeyRejectsTampered(t *testing.T) {
	bobPriv, bobPub := makeSigningPair(t)
	_, spkPub := makeDHPair(t)
	sig := crypto.SignEd25519(bobPriv, spkPub.Slice())

	var tampered domain.Signature
	copy(tampered[:], sig[:])
	tampered[0] ^= 0x01
	if x3dh.VerifySignedPreKey(bobPub, spkPub, tampered) {
		t.Fatal("tampered signature accepted")
	}

	var wrongKey domain.X25519Public
	copy(wrongKey[:], spkPub[:])
	wrongKey[3] ^= 0x10
	if x3dh.VerifySignedPreKey(bobPub, wrongKey, sig) {
		t.Fatal("signature accepted over a different prekey")
	}
}
