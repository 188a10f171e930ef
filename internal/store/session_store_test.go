package store_test

import (
	"bytes"
	"testing"

	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/crypto"
	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/domain"
	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/protocol/ratchet"
	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/store"
)

// makeSession builds a minimal initiator-side session; the peer never
// exists, which is fine for registry tests.
func makeSession(t *testing.T) *ratchet.Session {
	t.Helper()
	ephPriv, ephPub, err := crypto.GenerateX25519(nil)
	if err != nil {
		t.Fatalf("GenerateX25519: %v", err)
	}
	_, peerPub, err := crypto.GenerateX25519(nil)
	if err != nil {
		t.Fatalf("GenerateX25519: %v", err)
	}
	st, err := ratchet.InitiatorState(bytes.Repeat([]byte{0x17}, 32), ephPriv, ephPub, peerPub, 0)
	if err != nil {
		t.Fatalf("InitiatorState: %v", err)
	}
	return ratchet.NewSession(st, nil)
}

func TestSessionStoreLifecycle(t *testing.T) {
	reg := store.NewSessionStore()
	alice := domain.DID("did:key:z6MkAlice")
	bob := domain.DID("did:key:z6MkBob")

	if _, ok := reg.Get(alice); ok {
		t.Fatal("empty registry reports a session")
	}

	first := makeSession(t)
	reg.CreateOrReplace(alice, first)
	got, ok := reg.Get(alice)
	if !ok || got != first {
		t.Fatal("stored session not returned")
	}

	// Replacing hands back the new session.
	second := makeSession(t)
	reg.CreateOrReplace(alice, second)
	got, ok = reg.Get(alice)
	if !ok || got != second {
		t.Fatal("replacement session not returned")
	}

	reg.Evict(alice)
	if _, ok := reg.Get(alice); ok {
		t.Fatal("session survives Evict")
	}
	reg.Evict(alice) // absent: no-op

	reg.CreateOrReplace(alice, makeSession(t))
	reg.CreateOrReplace(bob, makeSession(t))
	reg.Clear()
	if _, ok := reg.Get(alice); ok {
		t.Fatal("session survives Clear")
	}
	if _, ok := reg.Get(bob); ok {
		t.Fatal("session survives Clear")
	}
}
