package did_test

import (
	"strings"
	"testing"

	"github.com/mr-tron/base58"

	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/crypto"
	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/did"
	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/domain"
)

func TestRoundTrip(t *testing.T) {
	_, pub, err := crypto.GenerateEd25519(nil)
	if err != nil {
		t.Fatalf("GenerateEd25519: %v", err)
	}

	id := did.FromPublicKey(pub)
	if !strings.HasPrefix(string(id), "did:key:z6Mk") {
		t.Fatalf("Ed25519 did:key must start did:key:z6Mk, got %q", id)
	}

	got, err := did.PublicKey(id)
	if err != nil {
		t.Fatalf("PublicKey: %v", err)
	}
	if got != pub {
		t.Fatal("recovered key differs from original")
	}
}

func TestPublicKeyRejectsMalformed(t *testing.T) {
	_, pub, err := crypto.GenerateEd25519(nil)
	if err != nil {
		t.Fatalf("GenerateEd25519: %v", err)
	}
	valid := string(did.FromPublicKey(pub))

	// P-256 multicodec tag (0x1200) instead of Ed25519.
	wrongCodec := "did:key:z" + base58.Encode(append([]byte{0x80, 0x24}, pub.Slice()...))
	// Payload one byte short.
	truncated := "did:key:z" + base58.Encode(append([]byte{0xed, 0x01}, pub.Slice()[:31]...))

	cases := []struct {
		name string
		id   string
	}{
		{"empty", ""},
		{"wrong method", "did:web:example.com"},
		{"missing multibase prefix", strings.Replace(valid, "did:key:z", "did:key:", 1)},
		{"bad base58 character", "did:key:z0OIl"},
		{"wrong multicodec", wrongCodec},
		{"truncated payload", truncated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := did.PublicKey(domain.DID(tc.id)); err == nil {
				t.Fatalf("want error for %q", tc.id)
			}
		})
	}
}
