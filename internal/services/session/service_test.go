package session_test

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/domain"
	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/services/identity"
	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/services/prekey"
	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/services/session"
	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/store"
)

// peer is one fully wired node: identity, prekeys and sessions over an
// in-memory backend.
type peer struct {
	did      domain.DID
	identity *identity.Service
	prekeys  *prekey.Service
	sessions *session.Service
}

func newPeer(t *testing.T) *peer {
	t.Helper()
	ids := identity.New(store.NewMemoryKV(), zerolog.Nop(), nil)
	id, err := ids.GenerateIdentity()
	if err != nil {
		t.Fatalf("GenerateIdentity: %v", err)
	}
	pks := prekey.New(ids, zerolog.Nop(), nil)
	ss := store.NewSessionStore()
	ids.PurgeOnWipe(pks, ss)
	return &peer{
		did:      id.DID,
		identity: ids,
		prekeys:  pks,
		sessions: session.New(ids, pks, ss, zerolog.Nop(), nil, 0),
	}
}

// handshake runs the full exchange: bob publishes a bundle, alice
// initiates, bob responds. Both ends hold a live session afterwards.
func handshake(t *testing.T, alice, bob *peer) {
	t.Helper()
	if err := bob.prekeys.ReplenishOneTimeKeys(1); err != nil {
		t.Fatalf("ReplenishOneTimeKeys: %v", err)
	}
	bundle, err := bob.prekeys.GeneratePreKeyBundle()
	if err != nil {
		t.Fatalf("GeneratePreKeyBundle: %v", err)
	}
	kx, err := alice.sessions.InitiateKeyExchange(bob.did, bundle)
	if err != nil {
		t.Fatalf("InitiateKeyExchange: %v", err)
	}
	if err := bob.sessions.InitializeRatchet(alice.did, kx); err != nil {
		t.Fatalf("InitializeRatchet: %v", err)
	}
}

func TestEndToEndScenario(t *testing.T) {
	alice := newPeer(t)
	bob := newPeer(t)
	handshake(t, alice, bob)

	msg, err := alice.sessions.EncryptMessage(bob.did, []byte("hi"))
	if err != nil {
		t.Fatalf("EncryptMessage: %v", err)
	}
	pt, err := bob.sessions.DecryptMessage(alice.did, msg)
	if err != nil {
		t.Fatalf("DecryptMessage: %v", err)
	}
	if string(pt) != "hi" {
		t.Fatalf("got %q, want %q", pt, "hi")
	}

	// And the reply direction, which exercises bob's deferred DH step.
	reply, err := bob.sessions.EncryptMessage(alice.did, []byte("hello alice"))
	if err != nil {
		t.Fatalf("EncryptMessage (reply): %v", err)
	}
	pt, err = alice.sessions.DecryptMessage(bob.did, reply)
	if err != nil {
		t.Fatalf("DecryptMessage (reply): %v", err)
	}
	if string(pt) != "hello alice" {
		t.Fatalf("got %q, want %q", pt, "hello alice")
	}
}

func TestUninitializedSessionNamesPeer(t *testing.T) {
	alice := newPeer(t)
	stranger := domain.DID("did:key:zStranger")

	_, err := alice.sessions.EncryptMessage(stranger, []byte("x"))
	var rsErr *domain.RatchetStateError
	if !errors.As(err, &rsErr) {
		t.Fatalf("EncryptMessage error %v is not a RatchetStateError", err)
	}
	if !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("EncryptMessage error %v does not wrap ErrNoSession", err)
	}
	if !strings.Contains(err.Error(), string(stranger)) {
		t.Fatalf("error %q does not name the peer", err)
	}

	_, err = alice.sessions.DecryptMessage(stranger, domain.EncryptedMessage{})
	if !errors.As(err, &rsErr) {
		t.Fatalf("DecryptMessage error %v is not a RatchetStateError", err)
	}
}

func TestBadBundleSignatureCreatesNoSession(t *testing.T) {
	alice := newPeer(t)
	bob := newPeer(t)

	bundle, err := bob.prekeys.GeneratePreKeyBundle()
	if err != nil {
		t.Fatalf("GeneratePreKeyBundle: %v", err)
	}
	bundle.SignedPreKeySignature[0] ^= 0x01

	_, err = alice.sessions.InitiateKeyExchange(bob.did, bundle)
	var sigErr *domain.SignatureError
	if !errors.As(err, &sigErr) {
		t.Fatalf("got %v, want a SignatureError", err)
	}
	if alice.sessions.HasSession(bob.did) {
		t.Fatal("session created despite a bad bundle signature")
	}
}

func TestInitiateRequiresIdentity(t *testing.T) {
	ids := identity.New(store.NewMemoryKV(), zerolog.Nop(), nil)
	pks := prekey.New(ids, zerolog.Nop(), nil)
	svc := session.New(ids, pks, store.NewSessionStore(), zerolog.Nop(), nil, 0)

	bob := newPeer(t)
	bundle, err := bob.prekeys.GeneratePreKeyBundle()
	if err != nil {
		t.Fatalf("GeneratePreKeyBundle: %v", err)
	}
	_, err = svc.InitiateKeyExchange(bob.did, bundle)
	if !errors.Is(err, domain.ErrNoIdentity) {
		t.Fatalf("got %v, want ErrNoIdentity", err)
	}
}

func TestMessageNumbersAreMonotonic(t *testing.T) {
	alice := newPeer(t)
	bob := newPeer(t)
	handshake(t, alice, bob)

	for i := uint32(0); i < 5; i++ {
		msg, err := alice.sessions.EncryptMessage(bob.did, []byte("tick"))
		if err != nil {
			t.Fatalf("EncryptMessage #%d: %v", i, err)
		}
		if msg.Header.MessageNumber != i {
			t.Fatalf("message %d numbered %d", i, msg.Header.MessageNumber)
		}
	}
}

func TestOutOfOrderDeliveryAndReplay(t *testing.T) {
	alice := newPeer(t)
	bob := newPeer(t)
	handshake(t, alice, bob)

	texts := []string{"m1", "m2", "m3"}
	msgs := make([]domain.EncryptedMessage, len(texts))
	for i, s := range texts {
		m, err := alice.sessions.EncryptMessage(bob.did, []byte(s))
		if err != nil {
			t.Fatalf("EncryptMessage %q: %v", s, err)
		}
		msgs[i] = m
	}

	for _, i := range []int{0, 2, 1} {
		pt, err := bob.sessions.DecryptMessage(alice.did, msgs[i])
		if err != nil {
			t.Fatalf("DecryptMessage %q: %v", texts[i], err)
		}
		if string(pt) != texts[i] {
			t.Fatalf("got %q, want %q", pt, texts[i])
		}
	}

	// Re-delivery: the key was consumed, so this must fail without
	// disturbing the session.
	_, err := bob.sessions.DecryptMessage(alice.did, msgs[0])
	var cryptoErr *domain.CryptoOperationError
	if !errors.As(err, &cryptoErr) {
		t.Fatalf("replay error %v is not a CryptoOperationError", err)
	}
	if !session.IsReplay(err) {
		t.Fatalf("replay error %v not recognised as a replay", err)
	}
}

func TestTamperedCiphertextLeavesSessionUsable(t *testing.T) {
	alice := newPeer(t)
	bob := newPeer(t)
	handshake(t, alice, bob)

	msg, err := alice.sessions.EncryptMessage(bob.did, []byte("first"))
	if err != nil {
		t.Fatalf("EncryptMessage: %v", err)
	}
	forged := msg
	forged.Ciphertext = append([]byte(nil), msg.Ciphertext...)
	forged.Ciphertext[0] ^= 0x80

	_, err = bob.sessions.DecryptMessage(alice.did, forged)
	var cryptoErr *domain.CryptoOperationError
	if !errors.As(err, &cryptoErr) {
		t.Fatalf("got %v, want a CryptoOperationError", err)
	}

	// The intact original still decrypts afterwards.
	pt, err := bob.sessions.DecryptMessage(alice.did, msg)
	if err != nil {
		t.Fatalf("DecryptMessage after rejected forgery: %v", err)
	}
	if string(pt) != "first" {
		t.Fatalf("got %q, want %q", pt, "first")
	}
}

func TestOneTimePreKeyReuseRejected(t *testing.T) {
	alice := newPeer(t)
	bob := newPeer(t)
	if err := bob.prekeys.ReplenishOneTimeKeys(1); err != nil {
		t.Fatalf("ReplenishOneTimeKeys: %v", err)
	}
	bundle, err := bob.prekeys.GeneratePreKeyBundle()
	if err != nil {
		t.Fatalf("GeneratePreKeyBundle: %v", err)
	}
	if bundle.OneTimePreKey == nil {
		t.Fatal("bundle missing one-time prekey")
	}

	kx, err := alice.sessions.InitiateKeyExchange(bob.did, bundle)
	if err != nil {
		t.Fatalf("InitiateKeyExchange: %v", err)
	}
	if err := bob.sessions.InitializeRatchet(alice.did, kx); err != nil {
		t.Fatalf("InitializeRatchet: %v", err)
	}

	// A second exchange replaying the same one-time prekey must fail.
	err = bob.sessions.InitializeRatchet(alice.did, kx)
	if !errors.Is(err, domain.ErrOneTimeKeyConsumed) {
		t.Fatalf("got %v, want ErrOneTimeKeyConsumed", err)
	}
}

func TestUnknownSignedPreKeyRejected(t *testing.T) {
	alice := newPeer(t)
	bob := newPeer(t)
	bundle, err := bob.prekeys.GeneratePreKeyBundle()
	if err != nil {
		t.Fatalf("GeneratePreKeyBundle: %v", err)
	}
	kx, err := alice.sessions.InitiateKeyExchange(bob.did, bundle)
	if err != nil {
		t.Fatalf("InitiateKeyExchange: %v", err)
	}

	bob.prekeys.Clear() // responder lost its retained prekeys
	err = bob.sessions.InitializeRatchet(alice.did, kx)
	if !errors.Is(err, domain.ErrPreKeyUnknown) {
		t.Fatalf("got %v, want ErrPreKeyUnknown", err)
	}
}

func TestConcurrentEncryptsSerialise(t *testing.T) {
	alice := newPeer(t)
	bob := newPeer(t)
	handshake(t, alice, bob)

	const n = 32
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		msgs []domain.EncryptedMessage
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m, err := alice.sessions.EncryptMessage(bob.did, []byte("concurrent"))
			if err != nil {
				t.Errorf("EncryptMessage: %v", err)
				return
			}
			mu.Lock()
			msgs = append(msgs, m)
			mu.Unlock()
		}()
	}
	wg.Wait()

	// The per-session lock must hand out each message number exactly once.
	seen := make(map[uint32]bool, n)
	for _, m := range msgs {
		if seen[m.Header.MessageNumber] {
			t.Fatalf("message number %d issued twice", m.Header.MessageNumber)
		}
		seen[m.Header.MessageNumber] = true
	}
	for i := uint32(0); i < n; i++ {
		if !seen[i] {
			t.Fatalf("message number %d never issued", i)
		}
	}

	// Every message decrypts regardless of arrival order.
	for _, m := range msgs {
		pt, err := bob.sessions.DecryptMessage(alice.did, m)
		if err != nil {
			t.Fatalf("DecryptMessage #%d: %v", m.Header.MessageNumber, err)
		}
		if !bytes.Equal(pt, []byte("concurrent")) {
			t.Fatalf("message %d decrypted to %q", m.Header.MessageNumber, pt)
		}
	}
}

func TestEndSession(t *testing.T) {
	alice := newPeer(t)
	bob := newPeer(t)
	handshake(t, alice, bob)

	if !alice.sessions.HasSession(bob.did) {
		t.Fatal("no session after handshake")
	}
	alice.sessions.EndSession(bob.did)
	if alice.sessions.HasSession(bob.did) {
		t.Fatal("session survived EndSession")
	}
	if _, err := alice.sessions.EncryptMessage(bob.did, []byte("x")); err == nil {
		t.Fatal("EncryptMessage succeeded on an ended session")
	}
}
