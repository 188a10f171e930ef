package domain

import "context"

// KeyValue is the persistence backend for the long-term identity and
// auxiliary per-DID records. Keys are opaque strings; values opaque bytes.
// Implementations must be safe for concurrent use.
type KeyValue interface {
	// Get returns the value for key; ok is false when the key is absent.
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
	// Remove deletes key; removing an absent key is not an error.
	Remove(key string) error
	// Keys lists stored keys with the given prefix.
	Keys(prefix string) ([]string, error)
}

// Purger drops in-memory state derived from the local identity. Registered
// purgers run when the identity is wiped.
type Purger interface {
	Clear()
}

// IdentityService owns the long-term signing keypair and its DID.
type IdentityService interface {
	GenerateIdentity() (Identity, error)
	// LoadIdentity returns ok=false when nothing usable is stored; a stored
	// record that fails validation is treated as absent, not as an error.
	LoadIdentity() (Identity, bool, error)
	HasIdentity() bool
	CurrentIdentity() (Identity, bool)
	ClearAllData() error
	CreateIdentityProof() (IdentityProof, error)
	// VerifyIdentityProof returns nil for a fresh, correctly signed proof
	// matching the expected DID.
	VerifyIdentityProof(proof IdentityProof, expected DID) error
	Fingerprint() (string, error)
}

// PreKeyService mints signed prekey bundles and retains their private
// halves for the responder side of a key exchange.
type PreKeyService interface {
	GeneratePreKeyBundle() (PreKeyBundle, error)
	RotateSignedPreKey() error
	ReplenishOneTimeKeys(n int) error
	RemainingOneTimeKeys() int

	// SignedPreKeyPrivate looks up a retained signed prekey by its public
	// key. The pair stays retained; signed prekeys serve many handshakes.
	SignedPreKeyPrivate(pub X25519Public) (X25519Private, bool)
	// ConsumeOneTimeKey removes and returns a retained one-time prekey.
	// A second call for the same public key reports ok=false.
	ConsumeOneTimeKey(pub X25519Public) (X25519Private, bool)

	Clear()
}

// SessionService runs the X3DH handshake and the per-peer Double Ratchet.
type SessionService interface {
	// InitiateKeyExchange verifies the bundle, derives the shared secret and
	// creates the peer's session. The returned KeyExchange must reach the
	// peer out-of-band; its EphemeralKey is the initiator's ephemeral public.
	InitiateKeyExchange(peer DID, bundle PreKeyBundle) (KeyExchange, error)
	// InitializeRatchet is the responder half: it consumes the retained
	// prekey privates referenced by kx and creates the peer's session,
	// overwriting any existing one.
	InitializeRatchet(peer DID, kx KeyExchange) error
	EncryptMessage(peer DID, plaintext []byte) (EncryptedMessage, error)
	DecryptMessage(peer DID, msg EncryptedMessage) ([]byte, error)
	HasSession(peer DID) bool
	EndSession(peer DID)
}

// Transport moves envelopes between peers verbatim. Delivery order is not
// guaranteed and duplicates are possible.
type Transport interface {
	Deliver(ctx context.Context, env Envelope) error
	// Collect drains up to limit envelopes addressed to a peer.
	Collect(ctx context.Context, to DID, limit int) ([]Envelope, error)
}

// BundleDirectory publishes prekey bundles so offline peers stay reachable.
type BundleDirectory interface {
	Publish(ctx context.Context, owner DID, bundle PreKeyBundle) error
	Fetch(ctx context.Context, owner DID) (PreKeyBundle, error)
}
