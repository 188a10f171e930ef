package domain

// DID is a decentralized identifier derived deterministically from an
// Ed25519 public key ("did:key:z..."). It doubles as the peer identifier
// for sessions and transport envelopes.
type DID string

func (d DID) String() string { return string(d) }

// Identity holds the long-term signing keypair and its DID.
type Identity struct {
	DID               DID
	SigningPublicKey  Ed25519Public
	SigningPrivateKey Ed25519Private
}

// PreKeyBundle is published so that offline peers can be reached. The
// signed prekey signature covers the raw signed prekey bytes and verifies
// under the identity key. The one-time prekey, when present, is meant for
// a single handshake.
type PreKeyBundle struct {
	IdentityKey           Ed25519Public `json:"identityKey"`
	SignedPreKey          X25519Public  `json:"signedPreKey"`
	SignedPreKeySignature Signature     `json:"signedPreKeySignature"`
	OneTimePreKey         *X25519Public `json:"oneTimePreKey,omitempty"`
	Timestamp             int64         `json:"timestamp"` // epoch milliseconds
}

// KeyExchange is sent by the initiator after running the handshake against
// a peer's bundle. It carries everything the responder needs to derive the
// same shared secret: who initiated, the ephemeral key, and which of the
// responder's prekeys were used.
type KeyExchange struct {
	IdentityKey   Ed25519Public `json:"identityKey"`
	EphemeralKey  X25519Public  `json:"ephemeralKey"`
	SignedPreKey  X25519Public  `json:"signedPreKey"`
	OneTimePreKey *X25519Public `json:"oneTimePreKey,omitempty"`
	Timestamp     int64         `json:"timestamp"`
}

// MessageHeader accompanies each ciphertext and carries everything the
// receiver needs to advance its ratchet.
type MessageHeader struct {
	PublicKey           X25519Public `json:"publicKey"` // sender's current ratchet key
	PreviousChainLength uint32       `json:"previousChainLength"`
	MessageNumber       uint32       `json:"messageNumber"`
}

// EncryptedMessage is the self-contained wire form of one ratchet message.
type EncryptedMessage struct {
	Header     MessageHeader `json:"header"`
	Ciphertext []byte        `json:"ciphertext"`
	Timestamp  int64         `json:"timestamp"`
}

// IdentityProof is a signed liveness challenge: the signature covers the
// DID, the timestamp and the challenge nonce.
type IdentityProof struct {
	DID       DID       `json:"did"`
	Timestamp int64     `json:"timestamp"` // epoch milliseconds
	Challenge string    `json:"challenge"`
	Signature Signature `json:"signature"`
}

// Envelope is what the transport moves between peers. Either field may be
// set: a key exchange during session setup, a message afterwards, or both
// when the first message piggybacks on the handshake.
type Envelope struct {
	From        DID               `json:"from"`
	To          DID               `json:"to"`
	KeyExchange *KeyExchange      `json:"keyExchange,omitempty"`
	Message     *EncryptedMessage `json:"message,omitempty"`
	SentAt      int64             `json:"sentAt"`
}
