package domain

import "errors"

// Sentinel causes carried inside the typed errors below. Callers match on
// these with errors.Is and on the wrappers with errors.As.
var (
	// ErrNoIdentity indicates no local identity has been generated or loaded.
	ErrNoIdentity = errors.New("no identity initialized")

	// ErrIdentityCorrupted indicates stored identity material failed
	// validation and was rejected.
	ErrIdentityCorrupted = errors.New("stored identity is corrupted")

	// ErrNoSession indicates an operation against a peer with no live ratchet.
	ErrNoSession = errors.New("ratchet not initialized for peer")

	// ErrPreKeyUnknown indicates a key exchange referenced a signed prekey
	// we never issued or no longer retain.
	ErrPreKeyUnknown = errors.New("signed prekey not retained")

	// ErrOneTimeKeyConsumed indicates a key exchange referenced a one-time
	// prekey that was already used once.
	ErrOneTimeKeyConsumed = errors.New("one-time prekey already consumed")

	// ErrBadPreKeySignature indicates a bundle's signed prekey signature
	// did not verify under its identity key.
	ErrBadPreKeySignature = errors.New("signed prekey signature verification failed")
)

// IdentityError reports a failure involving the local identity.
type IdentityError struct {
	Op  string
	Err error
}

func (e *IdentityError) Error() string {
	if e.Err == nil {
		return "identity: " + e.Op
	}
	return "identity: " + e.Op + ": " + e.Err.Error()
}

func (e *IdentityError) Unwrap() error { return e.Err }

// SignatureError reports a remote peer's key material failing verification.
// No trust is extended and no session is created when it occurs.
type SignatureError struct {
	Peer DID
	Err  error
}

func (e *SignatureError) Error() string {
	return e.Err.Error() + ": " + string(e.Peer)
}

func (e *SignatureError) Unwrap() error { return e.Err }

// RatchetStateError reports an operation against a missing or misused
// session state machine.
type RatchetStateError struct {
	Peer DID
	Err  error
}

func (e *RatchetStateError) Error() string {
	return e.Err.Error() + ": " + string(e.Peer)
}

func (e *RatchetStateError) Unwrap() error { return e.Err }

// CryptoOperationError reports a failing cryptographic primitive: an AEAD
// rejection, a Diffie-Hellman failure, or the random source running dry.
type CryptoOperationError struct {
	Op   string
	Peer DID // empty when no peer is involved
	Err  error
}

func (e *CryptoOperationError) Error() string {
	s := e.Op
	if e.Peer != "" {
		s += " for " + string(e.Peer)
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *CryptoOperationError) Unwrap() error { return e.Err }
