// Package session ties the handshake to the ratchet: it runs X3DH against
// peer bundles, owns session creation and teardown, and exposes the
// per-peer encrypt and decrypt operations.
package session
