// Package ratchet implements the Double Ratchet algorithm following
// Signal's design, seeded from an X3DH handshake.
//
// The algorithm maintains a root key and two message chains (send and
// receive). Each message advances a KDF chain so that keys are forward
// secure. When a peer rotates its DH ratchet key, the receiver folds the
// new key into the root immediately; the matching send-side step is
// deferred until the next outgoing message, so the handshake ephemeral and
// the signed prekey can serve as the very first ratchet keys.
//
// Message keys for gaps in delivery are archived in a bounded cache and
// consumed at most once. Decrypt is transactional: a message that fails to
// authenticate leaves the session state untouched.
//
// Concurrency: State is NOT safe for concurrent use. Wrap it in a Session,
// which serialises access per conversation.
package ratchet
