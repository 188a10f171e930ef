// Package x3dh implements the X3DH key agreement used to bootstrap a Double
// Ratchet session between two peers identified by did:key identities.
//
// # Overview
//
// X3DH lets an initiator derive a shared 32-byte secret with a responder who
// has published a prekey bundle. The bundle carries:
//   - Identity key (Ed25519, converted to X25519 for agreement)
//   - Signed prekey (X25519) and its Ed25519 signature
//   - Optional one-time prekey (X25519)
//
// # Flows
//
// Initiator:
//  1. Verify the signed prekey signature (VerifySignedPreKey).
//  2. Generate an ephemeral X25519 key pair.
//  3. Compute DH values (IKa·SPKb, EKa·IKb, EKa·SPKb[, EKa·OPKb]).
//  4. HKDF-SHA256 over the concatenated transcript (InitiatorSecret).
//
// Responder:
//  1. Receive the key exchange (initiator IK, ephemeral EK, SPK used[, OPK used]).
//  2. Look up the matching private keys and consume the one-time prekey.
//  3. Compute the mirrored DH set and HKDF the same transcript
//     (ResponderSecret).
//
// The initiator's ephemeral key doubles as its first Double Ratchet sending
// key, so both sides can seed their ratchets from the handshake alone.
//
// # Security notes
//
// Only public material crosses the wire. A one-time prekey, when present,
// mixes a value into the secret that the responder deletes after first use.
package x3dh
