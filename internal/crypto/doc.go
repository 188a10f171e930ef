// Package crypto exposes the minimal primitives used by the messaging core.
//
// Contents
//
//   - X25519 key generation, clamping and Diffie–Hellman (GenerateX25519, DH)
//   - Ed25519 key generation, signing and verification (GenerateEd25519,
//     SignEd25519, VerifyEd25519)
//   - Ed25519 to X25519 conversion so one signing identity can also run key
//     agreement (X25519FromEd25519Private, X25519FromEd25519Public)
//   - Short public-key fingerprints for display/logging (Fingerprint)
//
// # Notes
//
// All functions return fixed-size array types defined in internal/domain to
// avoid accidental reallocations. Callers should treat returned secrets as
// sensitive and rely on memzero when practical to reduce lifetime in memory.
package crypto
