// Package identity manages the long-term did:key identity: generation,
// validated loading, liveness proofs, and destruction of the identity along
// with everything derived from it.
package identity
