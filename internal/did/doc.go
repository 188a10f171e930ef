// Package did derives and parses did:key identifiers for Ed25519 public
// keys, per the W3C did:key method (multicodec 0xed01, base58btc multibase).
package did
