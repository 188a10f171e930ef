// Package prekey mints signed prekey bundles so offline peers can still be
// reached, and retains the private halves for the responder side of a key
// exchange.
package prekey
