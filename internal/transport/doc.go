// Package transport defines how envelopes and prekey bundles move between
// peers. The real network layer (DHT discovery, data channels) lives
// outside this module; what ships here is the in-process implementation
// used by tests and local development, which reproduces the network's
// weakest guarantees: no ordering, possible duplication.
package transport
