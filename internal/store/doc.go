// Package store provides the persistence backends and the in-memory session
// registry for the messaging core.
//
// The durable side is a small key-value contract (domain.KeyValue) with
// interchangeable backends:
//   - MemoryKV: process-local map, used by tests and throwaway profiles
//   - FileKV: a single JSON file rewritten atomically (temp file + rename)
//   - KeyringKV: the operating system credential store
//   - SealedKV: a passphrase-sealing wrapper around any of the above
//
// Ratchet sessions are deliberately not persisted; SessionStore keeps them
// in memory for the lifetime of the process. All types are safe for
// concurrent use.
package store
