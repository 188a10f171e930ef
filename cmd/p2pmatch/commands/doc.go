// Package commands defines the p2pmatch CLI and wires dependencies for
// subcommands.
//
// Commands
//
//   - init         Generate a fresh identity and DID
//   - did          Print the local DID
//   - fingerprint  Print the identity fingerprint
//   - bundle       Emit a prekey bundle for publication
//   - proof        Create or verify identity liveness proofs
//   - wipe         Destroy the identity and everything derived from it
//
// The root command builds the dependency graph (key-value backend,
// identity, prekey and session services) before any subcommand runs.
// Session encryption itself has no subcommand: sessions are in-memory and
// belong to a running node, not a one-shot CLI invocation.
package commands
