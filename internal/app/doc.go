// Package app wires application dependencies for the CLI and for embedders.
//
// It builds the persistence backend and the identity, prekey and session
// services from Config, exposing them via the App struct.
package app
