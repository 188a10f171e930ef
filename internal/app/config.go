package app

import (
	"io"

	"github.com/rs/zerolog"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	// Home is the data directory for the file-backed key-value store,
	// e.g. $HOME/.p2pmatch. Ignored when KeyringService is set.
	Home string

	// KeyringService, when non-empty, stores identity material in the OS
	// credential store under this service name instead of a file.
	KeyringService string

	// Passphrase, when non-empty, seals stored values with a
	// passphrase-derived key.
	Passphrase string

	// MaxSkippedKeys bounds the per-session skipped message key cache.
	// Non-positive means the ratchet default.
	MaxSkippedKeys int

	// Random is the secure random source. Nil means crypto/rand. Tests
	// inject deterministic bytes here.
	Random io.Reader

	// Logger receives structured lifecycle events. The zero value is
	// usable and discards everything.
	Logger zerolog.Logger
}
