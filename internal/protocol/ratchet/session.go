package ratchet

import (
	"crypto/rand"
	"io"
	"sync"

	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/domain"
)

// Session wraps a State with a lock so one conversation can be driven from
// multiple goroutines. A nil random falls back to crypto/rand.
type Session struct {
	mu     sync.Mutex
	random io.Reader
	state  *State
}

// NewSession wraps st for concurrent use.
func NewSession(st *State, random io.Reader) *Session {
	if random == nil {
		random = rand.Reader
	}
	return &Session{random: random, state: st}
}

// Encrypt seals plaintext under the next sending key.
func (s *Session) Encrypt(ad, plaintext []byte) (domain.MessageHeader, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Encrypt(s.random, ad, plaintext)
}

// Decrypt opens a received message. State is untouched on error.
func (s *Session) Decrypt(ad []byte, header domain.MessageHeader, ciphertext []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Decrypt(ad, header, ciphertext)
}

// Wipe zeroes the session's secret material. The session must not be used
// afterwards.
func (s *Session) Wipe() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Wipe()
}
