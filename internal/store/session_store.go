package store

import (
	"sync"

	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/domain"
	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/protocol/ratchet"
)

// SessionStore keeps live Double Ratchet sessions, one per peer DID.
// Sessions exist only in memory: a restart drops them and peers handshake
// again from fresh prekey bundles.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[domain.DID]*ratchet.Session
}

// NewSessionStore returns an empty registry.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[domain.DID]*ratchet.Session)}
}

// Get returns the live session for peer, if any.
func (s *SessionStore) Get(peer domain.DID) (*ratchet.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[peer]
	return sess, ok
}

// CreateOrReplace installs a session for peer, wiping any predecessor.
func (s *SessionStore) CreateOrReplace(peer domain.DID, sess *ratchet.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.sessions[peer]; ok {
		old.Wipe()
	}
	s.sessions[peer] = sess
}

// Evict wipes and removes peer's session; absent peers are a no-op.
func (s *SessionStore) Evict(peer domain.DID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[peer]; ok {
		sess.Wipe()
		delete(s.sessions, peer)
	}
}

// Clear wipes every session. It also serves as the Purger hook run when the
// local identity is destroyed.
func (s *SessionStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for peer, sess := range s.sessions {
		sess.Wipe()
		delete(s.sessions, peer)
	}
}

var _ domain.Purger = (*SessionStore)(nil)
