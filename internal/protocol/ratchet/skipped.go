package ratchet

import (
	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/domain"
	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/util/memzero"
)

// skippedKeyID addresses one archived message key: the sending ratchet
// public key of its chain plus the message number within that chain.
type skippedKeyID struct {
	pub domain.X25519Public
	n   uint32
}

// SkippedKeys is a bounded cache of message keys derived for messages that
// have not arrived yet. When full, the oldest entry is evicted first, so a
// long outage degrades to losing the earliest gaps rather than the newest.
type SkippedKeys struct {
	cap   int
	keys  map[skippedKeyID][]byte
	order []skippedKeyID
}

func newSkippedKeys(cap int) *SkippedKeys {
	if cap <= 0 {
		cap = DefaultMaxSkipped
	}
	return &SkippedKeys{
		cap:  cap,
		keys: make(map[skippedKeyID][]byte),
	}
}

// put stores mk under id, evicting oldest entries to stay within the cap.
func (s *SkippedKeys) put(id skippedKeyID, mk []byte) {
	for len(s.order) >= s.cap {
		oldest := s.order[0]
		s.order = s.order[1:]
		memzero.Zero(s.keys[oldest])
		delete(s.keys, oldest)
	}
	s.keys[id] = mk
	s.order = append(s.order, id)
}

// take removes and returns the key for id, if cached.
func (s *SkippedKeys) take(id skippedKeyID) ([]byte, bool) {
	mk, ok := s.keys[id]
	if !ok {
		return nil, false
	}
	delete(s.keys, id)
	for i := range s.order {
		if s.order[i] == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return mk, true
}

// Len reports the number of cached keys.
func (s *SkippedKeys) Len() int { return len(s.keys) }

// clone deep-copies the cache, including the key material, so that wiping
// one copy cannot reach into the other.
func (s *SkippedKeys) clone() *SkippedKeys {
	cp := &SkippedKeys{
		cap:   s.cap,
		keys:  make(map[skippedKeyID][]byte, len(s.keys)),
		order: append([]skippedKeyID(nil), s.order...),
	}
	for id, mk := range s.keys {
		cp.keys[id] = append([]byte(nil), mk...)
	}
	return cp
}

// wipe zeroes and drops every cached key.
func (s *SkippedKeys) wipe() {
	for id, mk := range s.keys {
		memzero.Zero(mk)
		delete(s.keys, id)
	}
	s.order = nil
}
