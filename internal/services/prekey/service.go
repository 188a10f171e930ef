package prekey

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/crypto"
	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/domain"
	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/util/memzero"
)

// DefaultOneTimePool is how many one-time prekeys ReplenishOneTimeKeys
// keeps on hand when callers do not pick a count.
const DefaultOneTimePool = 10

// pair is a retained X25519 pair with a bookkeeping ID for logs.
type pair struct {
	id   string
	priv domain.X25519Private
	pub  domain.X25519Public
}

// Service mints prekey bundles and retains their private halves so the
// responder side of a key exchange can recompute the shared secret later.
// Signed prekeys survive many handshakes; a one-time prekey is handed out
// in at most one bundle and its private half is destroyed on first use.
type Service struct {
	ids    domain.IdentityService
	log    zerolog.Logger
	random io.Reader

	mu sync.Mutex
	// signed holds every retained signed prekey pair, current and rotated
	// out, so in-flight handshakes against an older bundle still complete.
	signed  map[domain.X25519Public]pair
	current domain.X25519Public
	haveSPK bool
	// pool holds generated one-time pairs not yet placed in a bundle;
	// issued holds pairs already published, awaiting consumption.
	pool   []pair
	issued map[domain.X25519Public]pair
}

// New returns a prekey service minting bundles for ids.
func New(ids domain.IdentityService, logger zerolog.Logger, random io.Reader) *Service {
	if random == nil {
		random = rand.Reader
	}
	return &Service{
		ids:    ids,
		log:    logger,
		random: random,
		signed: make(map[domain.X25519Public]pair),
		issued: make(map[domain.X25519Public]pair),
	}
}

// GeneratePreKeyBundle builds a publishable bundle: the current signed
// prekey under a fresh identity signature, plus one one-time prekey when
// the pool has one. The first call mints the signed prekey on demand.
func (s *Service) GeneratePreKeyBundle() (domain.PreKeyBundle, error) {
	id, ok := s.ids.CurrentIdentity()
	if !ok {
		var err error
		id, ok, err = s.ids.LoadIdentity()
		if err != nil {
			return domain.PreKeyBundle{}, err
		}
		if !ok {
			return domain.PreKeyBundle{}, &domain.IdentityError{Op: "prekey bundle", Err: domain.ErrNoIdentity}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.haveSPK {
		if err := s.rotateLocked(); err != nil {
			return domain.PreKeyBundle{}, err
		}
	}
	spk := s.signed[s.current]

	bundle := domain.PreKeyBundle{
		IdentityKey:           id.SigningPublicKey,
		SignedPreKey:          spk.pub,
		SignedPreKeySignature: crypto.SignEd25519(id.SigningPrivateKey, spk.pub.Slice()),
		Timestamp:             time.Now().UnixMilli(),
	}

	if len(s.pool) > 0 {
		opk := s.pool[0]
		s.pool = s.pool[1:]
		s.issued[opk.pub] = opk
		pub := opk.pub
		bundle.OneTimePreKey = &pub
		s.log.Debug().Str("opk", opk.id).Msg("One-time prekey placed in bundle")
	}

	return bundle, nil
}

// RotateSignedPreKey replaces the current signed prekey with a fresh pair.
// The old pair stays retained for handshakes already in flight against it.
func (s *Service) RotateSignedPreKey() error {
	if !s.ids.HasIdentity() {
		return &domain.IdentityError{Op: "prekey rotate", Err: domain.ErrNoIdentity}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rotateLocked()
}

// ReplenishOneTimeKeys tops the unissued pool up to n pairs. A non-positive
// n means DefaultOneTimePool.
func (s *Service) ReplenishOneTimeKeys(n int) error {
	if !s.ids.HasIdentity() {
		return &domain.IdentityError{Op: "prekey replenish", Err: domain.ErrNoIdentity}
	}
	if n <= 0 {
		n = DefaultOneTimePool
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for len(s.pool) < n {
		priv, pub, err := crypto.GenerateX25519(s.random)
		if err != nil {
			return &domain.CryptoOperationError{Op: "one-time prekey generation failed", Err: err}
		}
		s.pool = append(s.pool, pair{id: uuid.NewString(), priv: priv, pub: pub})
		added++
	}
	if added > 0 {
		s.log.Info().Int("added", added).Int("pool", len(s.pool)).Msg("One-time prekeys replenished")
	}
	return nil
}

// RemainingOneTimeKeys reports how many one-time pairs are still unissued.
func (s *Service) RemainingOneTimeKeys() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pool)
}

// SignedPreKeyPrivate looks up a retained signed prekey by public key. The
// pair stays retained afterwards.
func (s *Service) SignedPreKeyPrivate(pub domain.X25519Public) (domain.X25519Private, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.signed[pub]
	if !ok {
		return domain.X25519Private{}, false
	}
	return p.priv, true
}

// ConsumeOneTimeKey removes and returns an issued one-time prekey. A second
// call for the same public key reports ok=false, which is what makes the
// key one-time.
func (s *Service) ConsumeOneTimeKey(pub domain.X25519Public) (domain.X25519Private, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.issued[pub]
	if !ok {
		return domain.X25519Private{}, false
	}
	delete(s.issued, pub)
	s.log.Debug().Str("opk", p.id).Msg("One-time prekey consumed")
	return p.priv, true
}

// Clear wipes every retained private half. It doubles as the Purger hook
// run when the local identity is destroyed, since prekeys signed by a dead
// identity are worthless.
func (s *Service) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for pub, p := range s.signed {
		memzero.Zero(p.priv[:])
		delete(s.signed, pub)
	}
	for pub, p := range s.issued {
		memzero.Zero(p.priv[:])
		delete(s.issued, pub)
	}
	for i := range s.pool {
		memzero.Zero(s.pool[i].priv[:])
	}
	s.pool = nil
	s.haveSPK = false
	s.current = domain.X25519Public{}
}

func (s *Service) rotateLocked() error {
	priv, pub, err := crypto.GenerateX25519(s.random)
	if err != nil {
		return &domain.CryptoOperationError{Op: "signed prekey generation failed", Err: err}
	}
	p := pair{id: uuid.NewString(), priv: priv, pub: pub}
	s.signed[pub] = p
	s.current = pub
	s.haveSPK = true
	s.log.Info().Str("spk", p.id).Msg("Signed prekey rotated")
	return nil
}

// Compile-time assertions.
var (
	_ domain.PreKeyService = (*Service)(nil)
	_ domain.Purger        = (*Service)(nil)
)
