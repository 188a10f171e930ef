package session

import (
	"crypto/rand"
	"errors"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/crypto"
	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/domain"
	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/protocol/ratchet"
	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/protocol/x3dh"
	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/store"
	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/util/memzero"
)

// Service runs the X3DH handshake and drives the per-peer Double Ratchet.
//
// Initiator flow: InitiateKeyExchange verifies the peer's bundle, derives
// the shared secret, installs the session and returns the KeyExchange to
// send out-of-band. Responder flow: InitializeRatchet consumes the retained
// prekey privates the exchange names and installs the mirror session. From
// then on EncryptMessage and DecryptMessage operate purely on that session;
// the per-session lock serialises calls for one peer while different peers
// proceed independently.
type Service struct {
	ids        domain.IdentityService
	prekeys    domain.PreKeyService
	sessions   *store.SessionStore
	log        zerolog.Logger
	random     io.Reader
	maxSkipped int
}

// New returns a session service. A nil random falls back to crypto/rand; a
// non-positive maxSkipped uses the ratchet default.
func New(
	ids domain.IdentityService,
	prekeys domain.PreKeyService,
	sessions *store.SessionStore,
	logger zerolog.Logger,
	random io.Reader,
	maxSkipped int,
) *Service {
	if random == nil {
		random = rand.Reader
	}
	return &Service{
		ids:        ids,
		prekeys:    prekeys,
		sessions:   sessions,
		log:        logger,
		random:     random,
		maxSkipped: maxSkipped,
	}
}

// InitiateKeyExchange verifies bundle, derives the shared secret and
// installs the peer's session. Nothing is created when the signed prekey
// signature does not verify. The returned KeyExchange must reach the peer
// out-of-band; its EphemeralKey is the initiator's ephemeral public key.
func (s *Service) InitiateKeyExchange(peer domain.DID, bundle domain.PreKeyBundle) (domain.KeyExchange, error) {
	id, err := s.requireIdentity()
	if err != nil {
		return domain.KeyExchange{}, err
	}

	if !x3dh.VerifySignedPreKey(bundle.IdentityKey, bundle.SignedPreKey, bundle.SignedPreKeySignature) {
		return domain.KeyExchange{}, &domain.SignatureError{Peer: peer, Err: domain.ErrBadPreKeySignature}
	}

	ephPriv, ephPub, err := crypto.GenerateX25519(s.random)
	if err != nil {
		return domain.KeyExchange{}, &domain.CryptoOperationError{Op: "ephemeral key generation failed", Peer: peer, Err: err}
	}

	secret, err := x3dh.InitiatorSecret(id.SigningPrivateKey, ephPriv, bundle)
	if err != nil {
		return domain.KeyExchange{}, &domain.CryptoOperationError{Op: "key agreement failed", Peer: peer, Err: err}
	}

	st, err := ratchet.InitiatorState(secret, ephPriv, ephPub, bundle.SignedPreKey, s.maxSkipped)
	memzero.Zero(secret)
	if err != nil {
		return domain.KeyExchange{}, &domain.CryptoOperationError{Op: "ratchet initialization failed", Peer: peer, Err: err}
	}
	s.sessions.CreateOrReplace(peer, ratchet.NewSession(st, s.random))

	kx := domain.KeyExchange{
		IdentityKey:   id.SigningPublicKey,
		EphemeralKey:  ephPub,
		SignedPreKey:  bundle.SignedPreKey,
		OneTimePreKey: bundle.OneTimePreKey,
		Timestamp:     time.Now().UnixMilli(),
	}
	s.log.Info().Str("peer", string(peer)).Bool("oneTime", kx.OneTimePreKey != nil).Msg("Session initiated")
	return kx, nil
}

// InitializeRatchet is the responder half of the handshake. It looks up the
// retained prekey privates named by kx, recomputes the shared secret and
// installs the peer's session, overwriting any existing one. The one-time
// prekey, when named, is consumed: a second exchange reusing it fails.
func (s *Service) InitializeRatchet(peer domain.DID, kx domain.KeyExchange) error {
	id, err := s.requireIdentity()
	if err != nil {
		return err
	}

	spkPriv, ok := s.prekeys.SignedPreKeyPrivate(kx.SignedPreKey)
	if !ok {
		return &domain.RatchetStateError{Peer: peer, Err: domain.ErrPreKeyUnknown}
	}

	var opkPriv *domain.X25519Private
	if kx.OneTimePreKey != nil {
		p, ok := s.prekeys.ConsumeOneTimeKey(*kx.OneTimePreKey)
		if !ok {
			return &domain.RatchetStateError{Peer: peer, Err: domain.ErrOneTimeKeyConsumed}
		}
		opkPriv = &p
	}

	secret, err := x3dh.ResponderSecret(id.SigningPrivateKey, spkPriv, opkPriv, kx)
	if opkPriv != nil {
		memzero.Zero(opkPriv[:])
	}
	if err != nil {
		return &domain.CryptoOperationError{Op: "key agreement failed", Peer: peer, Err: err}
	}

	st, err := ratchet.ResponderState(secret, spkPriv, kx.SignedPreKey, kx.EphemeralKey, s.maxSkipped)
	memzero.Zero(secret)
	if err != nil {
		return &domain.CryptoOperationError{Op: "ratchet initialization failed", Peer: peer, Err: err}
	}
	s.sessions.CreateOrReplace(peer, ratchet.NewSession(st, s.random))

	s.log.Info().Str("peer", string(peer)).Msg("Session initialized as responder")
	return nil
}

// EncryptMessage seals plaintext for peer under the next sending key and
// advances the sending chain by one.
func (s *Service) EncryptMessage(peer domain.DID, plaintext []byte) (domain.EncryptedMessage, error) {
	sess, ok := s.sessions.Get(peer)
	if !ok {
		return domain.EncryptedMessage{}, &domain.RatchetStateError{Peer: peer, Err: domain.ErrNoSession}
	}
	header, ct, err := sess.Encrypt(nil, plaintext)
	if err != nil {
		return domain.EncryptedMessage{}, &domain.CryptoOperationError{Op: "message encryption failed", Peer: peer, Err: err}
	}
	return domain.EncryptedMessage{
		Header:     header,
		Ciphertext: ct,
		Timestamp:  time.Now().UnixMilli(),
	}, nil
}

// DecryptMessage opens a received message, absorbing ratchet steps and
// gaps its header reveals. A failed decrypt leaves the session untouched
// and usable for the next message; the caller should drop the offender.
func (s *Service) DecryptMessage(peer domain.DID, msg domain.EncryptedMessage) ([]byte, error) {
	sess, ok := s.sessions.Get(peer)
	if !ok {
		return nil, &domain.RatchetStateError{Peer: peer, Err: domain.ErrNoSession}
	}
	pt, err := sess.Decrypt(nil, msg.Header, msg.Ciphertext)
	if err != nil {
		s.log.Warn().Str("peer", string(peer)).Uint32("n", msg.Header.MessageNumber).Err(err).Msg("Dropping undecryptable message")
		return nil, &domain.CryptoOperationError{Op: "message decryption failed", Peer: peer, Err: err}
	}
	return pt, nil
}

// HasSession reports whether a live session exists for peer.
func (s *Service) HasSession(peer domain.DID) bool {
	_, ok := s.sessions.Get(peer)
	return ok
}

// EndSession wipes and removes peer's session, if any.
func (s *Service) EndSession(peer domain.DID) {
	s.sessions.Evict(peer)
	s.log.Info().Str("peer", string(peer)).Msg("Session ended")
}

func (s *Service) requireIdentity() (domain.Identity, error) {
	if id, ok := s.ids.CurrentIdentity(); ok {
		return id, nil
	}
	id, ok, err := s.ids.LoadIdentity()
	if err != nil {
		return domain.Identity{}, err
	}
	if !ok {
		return domain.Identity{}, &domain.IdentityError{Op: "key exchange", Err: domain.ErrNoIdentity}
	}
	return id, nil
}

// IsReplay reports whether a decrypt failure was a replayed or evicted
// message rather than a forgery, for callers that want to distinguish.
func IsReplay(err error) bool {
	return errors.Is(err, ratchet.ErrKeyConsumed)
}

// Compile-time assertion that Service implements domain.SessionService.
var _ domain.SessionService = (*Service)(nil)
