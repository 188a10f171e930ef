package identity

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/crypto"
	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/did"
	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/domain"
	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/util/memzero"
)

const (
	// identityKey is the KeyValue slot holding the encoded identity record.
	identityKey = "identity"
	// auxPrefix collects per-identity auxiliary records, wiped together
	// with the identity.
	auxPrefix = "aux/"
	// reputationSeedKey holds the stable seed for gossip reputation scoring.
	reputationSeedKey = auxPrefix + "reputation-seed"

	// recordVersion gates the stored identity format.
	recordVersion = 1

	// proofWindow is how long an identity proof stays acceptable.
	proofWindow = 5 * time.Minute
	// proofSkew tolerates peer clocks slightly ahead of ours.
	proofSkew = time.Minute
)

var (
	// ErrProofDID is returned when a proof claims a different DID than expected.
	ErrProofDID = errors.New("identity proof DID mismatch")
	// ErrProofSignature is returned when a proof signature does not verify.
	ErrProofSignature = errors.New("identity proof signature invalid")
	// ErrProofExpired is returned for proofs outside the freshness window.
	ErrProofExpired = errors.New("identity proof expired or postdated")
)

// record is the stored JSON shape. The version gate keeps older builds from
// silently accepting records they cannot validate.
type record struct {
	V        int             `json:"v"`
	Identity domain.Identity `json:"identity"`
}

// Service owns the long-term Ed25519 signing pair and its did:key. The
// record persists through the injected KeyValue; everything derived from the
// identity registers as a Purger and is dropped when the identity is wiped.
type Service struct {
	kv     domain.KeyValue
	log    zerolog.Logger
	random io.Reader

	mu      sync.RWMutex
	current *domain.Identity
	purgers []domain.Purger
}

// New returns an identity service backed by kv.
func New(kv domain.KeyValue, logger zerolog.Logger, random io.Reader) *Service {
	if random == nil {
		random = rand.Reader
	}
	return &Service{kv: kv, log: logger, random: random}
}

// PurgeOnWipe registers stores whose contents derive from the identity;
// they are cleared whenever the identity is replaced or destroyed.
func (s *Service) PurgeOnWipe(purgers ...domain.Purger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgers = append(s.purgers, purgers...)
}

// GenerateIdentity creates and persists a fresh signing pair and DID. An
// existing identity is replaced, and state derived from it is purged.
func (s *Service) GenerateIdentity() (domain.Identity, error) {
	_, replacing, err := s.kv.Get(identityKey)
	if err != nil {
		return domain.Identity{}, &domain.IdentityError{Op: "generate", Err: err}
	}

	priv, pub, err := crypto.GenerateEd25519(s.random)
	if err != nil {
		return domain.Identity{}, &domain.IdentityError{Op: "generate", Err: err}
	}
	id := domain.Identity{
		DID:               did.FromPublicKey(pub),
		SigningPublicKey:  pub,
		SigningPrivateKey: priv,
	}

	raw, err := json.Marshal(record{V: recordVersion, Identity: id})
	if err != nil {
		return domain.Identity{}, &domain.IdentityError{Op: "generate", Err: err}
	}
	err = s.kv.Set(identityKey, raw)
	memzero.Zero(raw)
	if err != nil {
		return domain.Identity{}, &domain.IdentityError{Op: "generate", Err: err}
	}
	if err := s.writeReputationSeed(); err != nil {
		return domain.Identity{}, &domain.IdentityError{Op: "generate", Err: err}
	}

	s.mu.Lock()
	s.current = &id
	purgers := append([]domain.Purger(nil), s.purgers...)
	s.mu.Unlock()

	if replacing {
		s.log.Warn().Str("did", string(id.DID)).Msg("Replacing existing identity")
		for _, p := range purgers {
			p.Clear()
		}
	}
	s.log.Info().Str("did", string(id.DID)).Msg("Identity generated")
	return id, nil
}

// LoadIdentity reads and validates the stored identity. A record that fails
// validation is reported as absent so the caller can regenerate; the raw
// bytes stay in the store for inspection.
func (s *Service) LoadIdentity() (domain.Identity, bool, error) {
	raw, ok, err := s.kv.Get(identityKey)
	if err != nil {
		return domain.Identity{}, false, &domain.IdentityError{Op: "load", Err: err}
	}
	if !ok {
		return domain.Identity{}, false, nil
	}
	id, err := decodeRecord(raw)
	if err != nil {
		s.log.Warn().Err(err).Msg("Stored identity failed validation")
		return domain.Identity{}, false, nil
	}

	s.mu.Lock()
	s.current = &id
	s.mu.Unlock()
	return id, true, nil
}

// HasIdentity reports whether a usable identity exists.
func (s *Service) HasIdentity() bool {
	s.mu.RLock()
	cached := s.current != nil
	s.mu.RUnlock()
	if cached {
		return true
	}
	_, ok, _ := s.LoadIdentity()
	return ok
}

// CurrentIdentity returns the identity loaded in this process, if any.
func (s *Service) CurrentIdentity() (domain.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return domain.Identity{}, false
	}
	return *s.current, true
}

// ClearAllData destroys the identity record, its auxiliary records and all
// registered derived state. It is idempotent.
func (s *Service) ClearAllData() error {
	s.mu.Lock()
	if s.current != nil {
		memzero.Zero(s.current.SigningPrivateKey[:])
		s.current = nil
	}
	purgers := append([]domain.Purger(nil), s.purgers...)
	s.mu.Unlock()

	if err := s.kv.Remove(identityKey); err != nil {
		return &domain.IdentityError{Op: "clear", Err: err}
	}
	keys, err := s.kv.Keys(auxPrefix)
	if err != nil {
		return &domain.IdentityError{Op: "clear", Err: err}
	}
	for _, k := range keys {
		if err := s.kv.Remove(k); err != nil {
			return &domain.IdentityError{Op: "clear", Err: err}
		}
	}
	for _, p := range purgers {
		p.Clear()
	}
	s.log.Info().Msg("Identity and derived state destroyed")
	return nil
}

// CreateIdentityProof signs a fresh liveness proof: the DID, a millisecond
// timestamp and a random challenge, bound by the identity key.
func (s *Service) CreateIdentityProof() (domain.IdentityProof, error) {
	id, err := s.requireIdentity()
	if err != nil {
		return domain.IdentityProof{}, err
	}
	proof := domain.IdentityProof{
		DID:       id.DID,
		Timestamp: time.Now().UnixMilli(),
		Challenge: uuid.NewString(),
	}
	proof.Signature = crypto.SignEd25519(id.SigningPrivateKey, proofDigest(proof))
	return proof, nil
}

// VerifyIdentityProof checks that proof was produced by the holder of
// expected's key within the freshness window. The verifying key comes out
// of the DID itself, so no key exchange has to precede verification.
func (s *Service) VerifyIdentityProof(proof domain.IdentityProof, expected domain.DID) error {
	if proof.DID != expected {
		return &domain.SignatureError{Peer: expected, Err: ErrProofDID}
	}
	pub, err := did.PublicKey(proof.DID)
	if err != nil {
		return &domain.SignatureError{Peer: expected, Err: err}
	}
	age := time.Now().UnixMilli() - proof.Timestamp
	if age > proofWindow.Milliseconds() || age < -proofSkew.Milliseconds() {
		return &domain.SignatureError{Peer: expected, Err: ErrProofExpired}
	}
	if !crypto.VerifyEd25519(pub, proofDigest(proof), proof.Signature) {
		return &domain.SignatureError{Peer: expected, Err: ErrProofSignature}
	}
	return nil
}

// Fingerprint returns a short fingerprint of the local signing key for
// out-of-band comparison.
func (s *Service) Fingerprint() (string, error) {
	id, err := s.requireIdentity()
	if err != nil {
		return "", err
	}
	return crypto.Fingerprint(id.SigningPublicKey.Slice()), nil
}

// ReputationSeed returns the stable per-identity seed used to initialise
// gossip reputation scoring.
func (s *Service) ReputationSeed() ([]byte, error) {
	v, ok, err := s.kv.Get(reputationSeedKey)
	if err != nil {
		return nil, &domain.IdentityError{Op: "seed", Err: err}
	}
	if !ok {
		return nil, &domain.IdentityError{Op: "seed", Err: domain.ErrNoIdentity}
	}
	return v, nil
}

func (s *Service) requireIdentity() (domain.Identity, error) {
	if id, ok := s.CurrentIdentity(); ok {
		return id, nil
	}
	id, ok, err := s.LoadIdentity()
	if err != nil {
		return domain.Identity{}, err
	}
	if !ok {
		return domain.Identity{}, &domain.IdentityError{Op: "load", Err: domain.ErrNoIdentity}
	}
	return id, nil
}

func (s *Service) writeReputationSeed() error {
	seed := make([]byte, 32)
	if _, err := io.ReadFull(s.random, seed); err != nil {
		return err
	}
	err := s.kv.Set(reputationSeedKey, seed)
	memzero.Zero(seed)
	return err
}

// proofDigest is the byte string an identity proof signs: DID, millisecond
// timestamp and challenge, pipe-separated.
func proofDigest(p domain.IdentityProof) []byte {
	return []byte(fmt.Sprintf("%s|%d|%s", p.DID, p.Timestamp, p.Challenge))
}

func decodeRecord(raw []byte) (domain.Identity, error) {
	// Strict decode: a record with fields this build does not know is as
	// suspect as one with a bad version.
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var rec record
	if err := dec.Decode(&rec); err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrIdentityCorrupted, err)
	}
	if rec.V != recordVersion {
		return domain.Identity{}, fmt.Errorf("%w: unsupported record version %d", domain.ErrIdentityCorrupted, rec.V)
	}
	id := rec.Identity
	if id.SigningPublicKey == (domain.Ed25519Public{}) {
		return domain.Identity{}, fmt.Errorf("%w: zero public key", domain.ErrIdentityCorrupted)
	}
	// The Ed25519 private key embeds its public half; all fields must agree.
	var pubFromPriv domain.Ed25519Public
	copy(pubFromPriv[:], id.SigningPrivateKey[32:])
	if pubFromPriv != id.SigningPublicKey {
		return domain.Identity{}, fmt.Errorf("%w: key pair mismatch", domain.ErrIdentityCorrupted)
	}
	if did.FromPublicKey(id.SigningPublicKey) != id.DID {
		return domain.Identity{}, fmt.Errorf("%w: DID does not match public key", domain.ErrIdentityCorrupted)
	}
	return id, nil
}

// Compile-time assertion that Service implements domain.IdentityService.
var _ domain.IdentityService = (*Service)(nil)
