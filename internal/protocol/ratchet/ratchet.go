package ratchet

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"

	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/crypto"
	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/domain"
	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/util/memzero"
)

const (
	aeadKeySize = 32
	nonceSize   = chacha20poly1305.NonceSize

	// DefaultMaxSkipped bounds the skipped-key cache per session.
	DefaultMaxSkipped = 1000

	// skipWindow caps how far past the current chain position a single
	// message may run the receiving chain, as a multiple of the
	// skipped-key cap. The cache already evicts anything older than the
	// newest cap entries, so a larger jump only archives keys destined
	// for eviction; honouring an unbounded one would let a forged header
	// burn CPU on up to 2^32 chain advances before the AEAD check fails.
	skipWindow = 4
)

var (
	// ErrDecrypt reports an authentication failure. The session state is
	// left exactly as it was before the call.
	ErrDecrypt = errors.New("message decryption failed")

	// ErrKeyConsumed reports a message whose key was already used or
	// evicted from the skipped-key cache: a replay, or a gap older than
	// the cache bound.
	ErrKeyConsumed = errors.New("message key already consumed")

	// ErrSkipTooLarge reports a header whose message number would force
	// the receiving chain absurdly far forward in a single step.
	ErrSkipTooLarge = errors.New("message number too far ahead")

	errChainMissing = errors.New("ratchet chain key missing")
)

// State holds one side of a Double Ratchet session. Callers should treat it
// as opaque: build it with InitiatorState or ResponderState and drive it via
// Encrypt and Decrypt (or the Session wrapper, which adds locking).
type State struct {
	RootKey   []byte
	DHPriv    domain.X25519Private
	DHPub     domain.X25519Public
	PeerDHPub domain.X25519Public
	SendCK    []byte
	RecvCK    []byte
	Ns        uint32
	Nr        uint32
	PN        uint32
	Skipped   *SkippedKeys
}

// InitiatorState seeds a session from the X3DH secret on the initiating
// side. The handshake's ephemeral pair becomes the first sending ratchet
// key, paired against the responder's signed prekey, so the first messages
// can flow without any further exchange.
func InitiatorState(
	secret []byte,
	ephPriv domain.X25519Private,
	ephPub domain.X25519Public,
	peerSignedPreKey domain.X25519Public,
	maxSkipped int,
) (*State, error) {
	dh, err := crypto.DH(ephPriv, peerSignedPreKey)
	if err != nil {
		return nil, err
	}
	rootKey, sendCK := kdfRK(secret, dh[:])
	memzero.Zero(dh[:])

	return &State{
		RootKey:   rootKey,
		DHPriv:    ephPriv,
		DHPub:     ephPub,
		PeerDHPub: peerSignedPreKey,
		SendCK:    sendCK,
		Skipped:   newSkippedKeys(maxSkipped),
	}, nil
}

// ResponderState mirrors InitiatorState on the responding side: the signed
// prekey pair is the local ratchet key and the initiator's ephemeral seeds
// the receiving chain. The sending chain stays empty until the first reply,
// when Encrypt performs the deferred DH step.
func ResponderState(
	secret []byte,
	spkPriv domain.X25519Private,
	spkPub domain.X25519Public,
	peerEphemeral domain.X25519Public,
	maxSkipped int,
) (*State, error) {
	dh, err := crypto.DH(spkPriv, peerEphemeral)
	if err != nil {
		return nil, err
	}
	rootKey, recvCK := kdfRK(secret, dh[:])
	memzero.Zero(dh[:])

	return &State{
		RootKey:   rootKey,
		DHPriv:    spkPriv,
		DHPub:     spkPub,
		PeerDHPub: peerEphemeral,
		RecvCK:    recvCK,
		Skipped:   newSkippedKeys(maxSkipped),
	}, nil
}

// Encrypt derives the next sending key, seals plaintext and returns the
// header to transmit alongside the ciphertext. If the sending chain was
// closed by a peer ratchet step (or never opened, on the responder side) it
// first rotates the local ratchet key and advances the root.
func (st *State) Encrypt(random io.Reader, ad, plaintext []byte) (domain.MessageHeader, []byte, error) {
	if len(st.SendCK) == 0 {
		if err := st.dhRatchetSend(random); err != nil {
			return domain.MessageHeader{}, nil, err
		}
	}

	nextCK, mk := kdfCK(st.SendCK)
	memzero.Zero(st.SendCK)
	st.SendCK = nextCK

	header := domain.MessageHeader{
		PublicKey:           st.DHPub,
		PreviousChainLength: st.PN,
		MessageNumber:       st.Ns,
	}
	ct, err := seal(mk, header, ad, plaintext)
	memzero.Zero(mk)
	if err != nil {
		return domain.MessageHeader{}, nil, err
	}
	st.Ns++
	return header, ct, nil
}

// Decrypt opens a message, absorbing any ratchet step or gap the header
// reveals. It is transactional: on any error the state is unchanged, so a
// forged or replayed message cannot desynchronise the session.
func (st *State) Decrypt(ad []byte, header domain.MessageHeader, ciphertext []byte) ([]byte, error) {
	work := st.clone()

	// Out-of-order delivery: the key may have been archived already,
	// whether the chain it belongs to is current or long superseded.
	id := skippedKeyID{pub: header.PublicKey, n: header.MessageNumber}
	if mk, ok := work.Skipped.take(id); ok {
		pt, err := open(mk, header, ad, ciphertext)
		memzero.Zero(mk)
		if err != nil {
			return nil, ErrDecrypt
		}
		*st = *work
		return pt, nil
	}

	if header.PublicKey != work.PeerDHPub {
		// The peer rotated its ratchet key: archive the remainder of
		// the old receiving chain, then step to the new one. Our own
		// sending chain closes; the next Encrypt reopens it.
		if err := work.skipTo(header.PreviousChainLength); err != nil {
			return nil, err
		}
		if err := work.dhRatchetRecv(header.PublicKey); err != nil {
			return nil, err
		}
	} else if header.MessageNumber < work.Nr {
		// Behind the chain position and not in the cache: the key was
		// consumed by an earlier message or evicted.
		return nil, ErrKeyConsumed
	}

	if err := work.skipTo(header.MessageNumber); err != nil {
		return nil, err
	}
	mk, err := work.nextRecvKey()
	if err != nil {
		return nil, err
	}
	pt, err := open(mk, header, ad, ciphertext)
	memzero.Zero(mk)
	if err != nil {
		return nil, ErrDecrypt
	}
	work.Nr++
	*st = *work
	return pt, nil
}

// Wipe zeroes all secret material held by the state.
func (st *State) Wipe() {
	memzero.ZeroAll(st.RootKey, st.SendCK, st.RecvCK)
	memzero.Zero(st.DHPriv[:])
	st.RootKey, st.SendCK, st.RecvCK = nil, nil, nil
	if st.Skipped != nil {
		st.Skipped.wipe()
	}
}

// dhRatchetSend rotates the local ratchet key and opens a fresh sending
// chain against the peer's current key.
func (st *State) dhRatchetSend(random io.Reader) error {
	if random == nil {
		random = rand.Reader
	}
	priv, pub, err := crypto.GenerateX25519(random)
	if err != nil {
		return err
	}
	dh, err := crypto.DH(priv, st.PeerDHPub)
	if err != nil {
		return err
	}
	rootKey, sendCK := kdfRK(st.RootKey, dh[:])
	memzero.ZeroAll(dh[:], st.RootKey)

	st.PN = st.Ns
	st.Ns = 0
	st.RootKey = rootKey
	st.DHPriv, st.DHPub = priv, pub
	st.SendCK = sendCK
	return nil
}

// dhRatchetRecv absorbs a peer ratchet step: new root, fresh receiving
// chain, closed sending chain. Ns and PN are left alone so the next send
// can report the length of the chain being closed.
func (st *State) dhRatchetRecv(remote domain.X25519Public) error {
	dh, err := crypto.DH(st.DHPriv, remote)
	if err != nil {
		return err
	}
	rootKey, recvCK := kdfRK(st.RootKey, dh[:])
	memzero.ZeroAll(dh[:], st.RootKey, st.RecvCK, st.SendCK)

	st.RootKey = rootKey
	st.RecvCK = recvCK
	st.SendCK = nil
	st.PeerDHPub = remote
	st.Nr = 0
	return nil
}

// skipTo derives and archives receiving keys up to, but not including, n.
func (st *State) skipTo(n uint32) error {
	if st.Nr >= n {
		return nil
	}
	if uint64(n-st.Nr) > uint64(st.Skipped.cap)*skipWindow {
		return ErrSkipTooLarge
	}
	if len(st.RecvCK) == 0 {
		return errChainMissing
	}
	for st.Nr < n {
		nextCK, mk := kdfCK(st.RecvCK)
		memzero.Zero(st.RecvCK)
		st.RecvCK = nextCK
		st.Skipped.put(skippedKeyID{pub: st.PeerDHPub, n: st.Nr}, mk)
		st.Nr++
	}
	return nil
}

// nextRecvKey advances the receiving chain by one message key.
func (st *State) nextRecvKey() ([]byte, error) {
	if len(st.RecvCK) == 0 {
		return nil, errChainMissing
	}
	nextCK, mk := kdfCK(st.RecvCK)
	memzero.Zero(st.RecvCK)
	st.RecvCK = nextCK
	return mk, nil
}

func (st *State) clone() *State {
	cp := *st
	cp.RootKey = append([]byte(nil), st.RootKey...)
	cp.SendCK = append([]byte(nil), st.SendCK...)
	cp.RecvCK = append([]byte(nil), st.RecvCK...)
	cp.Skipped = st.Skipped.clone()
	return &cp
}

// --- helpers ---

func seal(mk []byte, header domain.MessageHeader, ad, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(mk[:aeadKeySize])
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, nonceSize)
	binary.BigEndian.PutUint32(nonce[nonceSize-4:], header.MessageNumber)
	return aead.Seal(nil, nonce, plaintext, authData(ad, header)), nil
}

func open(mk []byte, header domain.MessageHeader, ad, ciphertext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(mk[:aeadKeySize])
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, nonceSize)
	binary.BigEndian.PutUint32(nonce[nonceSize-4:], header.MessageNumber)
	return aead.Open(nil, nonce, ciphertext, authData(ad, header))
}

// authData binds the caller's associated data and the full header into the
// AEAD, without aliasing the caller's slice.
func authData(ad []byte, header domain.MessageHeader) []byte {
	out := make([]byte, 0, len(ad)+len(header.PublicKey)+8)
	out = append(out, ad...)
	out = append(out, header.PublicKey[:]...)
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], header.PreviousChainLength)
	out = append(out, b[:]...)
	binary.BigEndian.PutUint32(b[:], header.MessageNumber)
	out = append(out, b[:]...)
	return out
}

// HKDF-based KDFs with labels.
func kdfRK(rk, dh []byte) (newRK, ck []byte) {
	r := hkdf.New(sha256.New, dh, rk, []byte("DR|rk"))
	newRK = make([]byte, 32)
	ck = make([]byte, 32)
	_, _ = io.ReadFull(r, newRK)
	_, _ = io.ReadFull(r, ck)
	return
}

func kdfCK(ck []byte) (nextCK, mk []byte) {
	r := hkdf.New(sha256.New, ck, nil, []byte("DR|ck"))
	nextCK = make([]byte, 32)
	mk = make([]byte, 32)
	_, _ = io.ReadFull(r, nextCK)
	_, _ = io.ReadFull(r, mk)
	return
}
