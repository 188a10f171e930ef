package transport

import (
	"context"
	"errors"
	"fmt"
	mrand "math/rand"
	"sync"

	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/domain"
)

// ErrNoBundle is returned by Directory.Fetch when a peer never published.
var ErrNoBundle = errors.New("no prekey bundle published")

// Memory is an in-process Transport for tests and local development. It
// queues envelopes per recipient and, like the real network, promises
// nothing about ordering: Scramble makes Collect return envelopes in a
// random order so out-of-order handling can be exercised deliberately.
type Memory struct {
	mu      sync.Mutex
	queues  map[domain.DID][]domain.Envelope
	shuffle *mrand.Rand
}

// NewMemory returns an empty in-process transport.
func NewMemory() *Memory {
	return &Memory{queues: make(map[domain.DID][]domain.Envelope)}
}

// Scramble makes subsequent Collect calls return envelopes in an order
// drawn from r instead of arrival order.
func (m *Memory) Scramble(r *mrand.Rand) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shuffle = r
}

// Deliver queues env for its recipient.
func (m *Memory) Deliver(ctx context.Context, env domain.Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queues[env.To] = append(m.queues[env.To], env)
	return nil
}

// Collect drains up to limit envelopes addressed to a peer. A non-positive
// limit drains everything.
func (m *Memory) Collect(ctx context.Context, to domain.DID, limit int) ([]domain.Envelope, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	q := m.queues[to]
	if len(q) == 0 {
		return nil, nil
	}
	if m.shuffle != nil {
		m.shuffle.Shuffle(len(q), func(i, j int) { q[i], q[j] = q[j], q[i] })
	}
	n := len(q)
	if limit > 0 && limit < n {
		n = limit
	}
	out := append([]domain.Envelope(nil), q[:n]...)
	m.queues[to] = q[n:]
	return out, nil
}

// Directory is an in-process BundleDirectory: the narrow waist of the
// discovery collaborator, holding the latest bundle per peer.
type Directory struct {
	mu      sync.RWMutex
	bundles map[domain.DID]domain.PreKeyBundle
}

// NewDirectory returns an empty bundle directory.
func NewDirectory() *Directory {
	return &Directory{bundles: make(map[domain.DID]domain.PreKeyBundle)}
}

// Publish stores owner's latest bundle, replacing any previous one.
func (d *Directory) Publish(ctx context.Context, owner domain.DID, bundle domain.PreKeyBundle) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.bundles[owner] = bundle
	return nil
}

// Fetch returns owner's latest published bundle.
func (d *Directory) Fetch(ctx context.Context, owner domain.DID) (domain.PreKeyBundle, error) {
	if err := ctx.Err(); err != nil {
		return domain.PreKeyBundle{}, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	b, ok := d.bundles[owner]
	if !ok {
		return domain.PreKeyBundle{}, fmt.Errorf("%w: %s", ErrNoBundle, owner)
	}
	return b, nil
}

// Compile-time assertions.
var (
	_ domain.Transport       = (*Memory)(nil)
	_ domain.BundleDirectory = (*Directory)(nil)
)
