package app

import (
	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/domain"
	identitysvc "github.com/xxsamboladiones/Tinder-P2P-sub001/internal/services/identity"
	prekeysvc "github.com/xxsamboladiones/Tinder-P2P-sub001/internal/services/prekey"
	sessionsvc "github.com/xxsamboladiones/Tinder-P2P-sub001/internal/services/session"
	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/store"
)

// New constructs the dependency graph from cfg.
func New(cfg Config) (*App, error) {
	kv, err := openKV(cfg)
	if err != nil {
		return nil, err
	}

	identity := identitysvc.New(kv, cfg.Logger, cfg.Random)
	prekeys := prekeysvc.New(identity, cfg.Logger, cfg.Random)
	sessionStore := store.NewSessionStore()
	sessions := sessionsvc.New(identity, prekeys, sessionStore, cfg.Logger, cfg.Random, cfg.MaxSkippedKeys)

	// Prekeys and live sessions derive from the identity; destroying it
	// must take them down too.
	identity.PurgeOnWipe(prekeys, sessionStore)

	return &App{
		Identity:     identity,
		PreKeys:      prekeys,
		Sessions:     sessions,
		SessionStore: sessionStore,
		KV:           kv,
	}, nil
}

// openKV picks the persistence backend: OS keyring when requested, a file
// store otherwise, optionally sealed under a passphrase.
func openKV(cfg Config) (domain.KeyValue, error) {
	var (
		kv  domain.KeyValue
		err error
	)
	if cfg.KeyringService != "" {
		kv, err = store.NewKeyringKV(cfg.KeyringService)
	} else {
		kv, err = store.NewFileKV(cfg.Home)
	}
	if err != nil {
		return nil, err
	}
	if cfg.Passphrase != "" {
		kv = store.NewSealedKV(kv, cfg.Passphrase)
	}
	return kv, nil
}
