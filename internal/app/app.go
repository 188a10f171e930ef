package app

import (
	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/domain"
	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/store"
)

// App bundles the services and stores a node needs: the crypto core plus
// its persistence. Transport and discovery collaborators are wired by the
// caller, since they live outside this module.
type App struct {
	Identity domain.IdentityService
	PreKeys  domain.PreKeyService
	Sessions domain.SessionService

	// SessionStore owns the live ratchet sessions; exposed so callers can
	// evict peers directly during connection teardown.
	SessionStore *store.SessionStore

	// KV is the persistence backend the identity lives in.
	KV domain.KeyValue
}
