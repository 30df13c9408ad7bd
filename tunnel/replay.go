package tunnel

import (
	"fmt"
	"time"

	"github.com/cloudflare/golibs/lrucache"

	"github.com/anvilcrypt/aesdh/internal/exception"
)

// nonceGuardCapacity bounds how many recent (mode, nonce) pairs a
// connection remembers; old entries age out on their own via the LRU
// cache's expiry, same as the teacher's session-token cache.
const nonceGuardCapacity = 4096

// nonceGuardTTL is how long a remembered nonce blocks reuse.
const nonceGuardTTL = 10 * time.Minute

// seenMarker is the cached value for each remembered (mode, nonce) pair.
// lrucache.Cacheable requires an eviction hook; a seen nonce being
// evicted for capacity/age reasons is routine and needs no handling.
type seenMarker struct{}

func (seenMarker) OnEvict() {}

// NonceGuard rejects reuse of a (mode, nonce) pair within a single
// connection's lifetime, generalizing the teacher's token-cache idiom
// (tunnel/d5.go sessionMgr.createTokens / take) from session tokens to
// message nonces.
type NonceGuard struct {
	seen *lrucache.LRUCache
}

// NewNonceGuard builds an empty guard.
func NewNonceGuard() *NonceGuard {
	return &NonceGuard{seen: lrucache.NewLRUCache(nonceGuardCapacity)}
}

func nonceGuardKey(mode Mode, nonce uint64) string {
	return fmt.Sprintf("%d:%d", mode, nonce)
}

// CheckAndRemember returns a ProtocolError if (mode, nonce) has already
// been used on this connection; otherwise it records the pair and
// returns nil.
func (g *NonceGuard) CheckAndRemember(mode Mode, nonce uint64) error {
	key := nonceGuardKey(mode, nonce)
	if _, found := g.seen.Get(key); found {
		return exception.New(exception.ProtocolError, "tunnel: nonce reuse detected for mode/nonce").Apply(key)
	}
	g.seen.Set(key, seenMarker{}, time.Now().Add(nonceGuardTTL))
	return nil
}
