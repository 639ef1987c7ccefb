package cache

import (
	"sync"

	"solana-liquidator/internal/domain"
)

// Mint is the cached identity of a token mint. Only the owning token
// program matters downstream: it selects the token program when deriving
// associated token accounts.
type Mint struct {
	Address domain.Address
	Owner   domain.Address
}

// MintsCache holds mint identities. Mints are loaded once at bootstrap and
// never streamed, so entries carry no slot.
type MintsCache struct {
	mu    sync.RWMutex
	mints map[domain.Address]Mint
}

func newMintsCache() *MintsCache {
	return &MintsCache{mints: make(map[domain.Address]Mint)}
}

// Upsert stores or replaces the mint identity.
func (c *MintsCache) Upsert(address, owner domain.Address) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mints[address] = Mint{Address: address, Owner: owner}
}

// Get returns the cached mint or ErrNotFound.
func (c *MintsCache) Get(address domain.Address) (Mint, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	mint, ok := c.mints[address]
	if !ok {
		return Mint{}, ErrNotFound
	}
	return mint, nil
}

// Len returns the number of cached mints.
func (c *MintsCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.mints)
}
