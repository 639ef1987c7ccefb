package cache

import (
	"log"
	"sync"

	"solana-liquidator/internal/domain"
)

// AccountsCache holds the latest-known decoded margin account per address
// plus the derived health index. The index is written in the same critical
// section as its owning account so readers never observe the two
// disagreeing.
type AccountsCache struct {
	mu       sync.RWMutex
	accounts map[domain.Address]domain.MarginAccount
	health   map[domain.Address]int64
	logger   *log.Logger
}

func newAccountsCache(logger *log.Logger) *AccountsCache {
	return &AccountsCache{
		accounts: make(map[domain.Address]domain.MarginAccount),
		health:   make(map[domain.Address]int64),
		logger:   logger,
	}
}

// Upsert stores the account and mirrors its health score into the index,
// unless a same-or-newer-slot entry is already cached. An underivable
// score (zero maintenance asset value) stores the sentinel and logs a
// warning; the account is still cached.
func (c *AccountsCache) Upsert(account domain.MarginAccount) {
	score, ok := account.HealthScore()
	if !ok {
		c.logger.Printf("WARN health score unavailable for account %s, storing sentinel", account.Address)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, exists := c.accounts[account.Address]; exists && existing.Slot >= account.Slot {
		return
	}
	c.accounts[account.Address] = account
	c.health[account.Address] = score
}

// Get returns the cached account or ErrNotFound.
func (c *AccountsCache) Get(address domain.Address) (domain.MarginAccount, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	account, ok := c.accounts[address]
	if !ok {
		return domain.MarginAccount{}, ErrNotFound
	}
	return account, nil
}

// Health returns the indexed health score for the address.
func (c *AccountsCache) Health(address domain.Address) (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	score, ok := c.health[address]
	if !ok {
		return 0, ErrNotFound
	}
	return score, nil
}

// HealthSnapshot returns a copy of the health index for scan ordering.
func (c *AccountsCache) HealthSnapshot() []domain.HealthEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entries := make([]domain.HealthEntry, 0, len(c.health))
	for address, score := range c.health {
		entries = append(entries, domain.HealthEntry{Address: address, Health: score})
	}
	return entries
}

// Len returns the number of cached accounts.
func (c *AccountsCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.accounts)
}
