package cache

import (
	"sync"

	"solana-liquidator/internal/domain"
)

// BanksCache holds the latest-known decoded bank per address.
type BanksCache struct {
	mu    sync.RWMutex
	banks map[domain.Address]domain.Bank
}

func newBanksCache() *BanksCache {
	return &BanksCache{banks: make(map[domain.Address]domain.Bank)}
}

// Upsert stores the bank unless a same-or-newer-slot entry is already
// cached. The older-slot case is a successful no-op.
func (c *BanksCache) Upsert(bank domain.Bank) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.banks[bank.Address]; ok && existing.Slot >= bank.Slot {
		return
	}
	c.banks[bank.Address] = bank
}

// Get returns the cached bank or ErrNotFound.
func (c *BanksCache) Get(address domain.Address) (domain.Bank, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	bank, ok := c.banks[address]
	if !ok {
		return domain.Bank{}, ErrNotFound
	}
	return bank, nil
}

// Len returns the number of cached banks.
func (c *BanksCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.banks)
}

// MintAddresses returns the distinct mint addresses referenced by all
// cached banks.
func (c *BanksCache) MintAddresses() []domain.Address {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[domain.Address]struct{}, len(c.banks))
	var mints []domain.Address
	for _, bank := range c.banks {
		if _, ok := seen[bank.Mint]; ok {
			continue
		}
		seen[bank.Mint] = struct{}{}
		mints = append(mints, bank.Mint)
	}
	return mints
}

// BankOracles is one bank's declared oracle configuration.
type BankOracles struct {
	Bank      domain.Address
	Variant   domain.OracleVariant
	Addresses []domain.Address
}

// OracleSets returns, per cached bank, its oracle variant and oracle
// addresses. Addresses shared between banks appear once per bank.
func (c *BanksCache) OracleSets() []BankOracles {
	c.mu.RLock()
	defer c.mu.RUnlock()

	sets := make([]BankOracles, 0, len(c.banks))
	for _, bank := range c.banks {
		sets = append(sets, BankOracles{
			Bank:      bank.Address,
			Variant:   bank.OracleVariant,
			Addresses: append([]domain.Address(nil), bank.OracleAddresses...),
		})
	}
	return sets
}
