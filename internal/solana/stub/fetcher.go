// Package stub provides an in-memory solana.Fetcher for testing.
package stub

import (
	"context"
	"fmt"
	"sync"

	"solana-liquidator/internal/domain"
	"solana-liquidator/internal/solana"
)

// Fetcher implements solana.Fetcher over an in-memory account map.
type Fetcher struct {
	mu       sync.RWMutex
	accounts map[domain.Address]domain.Account

	// Err, when set, is returned by every fetch operation. Used to test
	// hard-failure propagation.
	Err error
}

// Compile-time interface check.
var _ solana.Fetcher = (*Fetcher)(nil)

// NewFetcher creates an empty stub fetcher.
func NewFetcher() *Fetcher {
	return &Fetcher{accounts: make(map[domain.Address]domain.Account)}
}

// SetAccount adds or replaces an account in the stub store.
func (f *Fetcher) SetAccount(address domain.Address, account domain.Account) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[address] = account
}

// GetAccount retrieves a single account from the stub store.
func (f *Fetcher) GetAccount(_ context.Context, address domain.Address) (domain.Account, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.Err != nil {
		return domain.Account{}, f.Err
	}
	account, ok := f.accounts[address]
	if !ok {
		return domain.Account{}, fmt.Errorf("get account %s: %w", address, solana.ErrAccountNotFound)
	}
	return account, nil
}

// GetProgramAccounts retrieves all stub accounts owned by the program.
func (f *Fetcher) GetProgramAccounts(_ context.Context, programID domain.Address) ([]domain.KeyedAccount, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.Err != nil {
		return nil, f.Err
	}
	var out []domain.KeyedAccount
	for address, account := range f.accounts {
		if account.Owner == programID {
			out = append(out, domain.KeyedAccount{Address: address, Account: account})
		}
	}
	return out, nil
}

// GetAccounts retrieves the listed accounts, omitting missing ones.
func (f *Fetcher) GetAccounts(_ context.Context, addresses []domain.Address) ([]domain.KeyedAccount, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.Err != nil {
		return nil, f.Err
	}
	var out []domain.KeyedAccount
	for _, address := range addresses {
		if account, ok := f.accounts[address]; ok {
			out = append(out, domain.KeyedAccount{Address: address, Account: account})
		}
	}
	return out, nil
}
