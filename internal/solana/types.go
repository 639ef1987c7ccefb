package solana

import (
	"context"

	"solana-liquidator/internal/domain"
)

// Fetcher is the account-fetch contract consumed by the cache loader and
// the liquidation strategies. Implementations must batch large address
// lists internally; callers assume no hard limit.
type Fetcher interface {
	// GetAccount retrieves a single account. Returns ErrAccountNotFound
	// if the account does not exist.
	GetAccount(ctx context.Context, address domain.Address) (domain.Account, error)

	// GetProgramAccounts retrieves every account owned by the program.
	GetProgramAccounts(ctx context.Context, programID domain.Address) ([]domain.KeyedAccount, error)

	// GetAccounts retrieves many accounts by address. Missing accounts are
	// silently omitted from the result.
	GetAccounts(ctx context.Context, addresses []domain.Address) ([]domain.KeyedAccount, error)
}
