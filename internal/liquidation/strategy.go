// Package liquidation contains the health-ranked scan loop and the
// strategy state machine that turns unhealthy positions into
// liquidation attempts.
package liquidation

import (
	"context"

	"solana-liquidator/internal/domain"
)

// Params carries everything a liquidation execution needs, produced by
// Strategy.Prepare and consumed by Strategy.Liquidate.
type Params struct {
	Account       domain.Address
	Authority     domain.Address
	AssetBank     domain.Address
	LiabilityBank domain.Address
	HealthScore   int64
	Slot          uint64
}

// Strategy is a two-step state machine per candidate. Prepare is
// read-only against the cache; Liquidate is the only step allowed to
// touch the chain. Prepare returning nil params means the position is
// not currently eligible, which is not an error.
type Strategy interface {
	Prepare(ctx context.Context, account *domain.MarginAccount) (*Params, error)
	Liquidate(ctx context.Context, params *Params) error
	ID() string
}

// Executor submits the actual liquidation transaction. The scheduler
// and strategies never build or sign transactions themselves.
type Executor interface {
	Execute(ctx context.Context, params *Params) (signature string, err error)
}

// Chooser selects a strategy for a candidate position. A pure function
// of account state; today every position maps to the same strategy.
type Chooser func(account *domain.MarginAccount) Strategy

// SingleStrategy returns a Chooser that always picks s.
func SingleStrategy(s Strategy) Chooser {
	return func(*domain.MarginAccount) Strategy {
		return s
	}
}
