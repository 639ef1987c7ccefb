package liquidation

import (
	"context"
	"fmt"
	"log"

	"solana-liquidator/internal/cache"
	"solana-liquidator/internal/domain"
)

// BasicStrategy liquidates the largest liability of an unhealthy
// position against its largest collateral balance.
type BasicStrategy struct {
	cache     *cache.Cache
	executor  Executor
	minProfit float64
	logger    *log.Logger
}

// BasicStrategyOptions contains configuration for creating a BasicStrategy.
type BasicStrategyOptions struct {
	Cache    *cache.Cache
	Executor Executor
	// MinProfitUSD skips positions whose total liability value is below
	// the threshold; zero disables the check.
	MinProfitUSD float64
	Logger       *log.Logger
}

// NewBasicStrategy creates the default liquidation strategy.
func NewBasicStrategy(opts BasicStrategyOptions) *BasicStrategy {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &BasicStrategy{
		cache:     opts.Cache,
		executor:  opts.Executor,
		minProfit: opts.MinProfitUSD,
		logger:    logger,
	}
}

// ID returns the strategy identifier.
func (s *BasicStrategy) ID() string {
	return "basic"
}

// Prepare evaluates a position read-only. Returns nil params when the
// position is healthy, too small, or missing the data an execution
// would need.
func (s *BasicStrategy) Prepare(_ context.Context, account *domain.MarginAccount) (*Params, error) {
	health, ok := account.HealthScore()
	if ok && health >= 0 {
		return nil, nil
	}

	var assetBank, liabilityBank domain.Address
	var bestAsset, bestLiability domain.I80F48
	for _, bal := range account.Balances {
		if bal.AssetShares.Sign() > 0 && bal.AssetShares.Cmp(bestAsset) > 0 {
			bestAsset = bal.AssetShares
			assetBank = bal.Bank
		}
		if bal.LiabilityShares.Sign() > 0 && bal.LiabilityShares.Cmp(bestLiability) > 0 {
			bestLiability = bal.LiabilityShares
			liabilityBank = bal.Bank
		}
	}
	if assetBank.IsZero() || liabilityBank.IsZero() {
		return nil, nil
	}

	if s.minProfit > 0 && account.LiabilityValueMaint.Float64() < s.minProfit {
		return nil, nil
	}

	// Both banks must be cached and the collateral bank must have a
	// usable price before an execution can be built
	bank, err := s.cache.Banks.Get(assetBank)
	if err != nil {
		return nil, fmt.Errorf("asset bank %s: %w", assetBank, err)
	}
	if _, err := s.cache.Banks.Get(liabilityBank); err != nil {
		return nil, fmt.Errorf("liability bank %s: %w", liabilityBank, err)
	}
	if !s.hasPrice(bank.OracleAddresses) {
		return nil, fmt.Errorf("asset bank %s: no oracle price", assetBank)
	}

	return &Params{
		Account:       account.Address,
		Authority:     account.Authority,
		AssetBank:     assetBank,
		LiabilityBank: liabilityBank,
		HealthScore:   healthOrSentinel(account),
		Slot:          account.Slot,
	}, nil
}

// Liquidate submits the prepared liquidation through the executor.
func (s *BasicStrategy) Liquidate(ctx context.Context, params *Params) error {
	sig, err := s.executor.Execute(ctx, params)
	if err != nil {
		return fmt.Errorf("execute liquidation for %s: %w", params.Account, err)
	}
	s.logger.Printf("Liquidated %s (health=%d): %s", params.Account, params.HealthScore, sig)
	return nil
}

func (s *BasicStrategy) hasPrice(oracles []domain.Address) bool {
	for _, addr := range oracles {
		if o, err := s.cache.Oracles.Get(addr); err == nil && o.HasPrice() {
			return true
		}
	}
	return false
}

func healthOrSentinel(account *domain.MarginAccount) int64 {
	if health, ok := account.HealthScore(); ok {
		return health
	}
	return domain.HealthUnavailable
}

var _ Strategy = (*BasicStrategy)(nil)
