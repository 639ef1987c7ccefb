package liquidation

import (
	"context"
	"log"
	"sort"
	"time"

	"solana-liquidator/internal/cache"
	"solana-liquidator/internal/domain"
	"solana-liquidator/internal/observability"
	"solana-liquidator/internal/storage"
)

// Comparator orders liquidation candidates; the scheduler visits the
// "smaller" entry first.
type Comparator func(a, b domain.HealthEntry) bool

// DefaultComparator visits the lowest health first. Positions whose
// health could not be computed carry the sentinel score, which is the
// minimum int64 and therefore sorts ahead of everything else.
func DefaultComparator(a, b domain.HealthEntry) bool {
	return a.Health < b.Health
}

// Scheduler runs the periodic scan over the health index, dispatching
// each candidate through the strategy state machine.
type Scheduler struct {
	cache    *cache.Cache
	choose   Chooser
	compare  Comparator
	store    storage.LiquidationRecordStore
	interval time.Duration
	logger   *log.Logger
	metrics  *observability.Metrics
}

// SchedulerOptions contains configuration for creating a Scheduler.
type SchedulerOptions struct {
	Cache      *cache.Cache
	Chooser    Chooser
	Comparator Comparator // Default: DefaultComparator
	// Store receives one record per liquidation attempt; nil disables
	// attempt history.
	Store    storage.LiquidationRecordStore
	Interval time.Duration // Default: 5s
	Logger   *log.Logger
	Metrics  *observability.Metrics
}

// NewScheduler creates a new liquidation scheduler.
func NewScheduler(opts SchedulerOptions) *Scheduler {
	compare := opts.Comparator
	if compare == nil {
		compare = DefaultComparator
	}

	interval := opts.Interval
	if interval == 0 {
		interval = 5 * time.Second
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Scheduler{
		cache:    opts.Cache,
		choose:   opts.Chooser,
		compare:  compare,
		store:    opts.Store,
		interval: interval,
		logger:   logger,
		metrics:  opts.Metrics,
	}
}

// Run scans forever until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Printf("Starting liquidation scheduler, scan interval: %v", s.interval)

	for {
		if ctx.Err() != nil {
			s.logger.Println("Scheduler stopping...")
			return ctx.Err()
		}

		s.Cycle(ctx)

		select {
		case <-ctx.Done():
			s.logger.Println("Scheduler stopping...")
			return ctx.Err()
		case <-time.After(s.interval):
		}
	}
}

// Cycle runs one full ordered pass over the health index. Per-candidate
// failures are logged and never abort the pass.
func (s *Scheduler) Cycle(ctx context.Context) {
	snapshot := s.cache.Accounts.HealthSnapshot()
	sort.Slice(snapshot, func(i, j int) bool {
		return s.compare(snapshot[i], snapshot[j])
	})

	for _, entry := range snapshot {
		if ctx.Err() != nil {
			return
		}
		s.visit(ctx, entry.Address)
	}

	if s.metrics != nil {
		s.metrics.ScanCycles.Inc()
		s.metrics.CandidatesScanned.Add(float64(len(snapshot)))
	}
}

// visit runs the prepare/liquidate state machine for one candidate.
func (s *Scheduler) visit(ctx context.Context, address domain.Address) {
	account, err := s.cache.Accounts.Get(address)
	if err != nil {
		s.logger.Printf("Error loading position %s: %v", address, err)
		return
	}

	strategy := s.choose(&account)

	params, err := strategy.Prepare(ctx, &account)
	if err != nil {
		s.logger.Printf("Error preparing liquidation for %s: %v", address, err)
		return
	}
	if params == nil {
		return
	}

	if s.metrics != nil {
		s.metrics.LiquidationsPrepared.Inc()
	}
	s.logger.Printf("Liquidating %s (health=%d, strategy=%s)", address, params.HealthScore, strategy.ID())

	liqErr := strategy.Liquidate(ctx, params)
	if liqErr != nil {
		s.logger.Printf("Error liquidating %s: %v", address, liqErr)
	}

	if s.metrics != nil {
		if liqErr != nil {
			s.metrics.LiquidationsFailed.Inc()
		} else {
			s.metrics.LiquidationsSucceeded.Inc()
		}
	}

	s.record(ctx, strategy.ID(), params, liqErr)
}

// record appends the attempt to the history store.
func (s *Scheduler) record(ctx context.Context, strategyID string, params *Params, liqErr error) {
	if s.store == nil {
		return
	}

	rec := &domain.LiquidationRecord{
		Account:       params.Account.String(),
		AssetBank:     params.AssetBank.String(),
		LiabilityBank: params.LiabilityBank.String(),
		HealthScore:   params.HealthScore,
		Slot:          int64(params.Slot),
		Strategy:      strategyID,
		AttemptedAt:   time.Now().UnixMilli(),
	}
	if liqErr != nil {
		msg := liqErr.Error()
		rec.ErrorText = &msg
	}

	if err := s.store.Insert(ctx, rec); err != nil {
		s.logger.Printf("Error storing liquidation record for %s: %v", params.Account, err)
	}
}
