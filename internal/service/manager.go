// Package service wires the long-lived components into one process: the
// bootstrap load, the streaming subscriber and processor, the liquidation
// scheduler, and the periodic stats report.
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"solana-liquidator/internal/cache"
	"solana-liquidator/internal/config"
	"solana-liquidator/internal/domain"
	"solana-liquidator/internal/ingestion"
	"solana-liquidator/internal/liquidation"
	"solana-liquidator/internal/marginfi"
	"solana-liquidator/internal/observability"
	"solana-liquidator/internal/solana"
	"solana-liquidator/internal/storage"
)

// Manager owns component construction and lifecycle. Components are
// created in Run so the cache can be seeded with a freshly fetched clock.
type Manager struct {
	cfg      config.Config
	fetcher  solana.Fetcher
	ws       *solana.WSClient
	store    storage.LiquidationRecordStore
	executor liquidation.Executor
	metrics  *observability.Metrics
	logger   *log.Logger
}

// ManagerOptions contains configuration for creating a Manager.
type ManagerOptions struct {
	Config   config.Config
	Fetcher  solana.Fetcher
	WS       *solana.WSClient
	Store    storage.LiquidationRecordStore
	Executor liquidation.Executor
	Metrics  *observability.Metrics
	Logger   *log.Logger
}

// NewManager creates a service manager.
func NewManager(opts ManagerOptions) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{
		cfg:      opts.Config,
		fetcher:  opts.Fetcher,
		ws:       opts.WS,
		store:    opts.Store,
		executor: opts.Executor,
		metrics:  opts.Metrics,
		logger:   logger,
	}
}

// Run bootstraps the cache and drives the component loops until the
// context is cancelled or a loop fails.
func (m *Manager) Run(ctx context.Context) error {
	clock, err := m.fetchClock(ctx)
	if err != nil {
		return err
	}
	m.logger.Printf("Fetched clock at slot %d.", clock.Slot)

	c := cache.New(clock, m.logger)

	loader := cache.NewLoader(cache.LoaderOptions{
		ProgramID:    m.cfg.ProgramID,
		LUTAddresses: m.cfg.LUTAddresses,
		Fetcher:      m.fetcher,
		Cache:        c,
		Logger:       m.logger,
	})
	if err := loader.LoadCache(ctx); err != nil {
		return fmt.Errorf("bootstrap load: %w", err)
	}

	updates := make(chan *domain.AccountUpdate, m.cfg.UpdateQueueSize)

	subscriber := ingestion.NewSubscriber(ingestion.SubscriberOptions{
		WS:        m.ws,
		Cache:     c,
		ProgramID: m.cfg.ProgramID,
		Updates:   updates,
		Logger:    m.logger,
	})

	processor := ingestion.NewProcessor(ingestion.ProcessorOptions{
		Cache:   c,
		Updates: updates,
		Logger:  m.logger,
		Metrics: m.metrics,
	})

	basic := liquidation.NewBasicStrategy(liquidation.BasicStrategyOptions{
		Cache:        c,
		Executor:     m.executor,
		MinProfitUSD: m.cfg.MinProfitUSD,
		Logger:       m.logger,
	})
	scheduler := liquidation.NewScheduler(liquidation.SchedulerOptions{
		Cache:    c,
		Chooser:  liquidation.SingleStrategy(basic),
		Store:    m.store,
		Interval: m.cfg.ScanInterval,
		Logger:   m.logger,
		Metrics:  m.metrics,
	})

	errCh := make(chan error, 3)
	go func() {
		if err := subscriber.Run(ctx); err != nil && err != context.Canceled {
			errCh <- fmt.Errorf("subscriber: %w", err)
		}
	}()
	go func() {
		if err := processor.Run(ctx); err != nil && err != context.Canceled {
			errCh <- fmt.Errorf("processor: %w", err)
		}
	}()
	go func() {
		if err := scheduler.Run(ctx); err != nil && err != context.Canceled {
			errCh <- fmt.Errorf("scheduler: %w", err)
		}
	}()

	statsTicker := time.NewTicker(m.cfg.StatsInterval)
	defer statsTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errCh:
			return err
		case <-statsTicker.C:
			m.reportStats(c, processor)
		}
	}
}

// fetchClock retrieves and decodes the sysvar clock account.
func (m *Manager) fetchClock(ctx context.Context) (domain.Clock, error) {
	account, err := m.fetcher.GetAccount(ctx, marginfi.ClockSysvarAddress)
	if err != nil {
		return domain.Clock{}, fmt.Errorf("fetch clock: %w", err)
	}
	clock, err := marginfi.DecodeClock(account.Data)
	if err != nil {
		return domain.Clock{}, fmt.Errorf("decode clock: %w", err)
	}
	return clock, nil
}

func (m *Manager) reportStats(c *cache.Cache, processor *ingestion.Processor) {
	stats := c.Stats()
	depth := processor.QueueDepth()
	m.logger.Printf("Stats: slot=%d banks=%d accounts=%d mints=%d oracles=%d luts=%d queue=%d",
		stats.Slot, stats.Banks, stats.Accounts, stats.Mints, stats.Oracles, stats.LookupTables, depth)

	if m.metrics == nil {
		return
	}
	m.metrics.ClockSlot.Set(float64(stats.Slot))
	m.metrics.UpdateQueueDepth.Set(float64(depth))
	m.metrics.CacheEntries.WithLabelValues("bank").Set(float64(stats.Banks))
	m.metrics.CacheEntries.WithLabelValues("margin_account").Set(float64(stats.Accounts))
	m.metrics.CacheEntries.WithLabelValues("mint").Set(float64(stats.Mints))
	m.metrics.CacheEntries.WithLabelValues("oracle").Set(float64(stats.Oracles))
	m.metrics.CacheEntries.WithLabelValues("lookup_table").Set(float64(stats.LookupTables))
}
