// Package ingestion feeds the entity cache: a one-shot bootstrap load
// over RPC and a continuous stream of account updates over WebSocket.
package ingestion

import (
	"context"
	"log"

	"solana-liquidator/internal/cache"
	"solana-liquidator/internal/domain"
	"solana-liquidator/internal/marginfi"
	"solana-liquidator/internal/observability"
	"solana-liquidator/internal/oracle"
)

// Processor drains the update queue and applies each update to the cache.
type Processor struct {
	cache   *cache.Cache
	updates <-chan *domain.AccountUpdate
	logger  *log.Logger
	metrics *observability.Metrics

	// queue keeps the original channel for depth reporting after
	// the receive loop parks on a closed stream
	queue <-chan *domain.AccountUpdate
}

// ProcessorOptions contains configuration for creating a Processor.
type ProcessorOptions struct {
	Cache   *cache.Cache
	Updates <-chan *domain.AccountUpdate
	Logger  *log.Logger
	Metrics *observability.Metrics
}

// NewProcessor creates a new update processor.
func NewProcessor(opts ProcessorOptions) *Processor {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Processor{
		cache:   opts.Cache,
		updates: opts.Updates,
		queue:   opts.Updates,
		logger:  logger,
		metrics: opts.Metrics,
	}
}

// Run drains the update queue until the context is cancelled.
// A closed queue is logged once; the processor then stays alive so a
// restarted producer does not race a half-shut-down consumer, and only
// context cancellation ends the loop.
func (p *Processor) Run(ctx context.Context) error {
	p.logger.Println("Starting update processor...")

	updates := p.updates
	for {
		select {
		case <-ctx.Done():
			p.logger.Println("Update processor stopping...")
			return ctx.Err()

		case update, ok := <-updates:
			if !ok {
				p.logger.Println("Update queue closed, waiting for shutdown")
				// A nil channel never becomes ready, so only ctx.Done fires
				updates = nil
				continue
			}
			p.apply(update)
			if p.metrics != nil {
				p.metrics.UpdateQueueDepth.Set(float64(len(p.queue)))
			}
		}
	}
}

// QueueDepth returns the number of buffered updates awaiting processing.
func (p *Processor) QueueDepth() int {
	return len(p.queue)
}

// apply dispatches one update to the cache. Decode failures are logged
// and skipped; a bad account must never stall the stream.
func (p *Processor) apply(update *domain.AccountUpdate) {
	var err error

	switch update.Kind {
	case domain.UpdateKindClock:
		err = p.applyClock(update)
	case domain.UpdateKindMarginAccount:
		err = p.applyMarginAccount(update)
	case domain.UpdateKindBank:
		err = p.applyBank(update)
	case domain.UpdateKindOracle:
		err = p.applyOracle(update)
	default:
		p.logger.Printf("Unknown update kind %d for %s", update.Kind, update.Address)
		return
	}

	if err != nil {
		p.logger.Printf("Error applying update %s: %v", update, err)
		if p.metrics != nil {
			p.metrics.UpdateErrors.WithLabelValues(update.Kind.String()).Inc()
		}
		return
	}

	if p.metrics != nil {
		p.metrics.UpdatesProcessed.WithLabelValues(update.Kind.String()).Inc()
	}
}

func (p *Processor) applyClock(update *domain.AccountUpdate) error {
	clock, err := marginfi.DecodeClock(update.Account.Data)
	if err != nil {
		return err
	}
	p.cache.UpdateClock(clock)
	if p.metrics != nil {
		p.metrics.ClockSlot.Set(float64(clock.Slot))
	}
	return nil
}

func (p *Processor) applyMarginAccount(update *domain.AccountUpdate) error {
	account, err := marginfi.DecodeMarginAccount(update.Slot, update.Address, update.Account.Data)
	if err != nil {
		return err
	}
	p.cache.Accounts.Upsert(account)
	return nil
}

func (p *Processor) applyBank(update *domain.AccountUpdate) error {
	bank, err := marginfi.DecodeBank(update.Slot, update.Address, update.Account.Data)
	if err != nil {
		return err
	}
	p.cache.Banks.Upsert(bank)
	return nil
}

func (p *Processor) applyOracle(update *domain.AccountUpdate) error {
	variant, ok := p.cache.Oracles.Variant(update.Address)
	if !ok {
		// Not referenced by any cached bank; nothing to price
		return nil
	}

	price, err := oracle.DecodePrice(variant, update.Account.Data)
	if err != nil {
		return err
	}

	p.cache.Oracles.Upsert(domain.Oracle{
		Address:   update.Address,
		Variant:   variant,
		PriceSlot: update.Slot,
		Price:     price,
	})
	return nil
}
