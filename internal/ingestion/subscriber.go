package ingestion

import (
	"context"
	"log"

	"solana-liquidator/internal/cache"
	"solana-liquidator/internal/domain"
	"solana-liquidator/internal/marginfi"
	"solana-liquidator/internal/solana"
)

// Subscriber bridges WebSocket account notifications into the update queue.
// It opens a program subscription for margin accounts and banks, plus
// account subscriptions for the clock sysvar and every cached oracle.
type Subscriber struct {
	ws        *solana.WSClient
	cache     *cache.Cache
	programID domain.Address
	updates   chan<- *domain.AccountUpdate
	logger    *log.Logger
}

// SubscriberOptions contains configuration for creating a Subscriber.
type SubscriberOptions struct {
	WS        *solana.WSClient
	Cache     *cache.Cache
	ProgramID domain.Address
	Updates   chan<- *domain.AccountUpdate
	Logger    *log.Logger
}

// NewSubscriber creates a new WebSocket subscriber.
func NewSubscriber(opts SubscriberOptions) *Subscriber {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Subscriber{
		ws:        opts.WS,
		cache:     opts.Cache,
		programID: opts.ProgramID,
		updates:   opts.Updates,
		logger:    logger,
	}
}

// Run opens all subscriptions and forwards notifications until the
// context is cancelled.
func (s *Subscriber) Run(ctx context.Context) error {
	programCh, err := s.ws.SubscribeProgram(ctx, s.programID)
	if err != nil {
		return err
	}
	s.logger.Printf("Subscribed to program: %s", s.programID)

	clockCh, err := s.ws.SubscribeAccount(ctx, marginfi.ClockSysvarAddress)
	if err != nil {
		return err
	}
	s.logger.Println("Subscribed to clock sysvar")

	// Oracle set is fixed after bootstrap; banks added later keep serving
	// bootstrap prices until restart
	oracleAddrs := s.cache.Oracles.Addresses()
	merged := make(chan solana.AccountNotification, 1000)
	for _, addr := range oracleAddrs {
		ch, err := s.ws.SubscribeAccount(ctx, addr)
		if err != nil {
			return err
		}
		go forward(ctx, addr, ch, merged)
	}
	s.logger.Printf("Subscribed to %d oracle accounts", len(oracleAddrs))

	for {
		select {
		case <-ctx.Done():
			s.logger.Println("Subscriber stopping...")
			return ctx.Err()

		case notif, ok := <-programCh:
			if !ok {
				s.logger.Println("Program subscription closed")
				programCh = nil
				continue
			}
			s.enqueueProgramAccount(ctx, notif)

		case notif, ok := <-clockCh:
			if !ok {
				s.logger.Println("Clock subscription closed")
				clockCh = nil
				continue
			}
			notif.Address = marginfi.ClockSysvarAddress
			s.enqueue(ctx, &domain.AccountUpdate{
				Kind:    domain.UpdateKindClock,
				Slot:    notif.Slot,
				Address: notif.Address,
				Account: notif.Account,
			})

		case notif, ok := <-merged:
			if !ok {
				merged = nil
				continue
			}
			s.enqueue(ctx, &domain.AccountUpdate{
				Kind:    domain.UpdateKindOracle,
				Slot:    notif.Slot,
				Address: notif.Address,
				Account: notif.Account,
			})
		}
	}
}

// forward stamps single-account notifications with their address and
// funnels them into the merged channel.
func forward(ctx context.Context, addr domain.Address, ch <-chan solana.AccountNotification, merged chan<- solana.AccountNotification) {
	for notif := range ch {
		notif.Address = addr
		select {
		case merged <- notif:
		case <-ctx.Done():
			return
		}
	}
}

// enqueueProgramAccount classifies a program-owned account by its
// discriminator and enqueues it. Unrecognized accounts are dropped.
func (s *Subscriber) enqueueProgramAccount(ctx context.Context, notif solana.AccountNotification) {
	var kind domain.UpdateKind
	switch marginfi.Classify(notif.Account.Data) {
	case marginfi.EntryMarginAccount:
		kind = domain.UpdateKindMarginAccount
	case marginfi.EntryBank:
		kind = domain.UpdateKindBank
	default:
		return
	}

	s.enqueue(ctx, &domain.AccountUpdate{
		Kind:    kind,
		Slot:    notif.Slot,
		Address: notif.Address,
		Account: notif.Account,
	})
}

// enqueue blocks until the update is accepted or the context ends.
func (s *Subscriber) enqueue(ctx context.Context, update *domain.AccountUpdate) {
	select {
	case s.updates <- update:
	case <-ctx.Done():
	}
}
