package cache

import (
	"context"
	"fmt"
	"log"

	"solana-liquidator/internal/domain"
	"solana-liquidator/internal/marginfi"
	"solana-liquidator/internal/oracle"
	"solana-liquidator/internal/solana"
)

// Loader performs the one-shot bootstrap population of the cache: program
// accounts, then the mints and oracles they reference, then the configured
// lookup tables. It runs on the startup path before the scheduler's first
// cycle; concurrently arriving streamed updates are safe because upserts
// are commutative under the slot rule.
type Loader struct {
	programID    domain.Address
	lutAddresses []domain.Address
	fetcher      solana.Fetcher
	cache        *Cache
	logger       *log.Logger
}

// LoaderOptions contains configuration for creating a Loader.
type LoaderOptions struct {
	ProgramID    domain.Address
	LUTAddresses []domain.Address
	Fetcher      solana.Fetcher
	Cache        *Cache
	Logger       *log.Logger
}

// NewLoader creates a bootstrap loader.
func NewLoader(opts LoaderOptions) *Loader {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{
		programID:    opts.ProgramID,
		lutAddresses: opts.LUTAddresses,
		fetcher:      opts.Fetcher,
		cache:        opts.Cache,
		logger:       logger,
	}
}

// LoadCache runs the four bootstrap phases in order. Hard fetch failures
// in the account and mint phases abort the load; per-item failures in the
// oracle and lookup-table phases are logged and skipped.
func (l *Loader) LoadCache(ctx context.Context) error {
	if err := l.LoadAccounts(ctx); err != nil {
		return err
	}
	if err := l.LoadMints(ctx); err != nil {
		return err
	}
	l.LoadOracles(ctx)
	return l.LoadLUTs(ctx)
}

// LoadAccounts fetches every account owned by the tracked program,
// classifies it, and inserts decoded banks and margin accounts. The whole
// batch is stamped with the current cached clock slot: it is a
// point-in-time snapshot, not a per-account observation.
func (l *Loader) LoadAccounts(ctx context.Context) error {
	l.logger.Printf("Loading accounts for program %s...", l.programID)

	slot := l.cache.Clock().Slot

	accounts, err := l.fetcher.GetProgramAccounts(ctx, l.programID)
	if err != nil {
		return fmt.Errorf("load accounts: %w", err)
	}

	var accountCount, bankCount int
	for _, keyed := range accounts {
		switch marginfi.Classify(keyed.Account.Data) {
		case marginfi.EntryMarginAccount:
			acc, err := marginfi.DecodeMarginAccount(slot, keyed.Address, keyed.Account.Data)
			if err != nil {
				l.logger.Printf("Skipping margin account %s: %v", keyed.Address, err)
				continue
			}
			l.cache.Accounts.Upsert(acc)
			accountCount++
		case marginfi.EntryBank:
			bank, err := marginfi.DecodeBank(slot, keyed.Address, keyed.Account.Data)
			if err != nil {
				l.logger.Printf("Skipping bank %s: %v", keyed.Address, err)
				continue
			}
			l.cache.Banks.Upsert(bank)
			bankCount++
		}
	}

	l.logger.Printf("Loaded %d margin accounts and %d banks at slot %d.", accountCount, bankCount, slot)
	return nil
}

// LoadMints batch-fetches the mints referenced by all cached banks.
func (l *Loader) LoadMints(ctx context.Context) error {
	l.logger.Println("Loading mints...")

	addresses := l.cache.Banks.MintAddresses()
	fetched, err := l.fetcher.GetAccounts(ctx, addresses)
	if err != nil {
		return fmt.Errorf("load mints: %w", err)
	}

	for _, keyed := range fetched {
		l.cache.Mints.Upsert(keyed.Address, keyed.Account.Owner)
	}

	l.logger.Printf("Loaded %d mints.", len(fetched))
	return nil
}

// LoadOracles batch-fetches the oracle accounts declared by all cached
// banks and attempts a price decode for each. A failed fetch or decode
// skips that single oracle; the identity is still inserted on decode
// failure so streamed refreshes can find it later.
func (l *Loader) LoadOracles(ctx context.Context) {
	l.logger.Println("Loading oracles...")

	variants := make(map[domain.Address]domain.OracleVariant)
	var addresses []domain.Address
	for _, set := range l.cache.Banks.OracleSets() {
		for _, address := range set.Addresses {
			if _, ok := variants[address]; !ok {
				addresses = append(addresses, address)
			}
			variants[address] = set.Variant
		}
	}

	slot := l.cache.Clock().Slot

	fetched, err := l.fetcher.GetAccounts(ctx, addresses)
	if err != nil {
		l.logger.Printf("Oracle fetch failed, prices will arrive via streaming: %v", err)
		fetched = nil
	}

	var priced int
	seen := make(map[domain.Address]struct{}, len(fetched))
	for _, keyed := range fetched {
		seen[keyed.Address] = struct{}{}
		entry := domain.Oracle{
			Address:   keyed.Address,
			Variant:   variants[keyed.Address],
			PriceSlot: slot,
		}
		price, err := oracle.DecodePrice(entry.Variant, keyed.Account.Data)
		if err != nil {
			l.logger.Printf("Oracle %s price decode failed, caching identity only: %v", keyed.Address, err)
		} else {
			entry.Price = price
			priced++
		}
		l.cache.Oracles.Upsert(entry)
	}

	// Unfetched oracles still get an identity entry so the processor can
	// resolve their variant when a streamed update arrives.
	for _, address := range addresses {
		if _, ok := seen[address]; ok {
			continue
		}
		l.cache.Oracles.Upsert(domain.Oracle{
			Address: address,
			Variant: variants[address],
		})
	}

	l.logger.Printf("Loaded %d oracles (%d with prices).", len(addresses), priced)
}

// LoadLUTs batch-fetches the configured lookup tables and replaces the
// cached list wholesale. An empty configuration is a no-op.
func (l *Loader) LoadLUTs(ctx context.Context) error {
	if len(l.lutAddresses) == 0 {
		return nil
	}
	l.logger.Printf("Loading %d lookup tables...", len(l.lutAddresses))

	fetched, err := l.fetcher.GetAccounts(ctx, l.lutAddresses)
	if err != nil {
		return fmt.Errorf("load lookup tables: %w", err)
	}

	luts := make([]domain.LookupTable, 0, len(fetched))
	for _, keyed := range fetched {
		lut, err := marginfi.DecodeLookupTable(keyed.Address, keyed.Account.Data)
		if err != nil {
			l.logger.Printf("Skipping lookup table %s: %v", keyed.Address, err)
			continue
		}
		luts = append(luts, lut)
	}
	l.cache.LookupTables.ReplaceAll(luts)

	l.logger.Printf("Loaded %d lookup tables.", len(luts))
	return nil
}
