package ingestion

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-liquidator/internal/cache"
	"solana-liquidator/internal/domain"
	"solana-liquidator/internal/marginfi"
	"solana-liquidator/internal/oracle"
)

func testAddr(b byte) domain.Address {
	var a domain.Address
	a[0] = b
	return a
}

func newTestCache() *cache.Cache {
	return cache.New(domain.Clock{Slot: 100}, nil)
}

func startProcessor(t *testing.T, c *cache.Cache, updates chan *domain.AccountUpdate) (cancel func(), done chan error) {
	t.Helper()

	ctx, cancelCtx := context.WithCancel(context.Background())
	p := NewProcessor(ProcessorOptions{Cache: c, Updates: updates})

	done = make(chan error, 1)
	go func() {
		done <- p.Run(ctx)
	}()

	return cancelCtx, done
}

func waitDone(t *testing.T, done chan error) error {
	t.Helper()

	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("processor did not stop")
		return nil
	}
}

func TestProcessorAppliesBankUpdate(t *testing.T) {
	c := newTestCache()
	updates := make(chan *domain.AccountUpdate, 16)

	bank := domain.Bank{
		Address:         testAddr(1),
		Mint:            testAddr(2),
		MintDecimals:    6,
		Group:           testAddr(3),
		OracleVariant:   domain.OracleVariantPythPull,
		OracleAddresses: []domain.Address{testAddr(4)},
	}
	updates <- &domain.AccountUpdate{
		Kind:    domain.UpdateKindBank,
		Slot:    200,
		Address: bank.Address,
		Account: domain.Account{Data: marginfi.EncodeBank(bank)},
	}

	cancel, done := startProcessor(t, c, updates)
	defer cancel()

	require.Eventually(t, func() bool {
		return c.Banks.Len() == 1
	}, 2*time.Second, 10*time.Millisecond)

	got, err := c.Banks.Get(bank.Address)
	require.NoError(t, err)
	assert.Equal(t, uint64(200), got.Slot)
	assert.Equal(t, bank.Mint, got.Mint)
	assert.Equal(t, domain.OracleVariantPythPull, got.OracleVariant)

	cancel()
	assert.ErrorIs(t, waitDone(t, done), context.Canceled)
}

func TestProcessorAppliesMarginAccountUpdate(t *testing.T) {
	c := newTestCache()
	updates := make(chan *domain.AccountUpdate, 16)

	acc := domain.MarginAccount{
		Address:             testAddr(10),
		Group:               testAddr(3),
		Authority:           testAddr(11),
		AssetValueMaint:     domain.I80F48FromInt(200),
		LiabilityValueMaint: domain.I80F48FromInt(150),
	}
	updates <- &domain.AccountUpdate{
		Kind:    domain.UpdateKindMarginAccount,
		Slot:    300,
		Address: acc.Address,
		Account: domain.Account{Data: marginfi.EncodeMarginAccount(acc)},
	}

	cancel, done := startProcessor(t, c, updates)
	defer cancel()

	require.Eventually(t, func() bool {
		return c.Accounts.Len() == 1
	}, 2*time.Second, 10*time.Millisecond)

	health, err := c.Accounts.Health(acc.Address)
	require.NoError(t, err)
	assert.Equal(t, int64(25), health)

	cancel()
	waitDone(t, done)
}

func TestProcessorAppliesClockUpdate(t *testing.T) {
	c := newTestCache()
	updates := make(chan *domain.AccountUpdate, 16)

	clock := domain.Clock{Slot: 500, Epoch: 2, UnixTimestamp: 1700000000}
	updates <- &domain.AccountUpdate{
		Kind:    domain.UpdateKindClock,
		Slot:    500,
		Address: marginfi.ClockSysvarAddress,
		Account: domain.Account{Data: marginfi.EncodeClock(clock)},
	}

	cancel, done := startProcessor(t, c, updates)
	defer cancel()

	require.Eventually(t, func() bool {
		return c.Clock().Slot == 500
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int64(1700000000), c.Clock().UnixTimestamp)

	cancel()
	waitDone(t, done)
}

func TestProcessorAppliesOracleUpdate(t *testing.T) {
	c := newTestCache()
	oracleAddr := testAddr(4)
	c.Oracles.Upsert(domain.Oracle{
		Address: oracleAddr,
		Variant: domain.OracleVariantPythPull,
	})

	updates := make(chan *domain.AccountUpdate, 16)
	updates <- &domain.AccountUpdate{
		Kind:    domain.UpdateKindOracle,
		Slot:    250,
		Address: oracleAddr,
		Account: domain.Account{Data: oracle.EncodePythPull(123456)},
	}

	cancel, done := startProcessor(t, c, updates)
	defer cancel()

	require.Eventually(t, func() bool {
		o, err := c.Oracles.Get(oracleAddr)
		return err == nil && o.HasPrice()
	}, 2*time.Second, 10*time.Millisecond)

	got, err := c.Oracles.Get(oracleAddr)
	require.NoError(t, err)
	assert.Equal(t, uint64(250), got.PriceSlot)
	assert.Equal(t, int64(123456), got.Price.Int64())

	cancel()
	waitDone(t, done)
}

func TestProcessorSkipsOracleWithoutVariant(t *testing.T) {
	c := newTestCache()
	updates := make(chan *domain.AccountUpdate, 16)

	// Not referenced by any bank: the processor has no layout to decode with
	updates <- &domain.AccountUpdate{
		Kind:    domain.UpdateKindOracle,
		Slot:    250,
		Address: testAddr(99),
		Account: domain.Account{Data: oracle.EncodePythPull(1)},
	}
	// A follow-up update proves the loop survived
	bank := domain.Bank{Address: testAddr(1), Mint: testAddr(2)}
	updates <- &domain.AccountUpdate{
		Kind:    domain.UpdateKindBank,
		Slot:    200,
		Address: bank.Address,
		Account: domain.Account{Data: marginfi.EncodeBank(bank)},
	}

	cancel, done := startProcessor(t, c, updates)
	defer cancel()

	require.Eventually(t, func() bool {
		return c.Banks.Len() == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, c.Oracles.Len())

	cancel()
	waitDone(t, done)
}

func TestProcessorSurvivesMalformedData(t *testing.T) {
	c := newTestCache()
	updates := make(chan *domain.AccountUpdate, 16)

	updates <- &domain.AccountUpdate{
		Kind:    domain.UpdateKindBank,
		Slot:    200,
		Address: testAddr(1),
		Account: domain.Account{Data: []byte{1, 2, 3}},
	}
	bank := domain.Bank{Address: testAddr(5), Mint: testAddr(2)}
	updates <- &domain.AccountUpdate{
		Kind:    domain.UpdateKindBank,
		Slot:    201,
		Address: bank.Address,
		Account: domain.Account{Data: marginfi.EncodeBank(bank)},
	}

	cancel, done := startProcessor(t, c, updates)
	defer cancel()

	require.Eventually(t, func() bool {
		return c.Banks.Len() == 1
	}, 2*time.Second, 10*time.Millisecond)

	_, err := c.Banks.Get(bank.Address)
	assert.NoError(t, err)

	cancel()
	waitDone(t, done)
}

func TestProcessorParksOnClosedQueue(t *testing.T) {
	c := newTestCache()
	updates := make(chan *domain.AccountUpdate, 16)

	bank := domain.Bank{Address: testAddr(1), Mint: testAddr(2)}
	updates <- &domain.AccountUpdate{
		Kind:    domain.UpdateKindBank,
		Slot:    200,
		Address: bank.Address,
		Account: domain.Account{Data: marginfi.EncodeBank(bank)},
	}
	close(updates)

	cancel, done := startProcessor(t, c, updates)
	defer cancel()

	require.Eventually(t, func() bool {
		return c.Banks.Len() == 1
	}, 2*time.Second, 10*time.Millisecond)

	// A closed queue must not terminate the processor
	select {
	case err := <-done:
		t.Fatalf("processor exited after queue close: %v", err)
	case <-time.After(100 * time.Millisecond):
	}

	cancel()
	assert.ErrorIs(t, waitDone(t, done), context.Canceled)
}

func TestProcessorQueueDepth(t *testing.T) {
	updates := make(chan *domain.AccountUpdate, 16)
	p := NewProcessor(ProcessorOptions{Cache: newTestCache(), Updates: updates})

	assert.Equal(t, 0, p.QueueDepth())

	updates <- &domain.AccountUpdate{Kind: domain.UpdateKindBank}
	updates <- &domain.AccountUpdate{Kind: domain.UpdateKindBank}
	assert.Equal(t, 2, p.QueueDepth())
}
