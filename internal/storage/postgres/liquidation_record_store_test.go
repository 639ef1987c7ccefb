package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-liquidator/internal/domain"
	"solana-liquidator/internal/storage"
	"solana-liquidator/internal/storage/postgres"
)

func testRecord(account string, attemptedAt int64) *domain.LiquidationRecord {
	return &domain.LiquidationRecord{
		Account:       account,
		AssetBank:     "4Bq1cDguyF2V49KKDBi4U2eYqpcFjCSMBu2vYSdJSwVA",
		LiabilityBank: "8BnEgHoWFysVcuFFX7QztDmzuH8r5ZFvyP3sYwn1XTh6",
		HealthScore:   -12,
		Slot:          250000000,
		Strategy:      "basic",
		AttemptedAt:   attemptedAt,
	}
}

func TestLiquidationRecordStoreInsert(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewLiquidationRecordStore(pool)
	ctx := context.Background()

	rec := testRecord("1thX6LZfHDZZKUs92febYZhYRcXddmzfzF2NvTkPNE", 1000)
	rec.ErrorText = ptr("simulate failed")

	require.NoError(t, store.Insert(ctx, rec))
	assert.NotZero(t, rec.ID)
	assert.NotZero(t, rec.CreatedAt)
	assert.False(t, rec.Succeeded())

	err := store.Insert(ctx, nil)
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}

func TestLiquidationRecordStoreGetByAccount(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewLiquidationRecordStore(pool)
	ctx := context.Background()

	account := "1thX6LZfHDZZKUs92febYZhYRcXddmzfzF2NvTkPNE"
	second := testRecord(account, 2000)
	second.TxSignature = ptr("5wHu1qwD4kV3vA1KQkQ2P9qkXgLTkfYbGAScehmtbQwF")
	require.NoError(t, store.Insert(ctx, testRecord(account, 1000)))
	require.NoError(t, store.Insert(ctx, second))
	require.NoError(t, store.Insert(ctx, testRecord("other", 1500)))

	records, err := store.GetByAccount(ctx, account)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(1000), records[0].AttemptedAt)
	assert.Equal(t, int64(2000), records[1].AttemptedAt)
	assert.True(t, records[1].Succeeded())
	require.NotNil(t, records[1].TxSignature)
	assert.Equal(t, *second.TxSignature, *records[1].TxSignature)

	records, err = store.GetByAccount(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestLiquidationRecordStoreGetByTimeRange(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewLiquidationRecordStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testRecord("a", 1000)))
	require.NoError(t, store.Insert(ctx, testRecord("b", 2000)))
	require.NoError(t, store.Insert(ctx, testRecord("c", 3000)))

	// End is exclusive
	records, err := store.GetByTimeRange(ctx, 1000, 3000)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].Account)
	assert.Equal(t, "b", records[1].Account)
}
