// Package storage defines the persistence contracts for liquidation
// attempt history. All ledger state lives in the in-memory cache and is
// rebuilt at startup; only attempt outcomes are persisted.
package storage

import (
	"context"

	"solana-liquidator/internal/domain"
)

// LiquidationRecordStore provides access to liquidation_records storage.
type LiquidationRecordStore interface {
	// Insert appends a new attempt record and assigns its ID.
	Insert(ctx context.Context, r *domain.LiquidationRecord) error

	// GetByAccount retrieves all attempts against a margin account,
	// ordered by attempted_at ASC.
	GetByAccount(ctx context.Context, account string) ([]*domain.LiquidationRecord, error)

	// GetByTimeRange retrieves attempts within [start, end) by attempted_at.
	GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.LiquidationRecord, error)
}
