// Package memory provides in-memory store implementations, used when no
// database is configured and in tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"solana-liquidator/internal/domain"
	"solana-liquidator/internal/storage"
)

// LiquidationRecordStore is an in-memory implementation of
// storage.LiquidationRecordStore.
type LiquidationRecordStore struct {
	mu     sync.RWMutex
	data   []*domain.LiquidationRecord
	nextID int64
}

// NewLiquidationRecordStore creates a new in-memory record store.
func NewLiquidationRecordStore() *LiquidationRecordStore {
	return &LiquidationRecordStore{nextID: 1}
}

// Compile-time interface check.
var _ storage.LiquidationRecordStore = (*LiquidationRecordStore)(nil)

// Insert appends a new attempt record and assigns its ID.
func (s *LiquidationRecordStore) Insert(_ context.Context, r *domain.LiquidationRecord) error {
	if r == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Store a copy
	stored := *r
	stored.ID = s.nextID
	if stored.CreatedAt == 0 {
		stored.CreatedAt = time.Now().UnixMilli()
	}
	s.nextID++
	s.data = append(s.data, &stored)

	r.ID = stored.ID
	return nil
}

// GetByAccount retrieves all attempts against a margin account,
// ordered by attempted_at ASC.
func (s *LiquidationRecordStore) GetByAccount(_ context.Context, account string) ([]*domain.LiquidationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.LiquidationRecord
	for _, r := range s.data {
		if r.Account == account {
			stored := *r
			result = append(result, &stored)
		}
	}

	sortRecords(result)
	return result, nil
}

// GetByTimeRange retrieves attempts within [start, end) by attempted_at.
func (s *LiquidationRecordStore) GetByTimeRange(_ context.Context, start, end int64) ([]*domain.LiquidationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.LiquidationRecord
	for _, r := range s.data {
		if r.AttemptedAt >= start && r.AttemptedAt < end {
			stored := *r
			result = append(result, &stored)
		}
	}

	sortRecords(result)
	return result, nil
}

// sortRecords sorts records by (attempted_at, id).
func sortRecords(records []*domain.LiquidationRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].AttemptedAt != records[j].AttemptedAt {
			return records[i].AttemptedAt < records[j].AttemptedAt
		}
		return records[i].ID < records[j].ID
	})
}
