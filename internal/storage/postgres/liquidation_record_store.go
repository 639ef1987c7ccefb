package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-liquidator/internal/domain"
	"solana-liquidator/internal/storage"
)

// LiquidationRecordStore implements storage.LiquidationRecordStore using
// PostgreSQL.
type LiquidationRecordStore struct {
	pool *Pool
}

// NewLiquidationRecordStore creates a new LiquidationRecordStore.
func NewLiquidationRecordStore(pool *Pool) *LiquidationRecordStore {
	return &LiquidationRecordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.LiquidationRecordStore = (*LiquidationRecordStore)(nil)

// Insert appends a new attempt record and assigns its ID.
func (s *LiquidationRecordStore) Insert(ctx context.Context, r *domain.LiquidationRecord) error {
	if r == nil {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO liquidation_records (
			account, asset_bank, liability_bank, health_score, slot,
			strategy, tx_signature, error_text, attempted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`

	err := s.pool.QueryRow(ctx, query,
		r.Account,
		r.AssetBank,
		r.LiabilityBank,
		r.HealthScore,
		r.Slot,
		r.Strategy,
		r.TxSignature,
		r.ErrorText,
		r.AttemptedAt,
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert liquidation record: %w", err)
	}
	return nil
}

// GetByAccount retrieves all attempts against a margin account,
// ordered by attempted_at ASC.
func (s *LiquidationRecordStore) GetByAccount(ctx context.Context, account string) ([]*domain.LiquidationRecord, error) {
	query := `
		SELECT id, account, asset_bank, liability_bank, health_score, slot,
		       strategy, tx_signature, error_text, attempted_at, created_at
		FROM liquidation_records
		WHERE account = $1
		ORDER BY attempted_at ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, account)
	if err != nil {
		return nil, fmt.Errorf("get liquidation records by account: %w", err)
	}
	defer rows.Close()

	return scanLiquidationRecords(rows)
}

// GetByTimeRange retrieves attempts within [start, end) by attempted_at.
func (s *LiquidationRecordStore) GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.LiquidationRecord, error) {
	query := `
		SELECT id, account, asset_bank, liability_bank, health_score, slot,
		       strategy, tx_signature, error_text, attempted_at, created_at
		FROM liquidation_records
		WHERE attempted_at >= $1 AND attempted_at < $2
		ORDER BY attempted_at ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("get liquidation records by time range: %w", err)
	}
	defer rows.Close()

	return scanLiquidationRecords(rows)
}

// scanLiquidationRecords scans multiple rows into a slice of records.
func scanLiquidationRecords(rows pgx.Rows) ([]*domain.LiquidationRecord, error) {
	var records []*domain.LiquidationRecord

	for rows.Next() {
		var r domain.LiquidationRecord

		err := rows.Scan(
			&r.ID,
			&r.Account,
			&r.AssetBank,
			&r.LiabilityBank,
			&r.HealthScore,
			&r.Slot,
			&r.Strategy,
			&r.TxSignature,
			&r.ErrorText,
			&r.AttemptedAt,
			&r.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan liquidation record row: %w", err)
		}

		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate liquidation record rows: %w", err)
	}

	return records, nil
}
