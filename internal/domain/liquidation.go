package domain

// LiquidationRecord is one liquidation attempt outcome, persisted for
// operational review. Addresses are stored in base58 text form.
// Corresponds to the liquidation_records table.
type LiquidationRecord struct {
	ID            int64   // BIGSERIAL primary key
	Account       string  // liquidated margin account address
	AssetBank     string  // bank the collateral was seized from
	LiabilityBank string  // bank the liability was repaid to
	HealthScore   int64   // health score at scan time
	Slot          int64   // cached clock slot at attempt time
	Strategy      string  // strategy identifier
	TxSignature   *string // transaction signature (nullable, success only)
	ErrorText     *string // failure reason (nullable)
	AttemptedAt   int64   // Unix timestamp in milliseconds
	CreatedAt     int64   // record creation timestamp (ms)
}

// Succeeded reports whether the attempt executed without error.
func (r *LiquidationRecord) Succeeded() bool {
	return r.ErrorText == nil
}
