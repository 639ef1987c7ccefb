package domain

import (
	"math"
	"math/big"
)

// Balance is one active lending position inside a margin account.
type Balance struct {
	Bank            Address
	AssetShares     I80F48
	LiabilityShares I80F48
}

// MarginAccount is a decoded user account record holding balances against
// one or more banks. Balances is filtered to active entries only.
type MarginAccount struct {
	Slot                uint64
	Address             Address
	Group               Address
	Authority           Address
	Balances            []Balance
	AssetValueMaint     I80F48
	LiabilityValueMaint I80F48
}

// HealthUnavailable is the sentinel health score stored when the score
// cannot be derived (maintenance asset value is zero). It sorts as the
// most urgent candidate under the default scan order.
const HealthUnavailable = int64(math.MinInt64)

// healthScale expresses health as an integer percentage.
const healthScale = 100

// HealthScore derives the integer health score of the account:
// (assetMaint - liabilityMaint) * 100 / assetMaint, truncated. The second
// return value is false when the score is undefined; callers store
// HealthUnavailable in that case.
func (a *MarginAccount) HealthScore() (int64, bool) {
	asset := a.AssetValueMaint.Raw()
	if asset.Sign() == 0 {
		return HealthUnavailable, false
	}
	diff := asset.Sub(asset, a.LiabilityValueMaint.Raw())
	diff.Mul(diff, bigHealthScale)
	diff.Quo(diff, a.AssetValueMaint.Raw())
	if !diff.IsInt64() {
		return HealthUnavailable, false
	}
	return diff.Int64(), true
}

var bigHealthScale = big.NewInt(healthScale)

// HealthEntry is one row of the health index: an account address and its
// last derived health score (or HealthUnavailable).
type HealthEntry struct {
	Address Address
	Health  int64
}
