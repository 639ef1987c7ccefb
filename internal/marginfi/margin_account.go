package marginfi

import (
	"fmt"

	"solana-liquidator/internal/domain"
)

// Margin account layout:
//
//	0     discriminator (8)
//	8     group (32)
//	40    authority (32)
//	72    balances (16 x 72)
//	1224  asset_value_maint (i80f48, 16)
//	1240  liability_value_maint (i80f48, 16)
//
// Balance layout (72 bytes):
//
//	0   active (u8)
//	1   padding (7)
//	8   bank (32)
//	40  asset_shares (i80f48, 16)
//	56  liability_shares (i80f48, 16)
const (
	accountGroupOffset     = 8
	accountAuthorityOffset = 40
	accountBalancesOffset  = 72
	balanceCount           = 16
	balanceSize            = 72

	balanceBankOffset      = 8
	balanceAssetOffset     = 40
	balanceLiabilityOffset = 56

	accountHealthOffset = accountBalancesOffset + balanceCount*balanceSize
	accountMinLen       = accountHealthOffset + 2*domain.I80F48Len
)

// DecodeMarginAccount decodes a margin account record from raw account
// bytes, keeping active balances only.
func DecodeMarginAccount(slot uint64, address domain.Address, data []byte) (domain.MarginAccount, error) {
	if Classify(data) != EntryMarginAccount {
		return domain.MarginAccount{}, fmt.Errorf("account %s: not a margin account record", address)
	}
	if len(data) < accountMinLen {
		return domain.MarginAccount{}, fmt.Errorf("account %s: margin account data too short: %d", address, len(data))
	}

	acc := domain.MarginAccount{
		Slot:    slot,
		Address: address,
	}
	copy(acc.Group[:], data[accountGroupOffset:])
	copy(acc.Authority[:], data[accountAuthorityOffset:])

	for i := 0; i < balanceCount; i++ {
		base := accountBalancesOffset + i*balanceSize
		if data[base] == 0 {
			continue
		}
		var bal domain.Balance
		copy(bal.Bank[:], data[base+balanceBankOffset:])

		var err error
		bal.AssetShares, err = domain.I80F48FromLE(data[base+balanceAssetOffset : base+balanceAssetOffset+domain.I80F48Len])
		if err != nil {
			return domain.MarginAccount{}, fmt.Errorf("account %s: balance %d asset shares: %w", address, i, err)
		}
		bal.LiabilityShares, err = domain.I80F48FromLE(data[base+balanceLiabilityOffset : base+balanceLiabilityOffset+domain.I80F48Len])
		if err != nil {
			return domain.MarginAccount{}, fmt.Errorf("account %s: balance %d liability shares: %w", address, i, err)
		}
		acc.Balances = append(acc.Balances, bal)
	}

	var err error
	acc.AssetValueMaint, err = domain.I80F48FromLE(data[accountHealthOffset : accountHealthOffset+domain.I80F48Len])
	if err != nil {
		return domain.MarginAccount{}, fmt.Errorf("account %s: asset value: %w", address, err)
	}
	acc.LiabilityValueMaint, err = domain.I80F48FromLE(data[accountHealthOffset+domain.I80F48Len : accountMinLen])
	if err != nil {
		return domain.MarginAccount{}, fmt.Errorf("account %s: liability value: %w", address, err)
	}

	return acc, nil
}
