package marginfi

import "solana-liquidator/internal/domain"

// Fixture encoders producing wire-form account data for the decoders in
// this package. Used by tests across the repo to build realistic accounts
// without canned binary blobs.

// EncodeBank serializes a bank record to raw account bytes.
func EncodeBank(bank domain.Bank) []byte {
	data := make([]byte, bankMinLen)
	copy(data, BankDiscriminator)
	copy(data[bankMintOffset:], bank.Mint[:])
	data[bankMintDecimalsOffset] = bank.MintDecimals
	copy(data[bankGroupOffset:], bank.Group[:])
	data[bankOracleSetupOffset] = byte(bank.OracleVariant)
	for i, key := range bank.OracleAddresses {
		if i >= domain.BankOracleKeys {
			break
		}
		copy(data[bankOracleKeysOffset+i*domain.AddressLen:], key[:])
	}
	return data
}

// EncodeMarginAccount serializes a margin account record to raw account
// bytes. Every balance in acc.Balances is marked active.
func EncodeMarginAccount(acc domain.MarginAccount) []byte {
	data := make([]byte, accountMinLen)
	copy(data, MarginAccountDiscriminator)
	copy(data[accountGroupOffset:], acc.Group[:])
	copy(data[accountAuthorityOffset:], acc.Authority[:])

	for i, bal := range acc.Balances {
		if i >= balanceCount {
			break
		}
		base := accountBalancesOffset + i*balanceSize
		data[base] = 1
		copy(data[base+balanceBankOffset:], bal.Bank[:])
		copy(data[base+balanceAssetOffset:], bal.AssetShares.AppendLE(nil))
		copy(data[base+balanceLiabilityOffset:], bal.LiabilityShares.AppendLE(nil))
	}

	copy(data[accountHealthOffset:], acc.AssetValueMaint.AppendLE(nil))
	copy(data[accountHealthOffset+domain.I80F48Len:], acc.LiabilityValueMaint.AppendLE(nil))
	return data
}

// EncodeLookupTable serializes a lookup table account.
func EncodeLookupTable(lut domain.LookupTable) []byte {
	data := make([]byte, lutMetadataLen, lutMetadataLen+len(lut.Addresses)*domain.AddressLen)
	for _, member := range lut.Addresses {
		data = append(data, member[:]...)
	}
	return data
}
