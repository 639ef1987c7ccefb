package marginfi

import (
	"fmt"

	"solana-liquidator/internal/domain"
)

// Bank account layout (offsets into the raw account data):
//
//	0    discriminator (8)
//	8    mint (32)
//	40   mint_decimals (u8)
//	41   padding (7)
//	48   group (32)
//	80   oracle_setup (u8)
//	81   padding (7)
//	88   oracle_keys (5 x 32)
const (
	bankMintOffset         = 8
	bankMintDecimalsOffset = 40
	bankGroupOffset        = 48
	bankOracleSetupOffset  = 80
	bankOracleKeysOffset   = 88
	bankMinLen             = bankOracleKeysOffset + domain.BankOracleKeys*domain.AddressLen
)

// DecodeBank decodes a bank record from raw account bytes. The slot stamp
// is supplied by the caller (point-in-time snapshot at bootstrap, event
// slot during streaming). Unset oracle key slots are filtered out.
func DecodeBank(slot uint64, address domain.Address, data []byte) (domain.Bank, error) {
	if Classify(data) != EntryBank {
		return domain.Bank{}, fmt.Errorf("account %s: not a bank record", address)
	}
	if len(data) < bankMinLen {
		return domain.Bank{}, fmt.Errorf("account %s: bank data too short: %d", address, len(data))
	}

	bank := domain.Bank{
		Slot:          slot,
		Address:       address,
		MintDecimals:  data[bankMintDecimalsOffset],
		OracleVariant: domain.OracleVariant(data[bankOracleSetupOffset]),
	}
	copy(bank.Mint[:], data[bankMintOffset:])
	copy(bank.Group[:], data[bankGroupOffset:])

	for i := 0; i < domain.BankOracleKeys; i++ {
		var key domain.Address
		copy(key[:], data[bankOracleKeysOffset+i*domain.AddressLen:])
		if !key.IsZero() {
			bank.OracleAddresses = append(bank.OracleAddresses, key)
		}
	}

	return bank, nil
}
