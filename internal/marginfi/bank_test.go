package marginfi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-liquidator/internal/domain"
)

func testAddr(b byte) domain.Address {
	var a domain.Address
	a[0] = b
	return a
}

func TestDecodeBank(t *testing.T) {
	want := domain.Bank{
		Slot:          100,
		Address:       testAddr(1),
		Mint:          testAddr(2),
		MintDecimals:  9,
		Group:         testAddr(3),
		OracleVariant: domain.OracleVariantSwitchboardPull,
		OracleAddresses: []domain.Address{
			testAddr(4),
			testAddr(5),
		},
	}

	got, err := DecodeBank(100, want.Address, EncodeBank(want))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDecodeBankFiltersUnsetOracleKeys(t *testing.T) {
	bank := domain.Bank{
		Address:       testAddr(1),
		Mint:          testAddr(2),
		OracleVariant: domain.OracleVariantPythPull,
		// One real key, rest of the slots stay zero
		OracleAddresses: []domain.Address{testAddr(9)},
	}

	got, err := DecodeBank(1, bank.Address, EncodeBank(bank))
	require.NoError(t, err)
	require.Len(t, got.OracleAddresses, 1)
	assert.Equal(t, testAddr(9), got.OracleAddresses[0])
}

func TestDecodeBankRejectsWrongRecord(t *testing.T) {
	acc := domain.MarginAccount{Address: testAddr(1)}
	_, err := DecodeBank(1, testAddr(1), EncodeMarginAccount(acc))
	assert.Error(t, err)

	_, err = DecodeBank(1, testAddr(1), []byte{1, 2, 3})
	assert.Error(t, err)

	// Valid discriminator but truncated body
	short := append(append([]byte{}, BankDiscriminator...), make([]byte, 10)...)
	_, err = DecodeBank(1, testAddr(1), short)
	assert.Error(t, err)
}
