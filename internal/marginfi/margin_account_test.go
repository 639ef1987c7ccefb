package marginfi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-liquidator/internal/domain"
)

func TestDecodeMarginAccount(t *testing.T) {
	want := domain.MarginAccount{
		Slot:      200,
		Address:   testAddr(1),
		Group:     testAddr(2),
		Authority: testAddr(3),
		Balances: []domain.Balance{
			{
				Bank:            testAddr(4),
				AssetShares:     domain.I80F48FromInt(1000),
				LiabilityShares: domain.I80F48Zero(),
			},
			{
				Bank:            testAddr(5),
				AssetShares:     domain.I80F48Zero(),
				LiabilityShares: domain.I80F48FromInt(700),
			},
		},
		AssetValueMaint:     domain.I80F48FromInt(1500),
		LiabilityValueMaint: domain.I80F48FromInt(900),
	}

	got, err := DecodeMarginAccount(200, want.Address, EncodeMarginAccount(want))
	require.NoError(t, err)

	assert.Equal(t, want.Slot, got.Slot)
	assert.Equal(t, want.Group, got.Group)
	assert.Equal(t, want.Authority, got.Authority)
	require.Len(t, got.Balances, 2)
	for i := range want.Balances {
		assert.Equal(t, want.Balances[i].Bank, got.Balances[i].Bank)
		assert.Zero(t, want.Balances[i].AssetShares.Cmp(got.Balances[i].AssetShares))
		assert.Zero(t, want.Balances[i].LiabilityShares.Cmp(got.Balances[i].LiabilityShares))
	}
	assert.Zero(t, want.AssetValueMaint.Cmp(got.AssetValueMaint))
	assert.Zero(t, want.LiabilityValueMaint.Cmp(got.LiabilityValueMaint))

	health, ok := got.HealthScore()
	assert.True(t, ok)
	assert.Equal(t, int64(40), health)
}

func TestDecodeMarginAccountSkipsInactiveBalances(t *testing.T) {
	acc := domain.MarginAccount{Address: testAddr(1)}
	data := EncodeMarginAccount(acc)

	got, err := DecodeMarginAccount(1, acc.Address, data)
	require.NoError(t, err)
	assert.Empty(t, got.Balances)
}

func TestDecodeMarginAccountRejectsWrongRecord(t *testing.T) {
	bank := domain.Bank{Address: testAddr(1)}
	_, err := DecodeMarginAccount(1, testAddr(1), EncodeBank(bank))
	assert.Error(t, err)

	// Valid discriminator but truncated body
	short := append(append([]byte{}, MarginAccountDiscriminator...), make([]byte, 100)...)
	_, err = DecodeMarginAccount(1, testAddr(1), short)
	assert.Error(t, err)
}

func TestDecodeClockRoundTrip(t *testing.T) {
	want := domain.Clock{
		Slot:                250000000,
		EpochStartTimestamp: 1690000000,
		Epoch:               580,
		LeaderScheduleEpoch: 581,
		UnixTimestamp:       1700000000,
	}

	got, err := DecodeClock(EncodeClock(want))
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = DecodeClock(make([]byte, 39))
	assert.Error(t, err)
}

func TestDecodeLookupTable(t *testing.T) {
	want := domain.LookupTable{
		Address:   testAddr(1),
		Addresses: []domain.Address{testAddr(2), testAddr(3), testAddr(4)},
	}

	got, err := DecodeLookupTable(want.Address, EncodeLookupTable(want))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDecodeLookupTableRejectsMalformed(t *testing.T) {
	// Short header
	_, err := DecodeLookupTable(testAddr(1), make([]byte, 30))
	assert.Error(t, err)

	// Partial trailing address
	lut := domain.LookupTable{Address: testAddr(1), Addresses: []domain.Address{testAddr(2)}}
	data := append(EncodeLookupTable(lut), 0xFF)
	_, err = DecodeLookupTable(testAddr(1), data)
	assert.Error(t, err)

	// Header only is an empty table, not an error
	got, err := DecodeLookupTable(testAddr(1), EncodeLookupTable(domain.LookupTable{Address: testAddr(1)}))
	require.NoError(t, err)
	assert.Empty(t, got.Addresses)
}
