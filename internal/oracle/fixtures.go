package oracle

import (
	"encoding/binary"
	"math/big"
)

// Fixture encoders for tests that need valid oracle account data.

// EncodePythPull builds a pull-style price update with the given scaled
// price.
func EncodePythPull(price int64) []byte {
	data := make([]byte, pythMinLen)
	copy(data, pythPullDiscriminator)
	binary.LittleEndian.PutUint64(data[pythPriceOffset:], uint64(price))
	return data
}

// EncodeSwitchboardPull builds a push-style feed record with the given
// name and raw i128 result.
func EncodeSwitchboardPull(name string, result *big.Int) []byte {
	data := make([]byte, 0, discriminatorLen+4+len(name)+switchboardFeedHashLen+switchboardResultLen)
	data = append(data, switchboardPullDiscriminator...)
	data = binary.LittleEndian.AppendUint32(data, uint32(len(name)))
	data = append(data, name...)
	data = append(data, make([]byte, switchboardFeedHashLen)...)
	data = append(data, i128ToLE(result)...)
	return data
}

// i128ToLE serializes a signed value to 16 little-endian two's-complement
// bytes.
func i128ToLE(v *big.Int) []byte {
	u := new(big.Int).Set(v)
	if u.Sign() < 0 {
		u.Add(u, new(big.Int).Lsh(big.NewInt(1), 128))
	}
	be := u.FillBytes(make([]byte, 16))
	le := make([]byte, 16)
	for i := range be {
		le[i] = be[15-i]
	}
	return le
}
