// Package oracle decodes price-feed account data. Two incompatible binary
// layouts are supported, selected by the oracle variant declared on the
// owning bank.
package oracle

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	"solana-liquidator/internal/domain"
)

// Decode errors. Malformed input never panics; every failure path returns
// one of these, possibly wrapped with position detail.
var (
	// ErrInvalidLength is returned when the data is too short for the
	// declared layout.
	ErrInvalidLength = errors.New("oracle data has invalid length")

	// ErrInvalidDiscriminator is returned when the leading magic does not
	// match the variant's expected constant.
	ErrInvalidDiscriminator = errors.New("oracle data has invalid discriminator")

	// ErrUnsupportedOracleType is returned for variants this decoder does
	// not understand.
	ErrUnsupportedOracleType = errors.New("unsupported oracle type")
)

// discriminatorLen is the length of the variant-specific magic prefix.
const discriminatorLen = 8

var (
	pythPullDiscriminator        = []byte{34, 241, 35, 99, 157, 126, 244, 205}
	switchboardPullDiscriminator = []byte{196, 27, 108, 196, 10, 215, 219, 40}
)

// Pyth pull layout after the magic: a packed struct.
//
//	8    write_authority (32)
//	40   verification_level (u8)
//	41   feed_id (32)
//	73   price (i64, already scaled)
//	81   conf (u64)
//	89   exponent (i32)
//	93   publish_time (i64)
const (
	pythPriceOffset = discriminatorLen + 32 + 1 + 32
	pythMinLen      = pythPriceOffset + 8 + 8 + 4 + 8
)

// Switchboard pull layout after the magic: a self-describing record.
//
//	8    name length (u32) + name bytes
//	...  feed_hash (32)
//	...  result (i128, raw)
const (
	switchboardFeedHashLen = 32
	switchboardResultLen   = 16
	switchboardMaxNameLen  = 256
)

// DecodePrice validates the variant-specific magic and extracts the price
// as a 128-bit signed integer. The value is raw and unscaled; scaling is
// the consumer's concern.
func DecodePrice(variant domain.OracleVariant, data []byte) (*big.Int, error) {
	if len(data) < discriminatorLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidLength, len(data))
	}

	switch variant {
	case domain.OracleVariantPythPull:
		return decodePythPull(data)
	case domain.OracleVariantSwitchboardPull:
		return decodeSwitchboardPull(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOracleType, variant)
	}
}

func decodePythPull(data []byte) (*big.Int, error) {
	if !bytes.Equal(data[:discriminatorLen], pythPullDiscriminator) {
		return nil, ErrInvalidDiscriminator
	}
	if len(data) < pythMinLen {
		return nil, fmt.Errorf("%w: pyth pull update is %d bytes, want at least %d", ErrInvalidLength, len(data), pythMinLen)
	}
	price := int64(binary.LittleEndian.Uint64(data[pythPriceOffset:]))
	return big.NewInt(price), nil
}

func decodeSwitchboardPull(data []byte) (*big.Int, error) {
	if !bytes.Equal(data[:discriminatorLen], switchboardPullDiscriminator) {
		return nil, ErrInvalidDiscriminator
	}

	// Structural walk: name (length-prefixed), feed hash, then the result.
	offset := discriminatorLen
	if len(data) < offset+4 {
		return nil, fmt.Errorf("%w: truncated name length", ErrInvalidLength)
	}
	nameLen := int(binary.LittleEndian.Uint32(data[offset:]))
	offset += 4
	if nameLen > switchboardMaxNameLen {
		return nil, fmt.Errorf("%w: feed name of %d bytes", ErrInvalidLength, nameLen)
	}
	offset += nameLen

	if len(data) < offset+switchboardFeedHashLen+switchboardResultLen {
		return nil, fmt.Errorf("%w: truncated feed body", ErrInvalidLength)
	}
	offset += switchboardFeedHashLen

	return i128FromLE(data[offset : offset+switchboardResultLen]), nil
}

// i128FromLE interprets 16 bytes as a little-endian two's-complement
// signed integer.
func i128FromLE(b []byte) *big.Int {
	be := make([]byte, len(b))
	for i := range b {
		be[i] = b[len(b)-1-i]
	}
	v := new(big.Int).SetBytes(be)
	if be[0]&0x80 != 0 {
		v.Sub(v, new(big.Int).Lsh(big.NewInt(1), uint(len(b)*8)))
	}
	return v
}
