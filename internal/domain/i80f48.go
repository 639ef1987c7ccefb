package domain

import (
	"fmt"
	"math/big"
)

// I80F48Len is the wire size of an I80F48 value in bytes.
const I80F48Len = 16

// i80f48FracBits is the number of fractional bits in an I80F48.
const i80f48FracBits = 48

// I80F48 is the 128-bit signed fixed-point number used by the lending
// program for share balances and valuation fields: 80 integer bits,
// 48 fractional bits, little-endian two's complement on the wire.
type I80F48 struct {
	raw *big.Int
}

// I80F48Zero returns the zero value.
func I80F48Zero() I80F48 {
	return I80F48{raw: new(big.Int)}
}

// I80F48FromLE decodes a 16-byte little-endian two's-complement value.
func I80F48FromLE(b []byte) (I80F48, error) {
	if len(b) != I80F48Len {
		return I80F48{}, fmt.Errorf("i80f48 has %d bytes, want %d", len(b), I80F48Len)
	}
	be := make([]byte, I80F48Len)
	for i := 0; i < I80F48Len; i++ {
		be[i] = b[I80F48Len-1-i]
	}
	v := new(big.Int).SetBytes(be)
	// Sign bit set: subtract 2^128.
	if be[0]&0x80 != 0 {
		v.Sub(v, new(big.Int).Lsh(big.NewInt(1), 128))
	}
	return I80F48{raw: v}, nil
}

// I80F48FromInt builds the fixed-point representation of an integer.
func I80F48FromInt(v int64) I80F48 {
	return I80F48{raw: new(big.Int).Lsh(big.NewInt(v), i80f48FracBits)}
}

// Raw returns the raw (scaled by 2^48) integer value. The result is a copy.
func (x I80F48) Raw() *big.Int {
	if x.raw == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(x.raw)
}

// AppendLE appends the 16-byte little-endian wire form to dst.
func (x I80F48) AppendLE(dst []byte) []byte {
	v := x.Raw()
	if v.Sign() < 0 {
		v.Add(v, new(big.Int).Lsh(big.NewInt(1), 128))
	}
	be := v.FillBytes(make([]byte, I80F48Len))
	for i := I80F48Len - 1; i >= 0; i-- {
		dst = append(dst, be[i])
	}
	return dst
}

// IsZero reports whether the value is exactly zero.
func (x I80F48) IsZero() bool {
	return x.raw == nil || x.raw.Sign() == 0
}

// Sign returns -1, 0 or +1.
func (x I80F48) Sign() int {
	if x.raw == nil {
		return 0
	}
	return x.raw.Sign()
}

// Cmp compares x and y like big.Int.Cmp.
func (x I80F48) Cmp(y I80F48) int {
	return x.Raw().Cmp(y.Raw())
}

// Float64 returns the closest float64 approximation.
func (x I80F48) Float64() float64 {
	if x.raw == nil {
		return 0
	}
	f := new(big.Float).SetInt(x.raw)
	f.Quo(f, new(big.Float).SetInt(new(big.Int).Lsh(big.NewInt(1), i80f48FracBits)))
	out, _ := f.Float64()
	return out
}

// String renders the value in decimal with the fractional part truncated.
func (x I80F48) String() string {
	return fmt.Sprintf("%.6f", x.Float64())
}
