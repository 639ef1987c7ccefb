package domain

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestI80F48RoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 42, -42, 1 << 40, -(1 << 40)}
	for _, v := range values {
		x := I80F48FromInt(v)
		wire := x.AppendLE(nil)
		require.Len(t, wire, I80F48Len)

		decoded, err := I80F48FromLE(wire)
		require.NoError(t, err)
		assert.Zero(t, x.Cmp(decoded), "value %d", v)
	}
}

func TestI80F48FromLERejectsBadLength(t *testing.T) {
	_, err := I80F48FromLE(make([]byte, 15))
	assert.Error(t, err)
	_, err = I80F48FromLE(make([]byte, 17))
	assert.Error(t, err)
}

func TestI80F48Negative(t *testing.T) {
	x := I80F48FromInt(-5)
	assert.Equal(t, -1, x.Sign())
	assert.Equal(t, -5.0, x.Float64())

	// Sign must survive the wire form
	decoded, err := I80F48FromLE(x.AppendLE(nil))
	require.NoError(t, err)
	assert.Equal(t, -1, decoded.Sign())
}

func TestI80F48ZeroValueSafe(t *testing.T) {
	var x I80F48
	assert.True(t, x.IsZero())
	assert.Equal(t, 0, x.Sign())
	assert.Equal(t, 0.0, x.Float64())
	assert.Zero(t, x.Cmp(I80F48Zero()))
	assert.Equal(t, int64(0), x.Raw().Int64())
}

func TestI80F48RawScaling(t *testing.T) {
	x := I80F48FromInt(3)
	want := new(big.Int).Lsh(big.NewInt(3), 48)
	assert.Zero(t, x.Raw().Cmp(want))

	// Raw returns a copy
	x.Raw().SetInt64(99)
	assert.Zero(t, x.Raw().Cmp(want))
}

func TestI80F48Cmp(t *testing.T) {
	assert.Equal(t, 1, I80F48FromInt(5).Cmp(I80F48FromInt(3)))
	assert.Equal(t, -1, I80F48FromInt(-5).Cmp(I80F48FromInt(3)))
	assert.Equal(t, 0, I80F48FromInt(7).Cmp(I80F48FromInt(7)))
}
