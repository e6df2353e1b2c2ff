package ledger

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd_Checked(t *testing.T) {
	sum, err := Add(40, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), sum)

	_, err = Add(math.MaxUint64, 1)
	assert.ErrorIs(t, err, ErrOverflow)

	sum, err = Add(math.MaxUint64, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), sum)
}

func TestSub_Checked(t *testing.T) {
	diff, err := Sub(42, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(40), diff)

	_, err = Sub(1, 2)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestMul_Checked(t *testing.T) {
	p, err := Mul(6, 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), p)

	_, err = Mul(math.MaxUint64, 2)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestMulDiv_WideIntermediate(t *testing.T) {
	// a*b overflows 64 bits but the quotient fits.
	big := uint64(math.MaxUint64 / 2)
	q, err := MulDiv(big, 4, 8)
	require.NoError(t, err)
	assert.Equal(t, big/2, q)

	// Refund share formula from the treasury path.
	q, err = MulDiv(400, 800, 1000)
	require.NoError(t, err)
	assert.Equal(t, uint64(320), q)

	_, err = MulDiv(1, 1, 0)
	assert.ErrorIs(t, err, ErrDivideByZero)

	_, err = MulDiv(math.MaxUint64, math.MaxUint64, 1)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestBasisPointsOf(t *testing.T) {
	assert.Equal(t, uint64(500), BasisPointsOf(1000, 5000))
	assert.Equal(t, uint64(1000), BasisPointsOf(1000, 10000))
	assert.Equal(t, uint64(0), BasisPointsOf(1000, 0))
	// Widened intermediate: no overflow near MaxUint64.
	assert.Equal(t, uint64(math.MaxUint64/2), BasisPointsOf(math.MaxUint64, 5000))
}

func TestIsqrt(t *testing.T) {
	cases := []struct {
		n    uint64
		want uint64
	}{
		{0, 0},
		{1, 1},
		{2, 1},
		{3, 1},
		{4, 2},
		{99, 9},
		{100, 10},
		{101, 10},
		{10000, 100},
		{math.MaxUint64, 4294967295},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Isqrt(tc.n), "n=%d", tc.n)
	}
}
