package modred_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuneinsight/lattigo/v6/utils/bignum"

	"github.com/chancehudson/moduli-comparison/modred"
)

func TestBarrettContext(t *testing.T) {
	t.Run("KnownConstants", func(t *testing.T) {
		// floor(2^14 / 97) = 168, and
		// floor(2^254 / (2^127 - 1)) = 2^127 + 1.
		e, err := modred.NewBarrett(big.NewInt(97))
		require.NoError(t, err)
		assert.Equal(t, uint(7), e.K())
		assert.Equal(t, big.NewInt(168), e.Mu())

		e, err = modred.NewBarrett(bignum.NewInt("170141183460469231731687303715884105727"))
		require.NoError(t, err)
		assert.Equal(t, uint(127), e.K())
		assert.Equal(t, big.NewInt(0).Add(big.NewInt(0).Lsh(big.NewInt(1), 127), big.NewInt(1)), e.Mu())
	})

	t.Run("Invariants", func(t *testing.T) {
		for _, tc := range testModuli {
			e, err := modred.NewBarrett(tc.modulus)
			require.NoError(t, err)

			assert.Equal(t, uint(tc.modulus.BitLen()), e.K())

			// mu * N <= 2^2k < (mu + 1) * N
			exp := big.NewInt(0).Lsh(big.NewInt(1), 2*e.K())
			lo := big.NewInt(0).Mul(e.Mu(), tc.modulus)
			hi := big.NewInt(0).Add(e.Mu(), big.NewInt(1))
			hi.Mul(hi, tc.modulus)
			assert.True(t, lo.Cmp(exp) <= 0, tc.name)
			assert.True(t, exp.Cmp(hi) < 0, tc.name)
		}
	})

	t.Run("Deterministic", func(t *testing.T) {
		for _, tc := range testModuli {
			e0, err := modred.NewBarrett(tc.modulus)
			require.NoError(t, err)
			e1, err := modred.NewBarrett(tc.modulus)
			require.NoError(t, err)

			assert.Equal(t, e0.K(), e1.K())
			assert.Equal(t, e0.Mu(), e1.Mu())
		}
	})

	t.Run("InvalidModulus", func(t *testing.T) {
		_, err := modred.NewBarrett(big.NewInt(0))
		assert.ErrorIs(t, err, modred.ErrInvalidModulus)

		_, err = modred.NewBarrett(big.NewInt(-97))
		assert.ErrorIs(t, err, modred.ErrInvalidModulus)

		_, err = modred.NewBarrett(nil)
		assert.ErrorIs(t, err, modred.ErrInvalidModulus)
	})
}

func TestBarrettReduce(t *testing.T) {
	for _, tc := range testModuli {
		t.Run(tc.name, func(t *testing.T) {
			e, err := modred.NewBarrett(tc.modulus)
			require.NoError(t, err)

			xs := sampleResidues([]byte("barrett-x"), tc.modulus, 128)
			ys := sampleResidues([]byte("barrett-y"), tc.modulus, 128)
			x := big.NewInt(0)
			want := big.NewInt(0)
			for i := range xs {
				x.Mul(xs[i], ys[i])
				want.Mod(x, tc.modulus)
				assert.Equal(t, 0, e.Reduce(x).Cmp(want))
			}
		})
	}
}

// TestBarrettReduceWorstCase drives the quotient estimate to its largest
// error, with a modulus just above a power of two and inputs at the top of
// the admissible range.
func TestBarrettReduceWorstCase(t *testing.T) {
	modulus := bignum.NewInt("340282366920938463463374607431768211507")
	e, err := modred.NewBarrett(modulus)
	require.NoError(t, err)

	bound := big.NewInt(0).Mul(modulus, modulus)
	want := big.NewInt(0)
	for _, delta := range []int64{1, 2, 51, 1 << 32} {
		x := big.NewInt(0).Sub(bound, big.NewInt(delta))
		want.Mod(x, modulus)
		assert.Equal(t, 0, e.Reduce(x).Cmp(want))
	}

	// The whole [0, N^2) range boundary on the power-of-two side.
	x := big.NewInt(0).Lsh(big.NewInt(1), 256)
	want.Mod(x, modulus)
	assert.Equal(t, 0, e.Reduce(x).Cmp(want))

	for _, q := range sampleResidues([]byte("worst-q"), modulus, 32) {
		x.Mul(q, modulus)
		x.Add(x, big.NewInt(0).Sub(modulus, big.NewInt(1)))
		if x.Cmp(bound) >= 0 {
			continue
		}
		want.Mod(x, modulus)
		assert.Equal(t, 0, e.Reduce(x).Cmp(want))
	}
}

func TestBarrettEvenModulus(t *testing.T) {
	// Barrett accepts even moduli; Montgomery cannot.
	modulus := big.NewInt(0).Lsh(big.NewInt(1), 64)
	e, err := modred.NewBarrett(modulus)
	require.NoError(t, err)

	_, err = modred.NewMontgomery(modulus)
	assert.ErrorIs(t, err, modred.ErrInvalidModulus)

	xs := sampleResidues([]byte("even-x"), modulus, 64)
	ys := sampleResidues([]byte("even-y"), modulus, 64)
	want := big.NewInt(0)
	for i := range xs {
		want.Mul(xs[i], ys[i])
		want.Mod(want, modulus)
		assert.Equal(t, 0, e.Mul(xs[i], ys[i]).Cmp(want))
	}

	// floor(2^8 / 12) = 21, and 7 * 11 = 77 = 5 mod 12.
	small, err := modred.NewBarrett(big.NewInt(12))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(21), small.Mu())
	assert.Equal(t, big.NewInt(5), small.Mul(big.NewInt(7), big.NewInt(11)))
}

func TestBarrettAdd(t *testing.T) {
	modulus := bignum.NewInt("2013265921")
	e, err := modred.NewBarrett(modulus)
	require.NoError(t, err)

	xs := sampleResidues([]byte("add-x"), modulus, 64)
	ys := sampleResidues([]byte("add-y"), modulus, 64)
	z := big.NewInt(0)
	want := big.NewInt(0)
	for i := range xs {
		want.Add(xs[i], ys[i])
		want.Mod(want, modulus)

		e.AddAssign(xs[i], ys[i], z)
		assert.Equal(t, 0, z.Cmp(want))
	}
}

func TestBarrettReducePanics(t *testing.T) {
	modulus := bignum.NewInt("2013265921")
	e, err := modred.NewBarrett(modulus)
	require.NoError(t, err)

	out := big.NewInt(0)

	assert.Panics(t, func() {
		e.ReduceAssign(big.NewInt(-1), out)
	})

	assert.Panics(t, func() {
		e.ReduceAssign(big.NewInt(0).Mul(modulus, modulus), out)
	})
}

func TestBarrettShallowCopy(t *testing.T) {
	modulus := bignum.NewInt("170141183460469231731687303715884105727")
	e, err := modred.NewBarrett(modulus)
	require.NoError(t, err)

	eCopy := e.ShallowCopy()
	assert.Equal(t, e.Modulus(), eCopy.Modulus())
	assert.Equal(t, e.Mu(), eCopy.Mu())

	xs := sampleResidues([]byte("copy-x"), modulus, 16)
	ys := sampleResidues([]byte("copy-y"), modulus, 16)
	for i := range xs {
		assert.Equal(t, e.Mul(xs[i], ys[i]), eCopy.Mul(xs[i], ys[i]))
	}
}
