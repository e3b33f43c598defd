package modred_test

import (
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuneinsight/lattigo/v6/utils/bignum"

	"github.com/chancehudson/moduli-comparison/modred"
	"github.com/chancehudson/moduli-comparison/num"
)

func TestMontgomeryContext(t *testing.T) {
	t.Run("KnownConstants", func(t *testing.T) {
		// For N = 2^31 - 2^27 + 1 and N = 2^64 - 2^32 + 1, N-1 is divisible
		// by 2^(k/2), so (N-1)^2 = 0 mod R and N' = N - 2.
		// For N = 2^127 - 1, N = -1 mod R and N' = 1.
		testCases := []struct {
			modulus *big.Int
			k       uint
			nPrime  *big.Int
		}{
			{bignum.NewInt("2013265921"), 31, bignum.NewInt("2013265919")},
			{bignum.NewInt("18446744069414584321"), 64, bignum.NewInt("18446744069414584319")},
			{bignum.NewInt("170141183460469231731687303715884105727"), 127, bignum.NewInt(1)},
		}

		for _, tc := range testCases {
			e, err := modred.NewMontgomery(tc.modulus)
			require.NoError(t, err)

			assert.Equal(t, tc.k, e.K())
			assert.Equal(t, big.NewInt(0).Lsh(big.NewInt(1), tc.k), e.R())
			assert.Equal(t, tc.nPrime, e.NPrime())
		}
	})

	t.Run("Invariants", func(t *testing.T) {
		for _, tc := range testModuli {
			e, err := modred.NewMontgomery(tc.modulus)
			require.NoError(t, err)

			assert.Equal(t, uint(tc.modulus.BitLen()), e.K())
			assert.True(t, e.R().Cmp(tc.modulus) > 0, tc.name)

			// N * N' = -1 mod R
			check := big.NewInt(0).Mul(e.Modulus(), e.NPrime())
			check.Add(check, big.NewInt(1))
			check.Mod(check, e.R())
			assert.Equal(t, 0, check.Sign(), tc.name)

			assert.True(t, e.NPrime().Sign() > 0 && e.NPrime().Cmp(e.R()) < 0, tc.name)
		}
	})

	t.Run("Deterministic", func(t *testing.T) {
		for _, tc := range testModuli {
			e0, err := modred.NewMontgomery(tc.modulus)
			require.NoError(t, err)
			e1, err := modred.NewMontgomery(tc.modulus)
			require.NoError(t, err)

			assert.Equal(t, e0.K(), e1.K())
			assert.Equal(t, e0.R(), e1.R())
			assert.Equal(t, e0.NPrime(), e1.NPrime())
		}
	})

	t.Run("InvalidModulus", func(t *testing.T) {
		_, err := modred.NewMontgomery(big.NewInt(4))
		assert.ErrorIs(t, err, modred.ErrInvalidModulus)

		_, err = modred.NewMontgomery(big.NewInt(0))
		assert.ErrorIs(t, err, modred.ErrInvalidModulus)

		_, err = modred.NewMontgomery(big.NewInt(-5))
		assert.ErrorIs(t, err, modred.ErrInvalidModulus)

		_, err = modred.NewMontgomery(nil)
		assert.ErrorIs(t, err, modred.ErrInvalidModulus)

		_, err = modred.NewMontgomery(big.NewInt(0).Lsh(big.NewInt(1), 64))
		assert.ErrorIs(t, err, modred.ErrInvalidModulus)
	})
}

func TestMontgomeryRoundTrip(t *testing.T) {
	for _, tc := range testModuli {
		t.Run(tc.name, func(t *testing.T) {
			e, err := modred.NewMontgomery(tc.modulus)
			require.NoError(t, err)

			edge := []*big.Int{
				big.NewInt(0),
				big.NewInt(1),
				big.NewInt(0).Sub(tc.modulus, big.NewInt(1)),
			}
			for _, x := range append(edge, sampleResidues([]byte("round-trip"), tc.modulus, 64)...) {
				assert.Equal(t, 0, e.FromDomain(e.ToDomain(x)).Cmp(x))
			}
		})
	}
}

func TestMontgomeryMul(t *testing.T) {
	for _, tc := range testModuli {
		t.Run(tc.name, func(t *testing.T) {
			e, err := modred.NewMontgomery(tc.modulus)
			require.NoError(t, err)

			xs := sampleResidues([]byte("mul-x"), tc.modulus, 128)
			ys := sampleResidues([]byte("mul-y"), tc.modulus, 128)
			want := big.NewInt(0)
			for i := range xs {
				want.Mul(xs[i], ys[i])
				want.Mod(want, tc.modulus)

				z := e.FromDomain(e.Mul(e.ToDomain(xs[i]), e.ToDomain(ys[i])))
				assert.Equal(t, 0, z.Cmp(want))
			}
		})
	}
}

func TestMontgomeryMulAliasing(t *testing.T) {
	modulus := bignum.NewInt("18446744069414584321")
	e, err := modred.NewMontgomery(modulus)
	require.NoError(t, err)

	xs := sampleResidues([]byte("aliasing"), modulus, 16)
	acc := e.ToDomain(xs[0])
	want := big.NewInt(0).Set(xs[0])
	for _, x := range xs[1:] {
		e.MulAssign(acc, e.ToDomain(x), acc)

		want.Mul(want, x)
		want.Mod(want, modulus)
	}
	assert.Equal(t, 0, e.FromDomain(acc).Cmp(want))
}

func TestMontgomeryIdentity(t *testing.T) {
	// 1 * (N-1) = N-1 for the 64-bit Goldilocks prime.
	modulus := bignum.NewInt("18446744069414584321")
	e, err := modred.NewMontgomery(modulus)
	require.NoError(t, err)

	nMinusOne := big.NewInt(0).Sub(modulus, big.NewInt(1))
	z := e.FromDomain(e.Mul(e.ToDomain(big.NewInt(1)), e.ToDomain(nMinusOne)))
	assert.Equal(t, nMinusOne, z)
}

func TestMontgomeryReduce(t *testing.T) {
	for _, tc := range testModuli {
		t.Run(tc.name, func(t *testing.T) {
			e, err := modred.NewMontgomery(tc.modulus)
			require.NoError(t, err)

			rInv, err := num.ModInverse(e.R(), tc.modulus)
			require.NoError(t, err)

			xs := sampleResidues([]byte("reduce-x"), tc.modulus, 64)
			ys := sampleResidues([]byte("reduce-y"), tc.modulus, 64)
			want := big.NewInt(0)
			for i := range xs {
				x := big.NewInt(0).Mul(xs[i], ys[i])

				// REDC computes xR^-1 mod N.
				want.Mul(x, rInv)
				want.Mod(want, tc.modulus)

				strict := e.Reduce(x)
				assert.Equal(t, 0, strict.Cmp(want))

				lazy := e.ReduceLazy(x)
				assert.True(t, lazy.Cmp(big.NewInt(0).Lsh(tc.modulus, 1)) < 0)
				lazyMod := big.NewInt(0).Mod(lazy, tc.modulus)
				assert.Equal(t, 0, lazyMod.Cmp(want))
			}
		})
	}
}

func TestMontgomeryReduceOnce(t *testing.T) {
	modulus := bignum.NewInt("2013265921")
	e, err := modred.NewMontgomery(modulus)
	require.NoError(t, err)

	out := big.NewInt(0)

	e.ReduceOnceAssign(big.NewInt(7), out)
	assert.Equal(t, big.NewInt(7), out)

	x := big.NewInt(0).Add(modulus, big.NewInt(7))
	e.ReduceOnceAssign(x, out)
	assert.Equal(t, big.NewInt(7), out)

	assert.Panics(t, func() {
		e.ReduceOnceAssign(big.NewInt(0).Lsh(modulus, 1), out)
	})
}

func TestMontgomeryReducePanics(t *testing.T) {
	modulus := bignum.NewInt("2013265921")
	e, err := modred.NewMontgomery(modulus)
	require.NoError(t, err)

	out := big.NewInt(0)

	assert.Panics(t, func() {
		e.ReduceAssign(big.NewInt(-1), out)
	})

	assert.Panics(t, func() {
		e.ReduceAssign(big.NewInt(0).Mul(modulus, e.R()), out)
	})
}

func TestMontgomeryExp(t *testing.T) {
	for _, tc := range testModuli {
		t.Run(tc.name, func(t *testing.T) {
			e, err := modred.NewMontgomery(tc.modulus)
			require.NoError(t, err)

			xs := sampleResidues([]byte("exp-base"), tc.modulus, 8)
			exps := []*big.Int{
				big.NewInt(0),
				big.NewInt(1),
				big.NewInt(2),
				big.NewInt(65537),
				big.NewInt(0).Sub(tc.modulus, big.NewInt(1)),
			}

			want := big.NewInt(0)
			for _, x := range xs {
				for _, y := range exps {
					want.Exp(x, y, tc.modulus)
					assert.Equal(t, 0, e.Exp(x, y).Cmp(want))
				}
			}
		})
	}
}

func TestMontgomeryShallowCopy(t *testing.T) {
	modulus := bignum.NewInt("340282366920938463463374607431768211507")
	e, err := modred.NewMontgomery(modulus)
	require.NoError(t, err)

	xs := sampleResidues([]byte("copy-x"), modulus, 64)
	ys := sampleResidues([]byte("copy-y"), modulus, 64)

	wants := make([]*big.Int, len(xs))
	for i := range xs {
		wants[i] = e.FromDomain(e.Mul(e.ToDomain(xs[i]), e.ToDomain(ys[i])))
	}

	workSize := 8
	var wg sync.WaitGroup
	wg.Add(workSize)

	ok := make([]bool, workSize)
	for w := 0; w < workSize; w++ {
		go func(idx int) {
			defer wg.Done()

			eCopy := e.ShallowCopy()
			okAll := true
			for i := range xs {
				z := eCopy.FromDomain(eCopy.Mul(eCopy.ToDomain(xs[i]), eCopy.ToDomain(ys[i])))
				okAll = okAll && z.Cmp(wants[i]) == 0
			}
			ok[idx] = okAll
		}(w)
	}
	wg.Wait()

	for _, okW := range ok {
		assert.True(t, okW)
	}
}
