package modred

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/chancehudson/moduli-comparison/num"
)

// Montgomery multiplies residues in the Montgomery domain, where reduction
// needs no division by the modulus.
//
// For a k-bit modulus N it fixes R = 2^k, the smallest power of two above N,
// and represents a residue x as xR mod N. Products of domain values are
// brought back into the domain with REDC, which uses only multiplications,
// masks, shifts and subtractions. The one full division happens in
// ToDomainAssign.
//
// The modulus must be odd, so that N and R are coprime.
type Montgomery struct {
	modulus *big.Int

	k      uint
	r      *big.Int
	mask   *big.Int
	nPrime *big.Int
	one    *big.Int

	nr   *big.Int
	twoN *big.Int

	mul *big.Int
	red *big.Int
}

// NewMontgomery creates a new Montgomery engine for the given modulus.
// The modulus must be positive and odd.
func NewMontgomery(N *big.Int) (*Montgomery, error) {
	if N == nil || N.Sign() <= 0 {
		return nil, errors.Wrapf(ErrInvalidModulus, "modulus %v must be positive", N)
	}
	if N.Bit(0) == 0 {
		return nil, errors.Wrapf(ErrInvalidModulus, "modulus %v must be odd", N)
	}

	k := uint(N.BitLen())
	r := big.NewInt(0).Lsh(big.NewInt(1), k)
	mask := big.NewInt(0).Sub(r, big.NewInt(1))

	// N * nPrime = -1 mod R
	nInv, err := num.ModInverse(N, r)
	if err != nil {
		// Unreachable: an odd N is always coprime to a power of two.
		panic(err)
	}
	nPrime := big.NewInt(0).Sub(r, nInv)

	return &Montgomery{
		modulus: big.NewInt(0).Set(N),

		k:      k,
		r:      r,
		mask:   mask,
		nPrime: nPrime,
		one:    big.NewInt(0).Mod(r, N),

		nr:   big.NewInt(0).Mul(N, r),
		twoN: big.NewInt(0).Lsh(N, 1),

		mul: big.NewInt(0),
		red: big.NewInt(0),
	}, nil
}

// ShallowCopy creates a copy of Montgomery that is thread-safe.
func (e *Montgomery) ShallowCopy() *Montgomery {
	return &Montgomery{
		modulus: e.modulus,

		k:      e.k,
		r:      e.r,
		mask:   e.mask,
		nPrime: e.nPrime,
		one:    e.one,

		nr:   e.nr,
		twoN: e.twoN,

		mul: big.NewInt(0),
		red: big.NewInt(0),
	}
}

// Name returns the name of the engine.
func (e *Montgomery) Name() string {
	return "montgomery"
}

// Modulus returns the modulus N.
// The returned value must not be modified.
func (e *Montgomery) Modulus() *big.Int {
	return e.modulus
}

// K returns the bit length of the modulus, so that R = 2^K.
func (e *Montgomery) K() uint {
	return e.k
}

// R returns the Montgomery radix R = 2^K.
// The returned value must not be modified.
func (e *Montgomery) R() *big.Int {
	return e.r
}

// NPrime returns the REDC constant N' = -N^-1 mod R.
// The returned value must not be modified.
func (e *Montgomery) NPrime() *big.Int {
	return e.nPrime
}

// ToDomain returns xR mod N, the Montgomery form of x.
func (e *Montgomery) ToDomain(x *big.Int) *big.Int {
	xOut := big.NewInt(0)
	e.ToDomainAssign(x, xOut)
	return xOut
}

// ToDomainAssign assigns xR mod N, the Montgomery form of x, to xOut.
func (e *Montgomery) ToDomainAssign(x, xOut *big.Int) {
	e.mul.Lsh(x, e.k)
	xOut.Mod(e.mul, e.modulus)
}

// FromDomain returns xR^-1 mod N, taking the Montgomery form x back to a
// plain residue.
func (e *Montgomery) FromDomain(x *big.Int) *big.Int {
	xOut := big.NewInt(0)
	e.FromDomainAssign(x, xOut)
	return xOut
}

// FromDomainAssign assigns xR^-1 mod N to xOut, taking the Montgomery form x
// back to a plain residue.
func (e *Montgomery) FromDomainAssign(x, xOut *big.Int) {
	e.ReduceAssign(x, xOut)
}

// Reduce returns the Montgomery reduction xR^-1 mod N.
// The input must be in the range [0, N*R).
func (e *Montgomery) Reduce(x *big.Int) *big.Int {
	xOut := big.NewInt(0)
	e.ReduceAssign(x, xOut)
	return xOut
}

// ReduceAssign assigns the Montgomery reduction xR^-1 mod N to xOut.
// The input must be in the range [0, N*R); the output is in [0, N).
func (e *Montgomery) ReduceAssign(x, xOut *big.Int) {
	e.ReduceLazyAssign(x, xOut)
	if xOut.Cmp(e.modulus) >= 0 {
		xOut.Sub(xOut, e.modulus)
	}
}

// ReduceLazy returns the Montgomery reduction of x without the final
// conditional subtraction, in the range [0, 2N).
func (e *Montgomery) ReduceLazy(x *big.Int) *big.Int {
	xOut := big.NewInt(0)
	e.ReduceLazyAssign(x, xOut)
	return xOut
}

// ReduceLazyAssign assigns the Montgomery reduction of x to xOut without the
// final conditional subtraction. The input must be in the range [0, N*R);
// the output is in [0, 2N) and congruent to xR^-1 mod N.
func (e *Montgomery) ReduceLazyAssign(x, xOut *big.Int) {
	if x.Sign() < 0 || x.Cmp(e.nr) >= 0 {
		panic("input must be in the range [0, N*R)")
	}

	// m = (x mod R) * N' mod R
	e.red.And(x, e.mask)
	e.red.Mul(e.red, e.nPrime)
	e.red.And(e.red, e.mask)

	// (x + m*N) / R
	e.red.Mul(e.red, e.modulus)
	e.red.Add(e.red, x)
	xOut.Rsh(e.red, e.k)
}

// ReduceOnceAssign renormalizes x with a single conditional subtraction and
// assigns it to xOut. The input must be in the range [0, 2N).
func (e *Montgomery) ReduceOnceAssign(x, xOut *big.Int) {
	if x.Sign() < 0 || x.Cmp(e.twoN) >= 0 {
		panic("input must be in the range [0, 2N)")
	}

	if x.Cmp(e.modulus) >= 0 {
		xOut.Sub(x, e.modulus)
	} else {
		xOut.Set(x)
	}
}

// Mul returns the product of the Montgomery forms a and b, in Montgomery form.
func (e *Montgomery) Mul(a, b *big.Int) *big.Int {
	zOut := big.NewInt(0)
	e.MulAssign(a, b, zOut)
	return zOut
}

// MulAssign multiplies the Montgomery forms a and b and assigns the product,
// in Montgomery form, to zOut. The inputs must be in the range [0, N).
func (e *Montgomery) MulAssign(a, b, zOut *big.Int) {
	e.mul.Mul(a, b)
	e.ReduceAssign(e.mul, zOut)
}

// AddAssign adds the Montgomery forms a and b and assigns the sum, in
// Montgomery form, to zOut. The inputs must be in the range [0, N).
func (e *Montgomery) AddAssign(a, b, zOut *big.Int) {
	zOut.Add(a, b)
	e.ReduceOnceAssign(zOut, zOut)
}

// Exp returns x^y mod N as a plain residue.
// The base x is a plain residue, not a Montgomery form.
func (e *Montgomery) Exp(x, y *big.Int) *big.Int {
	zOut := big.NewInt(0)
	e.ExpAssign(x, y, zOut)
	return zOut
}

// ExpAssign assigns x^y mod N to zOut by square-and-multiply in the
// Montgomery domain, converting once on the way in and once on the way out.
// The base x is a plain residue; the exponent must be non-negative.
func (e *Montgomery) ExpAssign(x, y, zOut *big.Int) {
	if y.Sign() < 0 {
		panic("exponent must be non-negative")
	}

	base := big.NewInt(0)
	e.ToDomainAssign(x, base)
	acc := big.NewInt(0).Set(e.one)

	for i := 0; i < y.BitLen(); i++ {
		if y.Bit(i) == 1 {
			e.MulAssign(acc, base, acc)
		}
		e.MulAssign(base, base, base)
	}

	e.FromDomainAssign(acc, zOut)
}
