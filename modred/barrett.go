package modred

import (
	"math/big"

	"github.com/pkg/errors"
)

// Barrett multiplies residues with Barrett reduction, which replaces the
// division of each reduction by two multiplications with the precomputed
// reciprocal mu = floor(2^2k / N), k being the bit length of the modulus.
//
// The quotient estimate q = ((x >> k) * mu) >> k never overshoots and
// undershoots by at most 3, so the remainder is corrected with at most
// three subtractions of N.
//
// Operands stay plain residues; ToDomainAssign and FromDomainAssign are
// identities. Any positive modulus is supported, odd or even.
type Barrett struct {
	modulus *big.Int

	k     uint
	mu    *big.Int
	bound *big.Int

	mul  *big.Int
	quo  *big.Int
	quoQ *big.Int
}

// NewBarrett creates a new Barrett engine for the given modulus.
// The modulus must be positive.
func NewBarrett(N *big.Int) (*Barrett, error) {
	if N == nil || N.Sign() <= 0 {
		return nil, errors.Wrapf(ErrInvalidModulus, "modulus %v must be positive", N)
	}

	k := uint(N.BitLen())
	mu := big.NewInt(0).Lsh(big.NewInt(1), 2*k)
	mu.Div(mu, N)

	return &Barrett{
		modulus: big.NewInt(0).Set(N),

		k:     k,
		mu:    mu,
		bound: big.NewInt(0).Mul(N, N),

		mul:  big.NewInt(0),
		quo:  big.NewInt(0),
		quoQ: big.NewInt(0),
	}, nil
}

// ShallowCopy creates a copy of Barrett that is thread-safe.
func (e *Barrett) ShallowCopy() *Barrett {
	return &Barrett{
		modulus: e.modulus,

		k:     e.k,
		mu:    e.mu,
		bound: e.bound,

		mul:  big.NewInt(0),
		quo:  big.NewInt(0),
		quoQ: big.NewInt(0),
	}
}

// Name returns the name of the engine.
func (e *Barrett) Name() string {
	return "barrett"
}

// Modulus returns the modulus N.
// The returned value must not be modified.
func (e *Barrett) Modulus() *big.Int {
	return e.modulus
}

// K returns the bit length of the modulus.
func (e *Barrett) K() uint {
	return e.k
}

// Mu returns the Barrett constant mu = floor(2^2K / N).
// The returned value must not be modified.
func (e *Barrett) Mu() *big.Int {
	return e.mu
}

// ToDomainAssign assigns x to xOut. Barrett has no special domain.
func (e *Barrett) ToDomainAssign(x, xOut *big.Int) {
	xOut.Set(x)
}

// FromDomainAssign assigns x to xOut. Barrett has no special domain.
func (e *Barrett) FromDomainAssign(x, xOut *big.Int) {
	xOut.Set(x)
}

// Reduce returns x mod N.
// The input must be in the range [0, N^2).
func (e *Barrett) Reduce(x *big.Int) *big.Int {
	zOut := big.NewInt(0)
	e.ReduceAssign(x, zOut)
	return zOut
}

// ReduceAssign assigns x mod N to zOut.
// The input must be in the range [0, N^2).
func (e *Barrett) ReduceAssign(x, zOut *big.Int) {
	if x.Sign() < 0 || x.Cmp(e.bound) >= 0 {
		panic("input must be in the range [0, N^2)")
	}

	// q = ((x >> k) * mu) >> k
	e.quo.Rsh(x, e.k)
	e.quo.Mul(e.quo, e.mu)
	e.quo.Rsh(e.quo, e.k)
	e.quoQ.Mul(e.quo, e.modulus)

	zOut.Sub(x, e.quoQ)
	for zOut.Cmp(e.modulus) >= 0 {
		zOut.Sub(zOut, e.modulus)
	}
}

// Mul returns a * b mod N.
func (e *Barrett) Mul(a, b *big.Int) *big.Int {
	zOut := big.NewInt(0)
	e.MulAssign(a, b, zOut)
	return zOut
}

// MulAssign assigns a * b mod N to zOut.
// The inputs must be in the range [0, N).
func (e *Barrett) MulAssign(a, b, zOut *big.Int) {
	e.mul.Mul(a, b)
	e.ReduceAssign(e.mul, zOut)
}

// AddAssign assigns a + b mod N to zOut with a single conditional
// subtraction. The inputs must be in the range [0, N).
func (e *Barrett) AddAssign(a, b, zOut *big.Int) {
	zOut.Add(a, b)
	if zOut.Cmp(e.modulus) >= 0 {
		zOut.Sub(zOut, e.modulus)
	}
}
