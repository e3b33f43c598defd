package modred

import (
	"math/big"

	"github.com/pkg/errors"
)

// Naive multiplies and reduces with a full division for every product.
// It is the reference the other engines are checked against,
// and the baseline they are timed against.
type Naive struct {
	modulus *big.Int

	mul *big.Int
}

// NewNaive creates a new Naive engine for the given modulus.
// The modulus must be positive.
func NewNaive(N *big.Int) (*Naive, error) {
	if N == nil || N.Sign() <= 0 {
		return nil, errors.Wrapf(ErrInvalidModulus, "modulus %v must be positive", N)
	}

	return &Naive{
		modulus: big.NewInt(0).Set(N),

		mul: big.NewInt(0),
	}, nil
}

// ShallowCopy creates a copy of Naive that is thread-safe.
func (e *Naive) ShallowCopy() *Naive {
	return &Naive{
		modulus: e.modulus,

		mul: big.NewInt(0),
	}
}

// Name returns the name of the engine.
func (e *Naive) Name() string {
	return "naive"
}

// Modulus returns the modulus N.
// The returned value must not be modified.
func (e *Naive) Modulus() *big.Int {
	return e.modulus
}

// ToDomainAssign assigns x to xOut. Naive has no special domain.
func (e *Naive) ToDomainAssign(x, xOut *big.Int) {
	xOut.Set(x)
}

// FromDomainAssign assigns x to xOut. Naive has no special domain.
func (e *Naive) FromDomainAssign(x, xOut *big.Int) {
	xOut.Set(x)
}

// Mul returns a * b mod N.
func (e *Naive) Mul(a, b *big.Int) *big.Int {
	z := big.NewInt(0)
	e.MulAssign(a, b, z)
	return z
}

// MulAssign assigns a * b mod N to zOut.
func (e *Naive) MulAssign(a, b, zOut *big.Int) {
	e.mul.Mul(a, b)
	zOut.Mod(e.mul, e.modulus)
}

// AddAssign assigns a + b mod N to zOut.
func (e *Naive) AddAssign(a, b, zOut *big.Int) {
	e.mul.Add(a, b)
	zOut.Mod(e.mul, e.modulus)
}
