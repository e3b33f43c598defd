// Package num implements various utility functions regarding numeric types.
package num

import (
	"math/big"

	"github.com/pkg/errors"
)

// ErrInverseNotFound is returned when the modular inverse does not exist.
var ErrInverseNotFound = errors.New("modular inverse does not exist")

// ModInverse returns the modular inverse of x modulo m,
// computed with the extended Euclidean algorithm.
// Output is always in the range [0, m).
// Returns ErrInverseNotFound if x and m are not coprime.
func ModInverse(x, m *big.Int) (*big.Int, error) {
	if m == nil || m.Sign() <= 0 {
		return nil, errors.Wrapf(ErrInverseNotFound, "modulus %v is not positive", m)
	}

	a := big.NewInt(0).Mod(x, m)
	b := big.NewInt(0).Set(m)
	u := big.NewInt(1)
	v := big.NewInt(0)

	q := big.NewInt(0)
	r := big.NewInt(0)
	t := big.NewInt(0)
	for b.Sign() != 0 {
		q.QuoRem(a, b, r)
		a, b, r = b, r, a

		t.Mul(q, v)
		u.Sub(u, t)
		u, v = v, u
	}

	if a.Cmp(big.NewInt(1)) != 0 {
		return nil, errors.Wrapf(ErrInverseNotFound, "gcd(%v, %v) = %v", x, m, a)
	}

	return u.Mod(u, m), nil
}
