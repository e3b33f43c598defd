// Package scalar implements arithmetic over the residues of a fixed modulus.
//
// A [Field] keeps every value canonical, in the range [0, N). It is a
// convenience layer over the reduction engines of package modred:
// multiplication goes through Barrett reduction, exponentiation through a
// Montgomery ladder when the modulus is odd.
package scalar

import (
	"math/big"

	"github.com/chancehudson/moduli-comparison/modred"
	"github.com/chancehudson/moduli-comparison/num"
)

// Field performs modular arithmetic over canonical residues.
//
// Inputs are assumed canonical unless stated otherwise; outputs are always
// canonical. A Field holds scratch buffers and is not safe for concurrent
// use; use ShallowCopy to share one across goroutines.
type Field struct {
	modulus *big.Int

	barrett    *modred.Barrett
	montgomery *modred.Montgomery

	modSq *big.Int
}

// NewField creates a new Field for the given modulus.
// The modulus must be positive; even moduli are supported,
// but exponentiate without the Montgomery ladder.
func NewField(N *big.Int) (*Field, error) {
	barrett, err := modred.NewBarrett(N)
	if err != nil {
		return nil, err
	}

	var montgomery *modred.Montgomery
	if N.Bit(0) == 1 {
		montgomery, err = modred.NewMontgomery(N)
		if err != nil {
			return nil, err
		}
	}

	return &Field{
		modulus: barrett.Modulus(),

		barrett:    barrett,
		montgomery: montgomery,

		modSq: big.NewInt(0).Mul(N, N),
	}, nil
}

// ShallowCopy creates a copy of Field that is thread-safe.
func (f *Field) ShallowCopy() *Field {
	var montgomery *modred.Montgomery
	if f.montgomery != nil {
		montgomery = f.montgomery.ShallowCopy()
	}

	return &Field{
		modulus: f.modulus,

		barrett:    f.barrett.ShallowCopy(),
		montgomery: montgomery,

		modSq: f.modSq,
	}
}

// Modulus returns the modulus N.
// The returned value must not be modified.
func (f *Field) Modulus() *big.Int {
	return f.modulus
}

// Add returns a + b mod N.
func (f *Field) Add(a, b *big.Int) *big.Int {
	z := big.NewInt(0)
	f.AddAssign(a, b, z)
	return z
}

// AddAssign assigns a + b mod N to zOut.
func (f *Field) AddAssign(a, b, zOut *big.Int) {
	f.barrett.AddAssign(a, b, zOut)
}

// Sub returns a - b mod N.
func (f *Field) Sub(a, b *big.Int) *big.Int {
	z := big.NewInt(0)
	f.SubAssign(a, b, z)
	return z
}

// SubAssign assigns a - b mod N to zOut.
func (f *Field) SubAssign(a, b, zOut *big.Int) {
	zOut.Sub(a, b)
	if zOut.Sign() < 0 {
		zOut.Add(zOut, f.modulus)
	}
}

// Neg returns -x mod N.
func (f *Field) Neg(x *big.Int) *big.Int {
	z := big.NewInt(0)
	f.NegAssign(x, z)
	return z
}

// NegAssign assigns -x mod N to zOut.
func (f *Field) NegAssign(x, zOut *big.Int) {
	if x.Sign() == 0 {
		zOut.SetInt64(0)
		return
	}
	zOut.Sub(f.modulus, x)
}

// Mul returns a * b mod N.
func (f *Field) Mul(a, b *big.Int) *big.Int {
	z := big.NewInt(0)
	f.MulAssign(a, b, z)
	return z
}

// MulAssign assigns a * b mod N to zOut.
func (f *Field) MulAssign(a, b, zOut *big.Int) {
	f.barrett.MulAssign(a, b, zOut)
}

// Exp returns x^y mod N. The exponent must be non-negative.
func (f *Field) Exp(x, y *big.Int) *big.Int {
	z := big.NewInt(0)
	f.ExpAssign(x, y, z)
	return z
}

// ExpAssign assigns x^y mod N to zOut. The exponent must be non-negative.
func (f *Field) ExpAssign(x, y, zOut *big.Int) {
	if f.montgomery != nil {
		f.montgomery.ExpAssign(x, y, zOut)
		return
	}
	zOut.Exp(x, y, f.modulus)
}

// Inv returns the multiplicative inverse of x mod N.
// Returns num.ErrInverseNotFound if x and N are not coprime.
func (f *Field) Inv(x *big.Int) (*big.Int, error) {
	return num.ModInverse(x, f.modulus)
}

// Reduce returns x mod N for any non-negative x.
func (f *Field) Reduce(x *big.Int) *big.Int {
	z := big.NewInt(0)
	f.ReduceAssign(x, z)
	return z
}

// ReduceAssign assigns x mod N to zOut for any non-negative x.
// Inputs below N^2 go through Barrett reduction; anything larger falls back
// to a full division.
func (f *Field) ReduceAssign(x, zOut *big.Int) {
	if x.Sign() >= 0 && x.Cmp(f.modulus) < 0 {
		zOut.Set(x)
		return
	}

	if x.Sign() >= 0 && x.Cmp(f.modSq) < 0 {
		f.barrett.ReduceAssign(x, zOut)
		return
	}

	zOut.Mod(x, f.modulus)
}
