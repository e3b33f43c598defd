// Package modred implements modular multiplication over a fixed modulus
// with three interchangeable reduction strategies:
//
//   - [Naive], which divides by the modulus for every product.
//   - [Montgomery], which maps residues into the Montgomery domain
//     and reduces with shifts, masks and multiplications (REDC).
//   - [Barrett], which estimates the quotient with a precomputed
//     reciprocal and corrects with at most a few subtractions.
//
// All three expose the same [Engine] interface, so a product computed by
// one engine can be checked against another. Montgomery is the only engine
// with a non-trivial domain: operands must pass through ToDomainAssign
// before multiplication and FromDomainAssign after.
//
// Engines hold scratch buffers and are not safe for concurrent use.
// Every engine provides a ShallowCopy method which returns a copy that
// shares the read-only parameters but owns its scratch space.
package modred

import "math/big"

// Engine is a modular multiplication engine over a fixed modulus.
//
// Values passed to MulAssign and AddAssign must be in the engine's domain
// and in the range [0, N). Outputs are always in [0, N).
type Engine interface {
	// Name returns the name of the engine.
	Name() string
	// Modulus returns the modulus N.
	// The returned value must not be modified.
	Modulus() *big.Int

	// ToDomainAssign converts x to the engine's domain and assigns it to xOut.
	ToDomainAssign(x, xOut *big.Int)
	// FromDomainAssign converts x out of the engine's domain and assigns it to xOut.
	FromDomainAssign(x, xOut *big.Int)

	// MulAssign multiplies a and b in the engine's domain and assigns it to zOut.
	MulAssign(a, b, zOut *big.Int)
	// AddAssign adds a and b in the engine's domain and assigns it to zOut.
	AddAssign(a, b, zOut *big.Int)
}

var (
	_ Engine = (*Naive)(nil)
	_ Engine = (*Montgomery)(nil)
	_ Engine = (*Barrett)(nil)
)
