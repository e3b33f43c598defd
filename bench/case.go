// Package bench drives the modred engines over a set of benchmark moduli,
// verifies that every engine agrees with the naive reference, and times them.
package bench

import (
	"math/big"

	"github.com/bits-and-blooms/bitset"
	"github.com/tuneinsight/lattigo/v6/utils/bignum"
)

// Case is a named modulus measured by the harness.
type Case struct {
	// Name identifies the modulus in reports.
	Name string
	// Modulus is the modulus the engines reduce by.
	Modulus *big.Int
}

var (
	// CaseBabyBear is the 31-bit BabyBear prime 2^31 - 2^27 + 1.
	CaseBabyBear = Case{Name: "babybear-31", Modulus: bignum.NewInt("2013265921")}

	// CaseGoldilocks is the 64-bit Goldilocks prime 2^64 - 2^32 + 1.
	CaseGoldilocks = Case{Name: "goldilocks-64", Modulus: bignum.NewInt("18446744069414584321")}

	// CaseMersenne127 is the Mersenne prime 2^127 - 1.
	CaseMersenne127 = Case{Name: "mersenne-127", Modulus: bignum.NewInt("170141183460469231731687303715884105727")}

	// CaseWide129 is the first prime above 2^128, 2^128 + 51.
	CaseWide129 = Case{Name: "wide-129", Modulus: bignum.NewInt("340282366920938463463374607431768211507")}

	// CaseCurve25519 is the 255-bit prime 2^255 - 19.
	CaseCurve25519 = Case{Name: "curve25519-255", Modulus: bignum.NewInt("57896044618658097711785492504343953926634992332820282019728792003956564819949")}
)

// DefaultCases returns the benchmark moduli in ascending bit length,
// from 31 to 255 bits.
func DefaultCases() []Case {
	return []Case{CaseBabyBear, CaseGoldilocks, CaseMersenne127, CaseWide129, CaseCurve25519}
}

// FilterByBits returns the cases whose modulus bit length appears in bits.
// An empty bits list returns cases unchanged.
func FilterByBits(cases []Case, bits ...int) []Case {
	if len(bits) == 0 {
		return cases
	}

	set := bitset.New(256)
	for _, b := range bits {
		if b > 0 {
			set.Set(uint(b))
		}
	}

	filtered := make([]Case, 0, len(cases))
	for _, c := range cases {
		if set.Test(uint(c.Modulus.BitLen())) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}
