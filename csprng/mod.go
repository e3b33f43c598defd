package csprng

import (
	"io"
	"math/big"
)

// Sampler is a uniform source of randomness.
// Both [UniformSampler] and [StreamSampler] implement Sampler.
type Sampler interface {
	io.Reader

	// Sample uniformly samples a random uint64.
	Sample() uint64
	// SampleN uniformly samples a random integer in [0, N).
	SampleN(N uint64) uint64
}

var (
	_ Sampler = (*UniformSampler)(nil)
	_ Sampler = (*StreamSampler)(nil)
)

// ModSampler samples values modulo a fixed modulus by rejection sampling.
// The top byte of each candidate is masked to the bit length of the modulus,
// so the expected number of draws per sample is less than two.
type ModSampler struct {
	Sampler

	modulus *big.Int

	modBuf  []byte
	msbMask byte
}

// NewModSampler creates a new ModSampler over the given source.
//
// Panics when modulus is not positive.
func NewModSampler(s Sampler, modulus *big.Int) *ModSampler {
	if modulus == nil || modulus.Sign() <= 0 {
		panic("modulus must be positive")
	}

	k := (modulus.BitLen() + 7) / 8
	b := uint(modulus.BitLen() % 8)
	if b == 0 {
		b = 8
	}

	return &ModSampler{
		Sampler: s,

		modulus: big.NewInt(0).Set(modulus),

		modBuf:  make([]byte, k),
		msbMask: byte((1 << b) - 1),
	}
}

// Modulus returns the modulus of the ModSampler.
// The returned value must not be modified.
func (s *ModSampler) Modulus() *big.Int {
	return s.modulus
}

// SampleMod samples a uniformly random value modulo modulus.
func (s *ModSampler) SampleMod() *big.Int {
	r := big.NewInt(0)
	s.SampleModAssign(r)
	return r
}

// SampleModAssign samples a uniformly random value modulo modulus.
func (s *ModSampler) SampleModAssign(xOut *big.Int) {
	for {
		if _, err := io.ReadFull(s, s.modBuf); err != nil {
			panic(err)
		}

		s.modBuf[0] &= s.msbMask

		xOut.SetBytes(s.modBuf)
		if xOut.Cmp(s.modulus) < 0 {
			return
		}
	}
}
