package bench

import (
	"math/big"

	"github.com/chancehudson/moduli-comparison/csprng"
)

// Workload is the sampled input batch for one measurement.
// Sampling happens before timing starts, so the cost of randomness never
// leaks into the measured span.
type Workload struct {
	// X0 seeds the running product of the fold mode.
	X0 *big.Int
	// Xs and Ys are the operand streams, one pair per operation.
	Xs []*big.Int
	Ys []*big.Int
}

// SampleWorkload samples a workload of n operand pairs below modulus,
// drawing randomness from src.
func SampleWorkload(src csprng.Sampler, modulus *big.Int, n int) Workload {
	s := csprng.NewModSampler(src, modulus)

	w := Workload{
		X0: s.SampleMod(),
		Xs: make([]*big.Int, n),
		Ys: make([]*big.Int, n),
	}
	for i := 0; i < n; i++ {
		w.Xs[i] = s.SampleMod()
		w.Ys[i] = s.SampleMod()
	}
	return w
}

// newJobSampler derives the randomness source for one (case, mode) job.
// With a seed, the job coordinates are absorbed into a seeded XOF, so runs
// are reproducible for any worker count. Without one, each job draws fresh
// entropy.
func newJobSampler(seed []byte, c Case, mode Mode) csprng.Sampler {
	if len(seed) == 0 {
		return csprng.NewStreamSampler()
	}

	s := csprng.NewUniformSamplerWithSeed(seed)
	s.WriteString(c.Name)
	s.WriteString(mode.String())
	s.Finalize()
	return s
}
