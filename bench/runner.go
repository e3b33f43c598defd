package bench

import (
	"math/big"
	"time"

	"github.com/pkg/errors"

	"github.com/chancehudson/moduli-comparison/modred"
)

// Mode selects how the harness drives an engine.
type Mode int

const (
	// ModeFold multiplies a running product by each operand in turn.
	// Domain conversions happen inside the timed span.
	ModeFold Mode = iota
	// ModePairwise multiplies independent operand pairs. Operands are
	// converted into the engine's domain before timing starts; each
	// product is converted back inside the timed span.
	ModePairwise
	// ModeMulSum multiplies operand pairs and sums the products without
	// leaving the engine's domain, converting the final sum back once.
	ModeMulSum
)

// AllModes returns every measurement mode.
func AllModes() []Mode {
	return []Mode{ModeFold, ModePairwise, ModeMulSum}
}

// String returns the name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeFold:
		return "fold"
	case ModePairwise:
		return "pairwise"
	case ModeMulSum:
		return "mulsum"
	}
	return "unknown"
}

// ParseMode parses a mode name.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "fold":
		return ModeFold, nil
	case "pairwise":
		return ModePairwise, nil
	case "mulsum":
		return ModeMulSum, nil
	}
	return 0, errors.Errorf("unknown mode %q", s)
}

// Result is the outcome of one engine over one case and mode.
type Result struct {
	// Case and Mode identify the measurement; Engine is the engine name.
	Case   Case
	Mode   Mode
	Engine string

	// Ops is the number of modular multiplications in the timed span.
	Ops int
	// Elapsed is the wall time of the timed span.
	Elapsed time.Duration
	// Output is the last value the engine produced.
	Output *big.Int
	// Verified reports that the outputs matched the reference.
	// The reference engine itself is trivially verified.
	Verified bool
}

// Run builds the three engines for c and measures them under mode.
// The first result is always the naive reference.
func Run(c Case, mode Mode, w Workload) ([]Result, error) {
	naive, err := modred.NewNaive(c.Modulus)
	if err != nil {
		return nil, err
	}
	montgomery, err := modred.NewMontgomery(c.Modulus)
	if err != nil {
		return nil, err
	}
	barrett, err := modred.NewBarrett(c.Modulus)
	if err != nil {
		return nil, err
	}

	return RunEngines([]modred.Engine{naive, montgomery, barrett}, c, mode, w)
}

// RunEngines measures the given engines over one case and mode.
// engines[0] is the reference: every output of every other engine is
// compared against it, and any disagreement fails the whole run with
// ErrReductionMismatch.
func RunEngines(engines []modred.Engine, c Case, mode Mode, w Workload) ([]Result, error) {
	if len(engines) == 0 {
		return nil, errors.New("no engines to run")
	}
	if len(w.Xs) != len(w.Ys) {
		return nil, errors.Errorf("workload has %d xs but %d ys", len(w.Xs), len(w.Ys))
	}

	results := make([]Result, len(engines))
	var ref []*big.Int
	for i, e := range engines {
		var outs []*big.Int
		var elapsed time.Duration
		switch mode {
		case ModeFold:
			outs, elapsed = runFold(e, w)
		case ModePairwise:
			outs, elapsed = runPairwise(e, w)
		case ModeMulSum:
			outs, elapsed = runMulSum(e, w)
		default:
			return nil, errors.Errorf("unknown mode %d", mode)
		}

		if i == 0 {
			ref = outs
		} else {
			for j := range outs {
				if outs[j].Cmp(ref[j]) != 0 {
					return nil, errors.Wrapf(ErrReductionMismatch,
						"engine %s disagrees with %s on case %s mode %s at index %d: got %v, want %v",
						e.Name(), engines[0].Name(), c.Name, mode, j, outs[j], ref[j])
				}
			}
		}

		var out *big.Int
		if len(outs) > 0 {
			out = outs[len(outs)-1]
		}
		results[i] = Result{
			Case:   c,
			Mode:   mode,
			Engine: e.Name(),

			Ops:      len(w.Xs),
			Elapsed:  elapsed,
			Output:   out,
			Verified: true,
		}
	}

	return results, nil
}

// runFold folds the operand stream into a single product.
// F(x0, xs) = x0 * xs[0] * ... * xs[n-1] mod N.
func runFold(e modred.Engine, w Workload) ([]*big.Int, time.Duration) {
	acc := big.NewInt(0)
	tmp := big.NewInt(0)

	start := time.Now()
	e.ToDomainAssign(w.X0, acc)
	for _, x := range w.Xs {
		e.ToDomainAssign(x, tmp)
		e.MulAssign(acc, tmp, acc)
	}
	e.FromDomainAssign(acc, acc)
	elapsed := time.Since(start)

	return []*big.Int{acc}, elapsed
}

// runPairwise multiplies each operand pair independently.
func runPairwise(e modred.Engine, w Workload) ([]*big.Int, time.Duration) {
	xs, ys := toDomainPairs(e, w)
	outs := make([]*big.Int, len(xs))
	for i := range outs {
		outs[i] = big.NewInt(0)
	}

	start := time.Now()
	for i := range xs {
		e.MulAssign(xs[i], ys[i], outs[i])
		e.FromDomainAssign(outs[i], outs[i])
	}
	elapsed := time.Since(start)

	return outs, elapsed
}

// runMulSum multiplies each operand pair and sums the products.
func runMulSum(e modred.Engine, w Workload) ([]*big.Int, time.Duration) {
	xs, ys := toDomainPairs(e, w)
	sum := big.NewInt(0)
	tmp := big.NewInt(0)

	start := time.Now()
	for i := range xs {
		e.MulAssign(xs[i], ys[i], tmp)
		if i == 0 {
			sum.Set(tmp)
		} else {
			e.AddAssign(sum, tmp, sum)
		}
	}
	e.FromDomainAssign(sum, sum)
	elapsed := time.Since(start)

	return []*big.Int{sum}, elapsed
}

// toDomainPairs converts the operand streams into the engine's domain,
// outside of any timed span.
func toDomainPairs(e modred.Engine, w Workload) (xs, ys []*big.Int) {
	xs = make([]*big.Int, len(w.Xs))
	ys = make([]*big.Int, len(w.Ys))
	for i := range w.Xs {
		xs[i] = big.NewInt(0)
		ys[i] = big.NewInt(0)
		e.ToDomainAssign(w.Xs[i], xs[i])
		e.ToDomainAssign(w.Ys[i], ys[i])
	}
	return xs, ys
}
