package bench

import (
	"runtime"
	"sync"
)

// DefaultIterations is the number of multiplications sampled per
// case and mode.
const DefaultIterations = 1000

// Config controls a harness run.
type Config struct {
	// Iterations is the number of multiplications per case and mode.
	// Zero or negative falls back to DefaultIterations.
	Iterations int
	// Seed derives the operand streams. Runs with the same seed,
	// cases and modes sample identical workloads regardless of the
	// worker count. An empty seed draws fresh unpredictable streams.
	Seed []byte
	// Modes lists the measurement modes to run. Empty means all.
	Modes []Mode
	// Workers caps the number of concurrent jobs. Zero or negative
	// means one worker per CPU.
	Workers int
}

// RunAll measures every case under every configured mode and returns
// the results in case-major, mode-minor order. Each (case, mode) pair
// is an independent job; jobs run concurrently but results come back
// as if they had run serially.
func RunAll(cases []Case, cfg Config) ([]Result, error) {
	iterations := cfg.Iterations
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	modes := cfg.Modes
	if len(modes) == 0 {
		modes = AllModes()
	}

	type job struct {
		idx  int
		c    Case
		mode Mode
	}

	jobs := make([]job, 0, len(cases)*len(modes))
	for _, c := range cases {
		for _, mode := range modes {
			jobs = append(jobs, job{idx: len(jobs), c: c, mode: mode})
		}
	}
	if len(jobs) == 0 {
		return nil, nil
	}

	resultsPerJob := make([][]Result, len(jobs))

	workSize := cfg.Workers
	if workSize <= 0 {
		workSize = runtime.NumCPU()
	}
	workSize = min(workSize, len(jobs))

	if workSize == 1 {
		for _, jb := range jobs {
			rs, err := runJob(jb.c, jb.mode, iterations, cfg.Seed)
			if err != nil {
				return nil, err
			}
			resultsPerJob[jb.idx] = rs
		}
	} else {
		jobChan := make(chan job)
		go func() {
			defer close(jobChan)
			for _, jb := range jobs {
				jobChan <- jb
			}
		}()

		var wg sync.WaitGroup
		wg.Add(workSize)

		errs := make([]error, workSize)
		for i := 0; i < workSize; i++ {
			go func(idx int) {
				defer wg.Done()

				for jb := range jobChan {
					if errs[idx] != nil {
						continue
					}
					rs, err := runJob(jb.c, jb.mode, iterations, cfg.Seed)
					if err != nil {
						errs[idx] = err
						continue
					}
					resultsPerJob[jb.idx] = rs
				}
			}(i)
		}

		wg.Wait()

		for _, err := range errs {
			if err != nil {
				return nil, err
			}
		}
	}

	results := make([]Result, 0, 3*len(jobs))
	for _, rs := range resultsPerJob {
		results = append(results, rs...)
	}
	return results, nil
}

// runJob samples the workload for one (case, mode) pair and measures
// the three engines over it.
func runJob(c Case, mode Mode, iterations int, seed []byte) ([]Result, error) {
	src := newJobSampler(seed, c, mode)
	w := SampleWorkload(src, c.Modulus, iterations)
	return Run(c, mode, w)
}
