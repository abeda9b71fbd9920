package sim

import (
	"context"
	"sync"
)

// Factory produces an independent simulator and initial state for one
// ensemble member. A constraint set and the model it is bound to are one unit
// of mutable state, so every member needs its own pair.
type Factory func() (*Simulator, []float64, []float64, error)

// Ensemble runs the same scene many times in parallel with perturbed initial
// conditions, for basin-of-attraction and sensitivity studies.
type Ensemble struct {
	factory Factory
	numRuns int
	perturb func(run int, q, qdot []float64)
}

func NewEnsemble(factory Factory, numRuns int, perturb func(run int, q, qdot []float64)) *Ensemble {
	return &Ensemble{factory: factory, numRuns: numRuns, perturb: perturb}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			sim, q, qdot, err := e.factory()
			if err != nil {
				errs[idx] = err
				return
			}
			if e.perturb != nil {
				e.perturb(idx, q, qdot)
			}
			results[idx], errs[idx] = sim.Run(ctx, q, qdot, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	return results, nil
}
