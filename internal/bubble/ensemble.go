package bubble

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Ensemble runs the same items under consecutive layout seeds, each on its
// own engine.
type Ensemble struct {
	params    Params
	numRuns   int
	seedStart int64
	// metrics builds a fresh metric set per run; metrics are stateful.
	metrics func() []Metric
}

func NewEnsemble(p Params, numRuns int, seedStart int64, metrics func() []Metric) *Ensemble {
	return &Ensemble{params: p, numRuns: numRuns, seedStart: seedStart, metrics: metrics}
}

// Run returns one result per seed, in seed order. The first failing run
// cancels the rest.
func (e *Ensemble) Run(ctx context.Context, items []Item, w, h float64, cfg RunConfig) ([]*Result, error) {
	if err := validateRun(cfg); err != nil {
		return nil, err
	}
	if e.numRuns < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrNoRuns, e.numRuns)
	}
	results := make([]*Result, e.numRuns)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < e.numRuns; i++ {
		g.Go(func() error {
			p := e.params
			p.Seed = e.seedStart + int64(i)

			engine := NewEngine(p)
			engine.Mount(items, w, h)
			r := NewRunner(engine)
			if e.metrics != nil {
				for _, m := range e.metrics() {
					r.AddMetric(m)
				}
			}

			res, err := r.Run(gctx, cfg)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
