package sim

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/sphsim/internal/compute"
	"github.com/san-kum/sphsim/internal/sph"
)

// Sweep runs one scene under several neighbor capacities, the solver's
// accuracy/performance knob. Runs execute concurrently and share the backend.
type Sweep struct {
	Params  sph.Params
	Backend compute.Backend
	// Metrics builds a fresh metric set per run; metrics hold state.
	Metrics     func(sph.Params) []Metric
	Parallelism int
	Logger      *slog.Logger
}

type SweepResult struct {
	Capacity int
	Elapsed  time.Duration
	Result   *Result
}

// Run returns one entry per capacity, in input order. The first failing run
// cancels the rest.
func (sw *Sweep) Run(ctx context.Context, ps sph.Particles, capacities []int, cfg Config) ([]SweepResult, error) {
	if len(capacities) == 0 {
		return nil, fmt.Errorf("sweep: no capacities given")
	}
	logger := sw.Logger
	if logger == nil {
		logger = slog.Default()
	}
	backend := sw.Backend
	if backend == nil {
		backend = compute.AutoSelect(0)
	}

	results := make([]SweepResult, len(capacities))
	g, gctx := errgroup.WithContext(ctx)
	if sw.Parallelism > 0 {
		g.SetLimit(sw.Parallelism)
	}

	for i, k := range capacities {
		i, k := i, k
		g.Go(func() error {
			p := sw.Params
			p.NeighborCapacity = k
			log := logger.With("capacity", k)

			solver, err := sph.NewSolver(p, sph.NewNeighborIndex(len(ps), k),
				sph.WithBackend(backend), sph.WithLogger(log))
			if err != nil {
				return fmt.Errorf("capacity %d: %w", k, err)
			}

			s := New(solver, log)
			if sw.Metrics != nil {
				for _, m := range sw.Metrics(p) {
					s.AddMetric(m)
				}
			}

			start := time.Now()
			res, err := s.Run(gctx, ps, cfg)
			if err != nil {
				return fmt.Errorf("capacity %d: %w", k, err)
			}
			results[i] = SweepResult{Capacity: k, Elapsed: time.Since(start), Result: res}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
