package sph

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/san-kum/sphsim/internal/compute"
)

// StepStats reports the numerical edge cases absorbed during one step.
type StepStats struct {
	Overflows          uint64 // neighbors dropped because a list was full
	ZeroDensitySkips   uint64 // neighbors skipped in the force pass for zero density
	DegenerateContacts uint64 // coincident neighbor pairs (zero pressure contribution)
	MaxNeighbors       int
}

// Solver runs the pipeline for a fixed particle count over a neighbor index
// it does not own.
type Solver struct {
	params  Params
	kernels Kernels
	index   *NeighborIndex
	backend compute.Backend
	logger  *slog.Logger

	zeroDensity atomic.Uint64
	degenerate  atomic.Uint64
}

type Option func(*Solver)

// WithBackend selects the dispatch backend. The default is compute.AutoSelect(0).
func WithBackend(b compute.Backend) Option {
	return func(s *Solver) { s.backend = b }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Solver) { s.logger = l }
}

func NewSolver(params Params, index *NeighborIndex, opts ...Option) (*Solver, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if index == nil {
		return nil, fmt.Errorf("%w: nil neighbor index", ErrBufferMismatch)
	}
	if index.Capacity() != params.NeighborCapacity {
		return nil, fmt.Errorf("%w: index capacity %d, params capacity %d",
			ErrBufferMismatch, index.Capacity(), params.NeighborCapacity)
	}
	s := &Solver{
		params:  params,
		kernels: NewKernels(params.SmoothingRadius),
		index:   index,
	}
	for _, o := range opts {
		o(s)
	}
	if s.backend == nil {
		s.backend = compute.AutoSelect(0)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}

func (s *Solver) Params() Params           { return s.params }
func (s *Solver) Index() *NeighborIndex    { return s.index }
func (s *Solver) Backend() compute.Backend { return s.backend }

// SetParams swaps the configuration between steps. The neighbor capacity is
// fixed by the index buffer and cannot change here.
func (s *Solver) SetParams(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.NeighborCapacity != s.index.Capacity() {
		return fmt.Errorf("%w: neighbor capacity is fixed at %d", ErrBufferMismatch, s.index.Capacity())
	}
	s.params = p
	s.kernels = NewKernels(p.SmoothingRadius)
	return nil
}

func (s *Solver) checkBuffers(ps Particles) error {
	if uint64(len(ps)) >= uint64(Empty) {
		return fmt.Errorf("%w: %d particles", ErrTooManyParticles, len(ps))
	}
	if s.index.Len() != len(ps) {
		return fmt.Errorf("%w: %d particles, index sized for %d", ErrBufferMismatch, len(ps), s.index.Len())
	}
	return nil
}

// Dispatch runs a single pass over ps with the given grid shape and returns
// once every work item has completed. The shape must match pass.Grid.
func (s *Solver) Dispatch(pass Pass, ps Particles, gx, gy int) error {
	if err := s.checkBuffers(ps); err != nil {
		return err
	}
	if wx, wy := pass.Grid(len(ps)); gx != wx || gy != wy {
		return fmt.Errorf("%w: %s wants %dx%d, got %dx%d", ErrDispatchShape, pass, wx, wy, gx, gy)
	}
	s.run(pass, ps)
	return nil
}

func (s *Solver) run(pass Pass, ps Particles) {
	n := len(ps)
	switch pass {
	case PassClear:
		s.index.Clear(s.backend)
	case PassBuild:
		s.index.Build(s.backend, ps, s.params.SmoothingRadius)
	case PassDensity:
		s.backend.For(n, func(i int) { s.densityPressure(ps, i) })
	case PassForces:
		s.backend.For(n, func(i int) { s.accumulateForces(ps, i) })
	case PassIntegrate:
		s.backend.For(n, func(i int) { s.integrate(ps, i) })
	case PassReflect:
		s.backend.For(n, func(i int) { s.reflect(ps, i) })
	}
}

// Step validates the store, then runs every pass of the pipeline once.
// Structural problems are reported before any pass executes; on error the
// store is untouched.
func (s *Solver) Step(ps Particles) (StepStats, error) {
	if err := s.checkBuffers(ps); err != nil {
		return StepStats{}, err
	}
	if err := ps.Validate(); err != nil {
		return StepStats{}, err
	}

	s.zeroDensity.Store(0)
	s.degenerate.Store(0)

	for _, pass := range Pipeline {
		s.run(pass, ps)
	}

	stats := StepStats{
		Overflows:          s.index.Overflows(),
		ZeroDensitySkips:   s.zeroDensity.Load(),
		DegenerateContacts: s.degenerate.Load(),
	}
	for i := range ps {
		if c := s.index.Count(i); c > stats.MaxNeighbors {
			stats.MaxNeighbors = c
		}
	}
	if stats.Overflows > 0 {
		s.logger.Debug("neighbor capacity exhausted",
			slog.Uint64("dropped", stats.Overflows),
			slog.Int("capacity", s.index.Capacity()))
	}
	return stats, nil
}

// Step runs one pipeline step over ps with a freshly allocated neighbor index.
func Step(ps Particles, params Params) (StepStats, error) {
	if params.NeighborCapacity <= 0 {
		return StepStats{}, fmt.Errorf("%w: neighbor_capacity = %d", ErrInvalidParams, params.NeighborCapacity)
	}
	s, err := NewSolver(params, NewNeighborIndex(len(ps), params.NeighborCapacity))
	if err != nil {
		return StepStats{}, err
	}
	return s.Step(ps)
}
