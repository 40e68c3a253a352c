package sim

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/sphsim/internal/sph"
)

type Simulator struct {
	stepper   Stepper
	metrics   []Metric
	observers []Observer
	logger    *slog.Logger
}

// New wraps a stepper. A nil logger falls back to slog.Default.
func New(stepper Stepper, logger *slog.Logger) *Simulator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Simulator{
		stepper:   stepper,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    logger,
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run steps a copy of ps cfg.Steps times. The caller's store is not modified.
// A step error aborts the run and is returned alongside the partial result;
// an invalid state only stops the run and is recorded in Result.Errors.
func (s *Simulator) Run(ctx context.Context, ps sph.Particles, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	sampleCap := cfg.Steps/cfg.SampleEvery + 2
	result := &Result{
		Frames:    make([]Frame, 0, sampleCap),
		Telemetry: make([]Sample, 0, cfg.Steps),
		Metrics:   make(map[string]float64),
		Errors:    make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := ps.Clone()
	t := 0.0
	dt := s.stepper.Params().Dt
	result.Frames = append(result.Frames, Frame{Step: 0, Time: t, Particles: x.Clone()})

	log := s.logger.With("particles", len(x), "steps", cfg.Steps)
	log.Debug("run started", "dt", dt)

	var totalOverflow uint64
	for i := 1; i <= cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			result.Final = x
			s.collectMetrics(result)
			return result, ctx.Err()
		default:
		}

		stats, err := s.stepper.Step(x)
		if err != nil {
			result.Final = x
			s.collectMetrics(result)
			return result, SimError{Step: i, Time: t, Err: err}
		}
		t += dt
		result.StepsTaken++
		totalOverflow += stats.Overflows

		for _, m := range s.metrics {
			m.Observe(x, stats)
		}
		for _, obs := range s.observers {
			obs.OnStep(i, t, x, stats)
		}
		result.Telemetry = append(result.Telemetry, Sample{
			Step:          i,
			Time:          t,
			KineticEnergy: x.KineticEnergy(),
			StepStats:     stats,
		})

		if cfg.ValidateState {
			if err := x.Validate(); err != nil {
				simErr := SimError{Step: i, Time: t, Err: err}
				result.Errors = append(result.Errors, simErr)
				log.Warn("invalid state, stopping", "step", i, "err", err)
				break
			}
		}

		if i%cfg.SampleEvery == 0 {
			result.Frames = append(result.Frames, Frame{Step: i, Time: t, Particles: x.Clone()})
		}
	}

	if last, _ := result.LastFrame(); last.Step != result.StepsTaken {
		result.Frames = append(result.Frames, Frame{Step: result.StepsTaken, Time: t, Particles: x.Clone()})
	}

	result.Final = x
	s.collectMetrics(result)
	log.Info("run complete",
		"steps_taken", result.StepsTaken,
		"frames", len(result.Frames),
		"overflows", totalOverflow,
	)
	return result, nil
}

func (s *Simulator) collectMetrics(r *Result) {
	for _, m := range s.metrics {
		r.Metrics[m.Name()] = m.Value()
	}
}

func validateConfig(cfg Config) error {
	if cfg.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", cfg.Steps)
	}
	if cfg.SampleEvery <= 0 {
		return fmt.Errorf("sample interval must be positive, got %d", cfg.SampleEvery)
	}
	return nil
}
