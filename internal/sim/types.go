package sim

import (
	"fmt"

	"github.com/san-kum/sphsim/internal/sph"
)

// Stepper advances a particle store by one time step. *sph.Solver satisfies it.
type Stepper interface {
	Step(ps sph.Particles) (sph.StepStats, error)
	Params() sph.Params
}

type Metric interface {
	Name() string
	Observe(ps sph.Particles, stats sph.StepStats)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(step int, t float64, ps sph.Particles, stats sph.StepStats)
}

type Config struct {
	Steps int
	// SampleEvery controls how often a full frame is kept. The initial and
	// final states are always kept.
	SampleEvery   int
	ValidateState bool
}

// Frame is a snapshot of the store after Step steps.
type Frame struct {
	Step      int
	Time      float64
	Particles sph.Particles
}

// Sample is the per-step telemetry row.
type Sample struct {
	Step          int
	Time          float64
	KineticEnergy float64
	sph.StepStats
}

type Result struct {
	Frames     []Frame
	Telemetry  []Sample
	Final      sph.Particles
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}

// LastFrame returns the most recent snapshot, or false when none was taken.
func (r *Result) LastFrame() (Frame, bool) {
	if len(r.Frames) == 0 {
		return Frame{}, false
	}
	return r.Frames[len(r.Frames)-1], true
}

type SimError struct {
	Step int
	Time float64
	Err  error
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Err)
}

func (e SimError) Unwrap() error { return e.Err }
