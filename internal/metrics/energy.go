package metrics

import (
	"math"

	"github.com/san-kum/sphsim/internal/sim"
	"github.com/san-kum/sphsim/internal/sph"
)

var (
	_ sim.Metric = (*KineticEnergy)(nil)
	_ sim.Metric = (*EnergyDrift)(nil)
)

// KineticEnergy reports Σ ½ m |v|² of the last observed step.
type KineticEnergy struct {
	name    string
	samples int
	last    float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(ps sph.Particles, _ sph.StepStats) {
	e.last = ps.KineticEnergy()
	e.samples++
}

func (e *KineticEnergy) Value() float64 { return e.last }

func (e *KineticEnergy) Reset() {
	e.last = 0
	e.samples = 0
}

// EnergyDrift tracks the largest relative change of kinetic plus
// gravitational potential energy against the first observation. Wall
// damping and viscosity make it grow; a jump flags an unstable time step.
type EnergyDrift struct {
	name     string
	gravity  float64
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift(gravity float64) *EnergyDrift {
	return &EnergyDrift{name: "energy_drift", gravity: gravity}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(ps sph.Particles, _ sph.StepStats) {
	energy := ps.KineticEnergy()
	for i := range ps {
		energy += ps[i].Mass * e.gravity * ps[i].Position.Y
	}

	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}
