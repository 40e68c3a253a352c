package metrics

import (
	"github.com/san-kum/sphsim/internal/sim"
	"github.com/san-kum/sphsim/internal/sph"
)

// Standard returns the metric set every run records.
func Standard(p sph.Params) []sim.Metric {
	return []sim.Metric{
		NewKineticEnergy(),
		NewEnergyDrift(p.Gravity),
		NewDensityStats(),
		NewOverflow(),
		NewContainment(p.HalfWidth, p.HalfHeight),
	}
}
