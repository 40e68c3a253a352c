package metrics

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/sphsim/internal/sph"
)

// DensityStats reports the mean density of the last step. Max is exposed
// separately for the telemetry panel.
type DensityStats struct {
	name    string
	buf     []float64
	mean    float64
	max     float64
	samples int
}

func NewDensityStats() *DensityStats {
	return &DensityStats{name: "mean_density"}
}

func (d *DensityStats) Name() string { return d.name }

func (d *DensityStats) Observe(ps sph.Particles, _ sph.StepStats) {
	d.samples++
	if len(ps) == 0 {
		d.mean, d.max = 0, 0
		return
	}
	d.buf = d.buf[:0]
	for i := range ps {
		d.buf = append(d.buf, ps[i].Density)
	}
	d.mean = stat.Mean(d.buf, nil)
	d.max = floats.Max(d.buf)
}

func (d *DensityStats) Value() float64 { return d.mean }
func (d *DensityStats) Max() float64   { return d.max }

func (d *DensityStats) Reset() {
	d.mean, d.max = 0, 0
	d.samples = 0
}
