package metrics

import "github.com/san-kum/sphsim/internal/sph"

// Overflow totals dropped neighbor insertions over the run. A non-zero value
// means the neighbor capacity is too small for the local particle density.
type Overflow struct {
	name  string
	total uint64
}

func NewOverflow() *Overflow {
	return &Overflow{name: "overflow"}
}

func (o *Overflow) Name() string { return o.name }

func (o *Overflow) Observe(_ sph.Particles, stats sph.StepStats) {
	o.total += stats.Overflows
}

func (o *Overflow) Value() float64 { return float64(o.total) }
func (o *Overflow) Reset()         { o.total = 0 }
