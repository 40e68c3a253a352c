package metrics

import "github.com/san-kum/sphsim/internal/sph"

// Containment is the fraction of observed steps in which every particle sat
// inside the box (boundary inclusive).
type Containment struct {
	name       string
	halfWidth  float64
	halfHeight float64
	violations int
	samples    int
}

func NewContainment(halfWidth, halfHeight float64) *Containment {
	return &Containment{
		name:       "containment",
		halfWidth:  halfWidth,
		halfHeight: halfHeight,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(ps sph.Particles, _ sph.StepStats) {
	c.samples++
	for i := range ps {
		p := ps[i].Position
		if !(p.X >= -c.halfWidth && p.X <= c.halfWidth && p.Y >= -c.halfHeight && p.Y <= c.halfHeight) {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
