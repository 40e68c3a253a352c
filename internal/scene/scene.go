// Package scene generates initial particle layouts for the host.
package scene

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/aquilax/go-perlin"

	"github.com/san-kum/sphsim/internal/sph"
)

// Spec describes a layout. Unused fields are ignored by layouts that do not
// need them.
type Spec struct {
	Count   int
	Mass    float64
	Spacing float64
	// Origin is the lower-left corner for Block, the centre for Pair.
	OriginX, OriginY float64
	// Region half extents for Random, centred on zero.
	HalfWidth, HalfHeight float64
	// Jitter displaces particles by Perlin noise of this amplitude.
	Jitter float64
	Seed   int64
	// Initial velocity for every particle.
	VX, VY float64
}

type Builder func(Spec) (sph.Particles, error)

var builders = map[string]Builder{
	"block":  Block,
	"random": Random,
	"pair":   Pair,
}

// Build creates the named layout.
func Build(name string, s Spec) (sph.Particles, error) {
	b, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene: %s (available: %v)", name, Names())
	}
	if !(s.Mass > 0) {
		return nil, fmt.Errorf("scene %s: %w", name, sph.ErrNonPositiveMass)
	}
	ps, err := b(s)
	if err != nil {
		return nil, err
	}
	if s.Jitter > 0 {
		applyJitter(ps, s.Jitter, s.Seed)
	}
	return ps, nil
}

func Names() []string {
	names := make([]string, 0, len(builders))
	for n := range builders {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Block lays Count particles on a square-ish lattice, row by row, starting
// at the origin. This is the dam break setup.
func Block(s Spec) (sph.Particles, error) {
	if s.Count <= 0 || s.Spacing <= 0 {
		return nil, fmt.Errorf("block: count and spacing must be positive")
	}
	cols := int(math.Ceil(math.Sqrt(float64(s.Count))))
	ps := make(sph.Particles, s.Count)
	for i := range ps {
		r, c := i/cols, i%cols
		ps[i] = sph.Particle{
			Position: sph.Vec2{X: s.OriginX + float64(c)*s.Spacing, Y: s.OriginY + float64(r)*s.Spacing},
			Velocity: sph.Vec2{X: s.VX, Y: s.VY},
			Mass:     s.Mass,
		}
	}
	return ps, nil
}

// Random scatters Count particles uniformly in the region. Origin is ignored.
func Random(s Spec) (sph.Particles, error) {
	if s.Count <= 0 || s.HalfWidth <= 0 || s.HalfHeight <= 0 {
		return nil, fmt.Errorf("random: count and region must be positive")
	}
	rng := rand.New(rand.NewSource(s.Seed))
	ps := make(sph.Particles, s.Count)
	for i := range ps {
		ps[i] = sph.Particle{
			Position: sph.Vec2{
				X: (rng.Float64()*2 - 1) * s.HalfWidth,
				Y: (rng.Float64()*2 - 1) * s.HalfHeight,
			},
			Velocity: sph.Vec2{X: s.VX, Y: s.VY},
			Mass:     s.Mass,
		}
	}
	return ps, nil
}

// Pair places two particles Spacing apart on the x axis around the origin.
func Pair(s Spec) (sph.Particles, error) {
	if s.Spacing <= 0 {
		return nil, fmt.Errorf("pair: spacing must be positive")
	}
	d := s.Spacing / 2
	return sph.Particles{
		{Position: sph.Vec2{X: s.OriginX - d, Y: s.OriginY}, Velocity: sph.Vec2{X: s.VX, Y: s.VY}, Mass: s.Mass},
		{Position: sph.Vec2{X: s.OriginX + d, Y: s.OriginY}, Velocity: sph.Vec2{X: s.VX, Y: s.VY}, Mass: s.Mass},
	}, nil
}

// applyJitter offsets each particle by two decorrelated Perlin samples so that
// lattices do not start perfectly symmetric.
func applyJitter(ps sph.Particles, amp float64, seed int64) {
	const (
		alpha   = 2.0
		beta    = 2.0
		octaves = 3
		freq    = 7.3
	)
	noise := perlin.NewPerlin(alpha, beta, octaves, seed)
	for i := range ps {
		p := &ps[i].Position
		x, y := p.X*freq, p.Y*freq
		dx := noise.Noise2D(x, y)
		dy := noise.Noise2D(x+31.7, y-17.3)
		p.X += amp * dx
		p.Y += amp * dy
	}
}
