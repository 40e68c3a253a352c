package sph

import (
	"fmt"
	"math"
	"sort"
)

// ReflectionPolicy selects how the boundary pass treats a particle outside
// more than one wall at once.
type ReflectionPolicy int

const (
	// ReflectIndependent tests all four walls; a corner particle is corrected
	// on both axes in the same step.
	ReflectIndependent ReflectionPolicy = iota
	// ReflectFirstMatch tests top, bottom, right, left in that order and stops
	// at the first violated wall.
	ReflectFirstMatch
)

func (p ReflectionPolicy) String() string {
	switch p {
	case ReflectIndependent:
		return "independent"
	case ReflectFirstMatch:
		return "first-match"
	}
	return fmt.Sprintf("ReflectionPolicy(%d)", int(p))
}

// ParseReflectionPolicy accepts the names produced by String.
func ParseReflectionPolicy(s string) (ReflectionPolicy, error) {
	switch s {
	case "", "independent":
		return ReflectIndependent, nil
	case "first-match", "first_match":
		return ReflectFirstMatch, nil
	}
	return 0, fmt.Errorf("%w: unknown reflection policy %q", ErrInvalidParams, s)
}

// Params is the immutable configuration bundle handed to every pass.
type Params struct {
	SmoothingRadius  float64 // h, also the neighbor cutoff
	Stiffness        float64 // k in p = k·ρ
	Gravity          float64 // g
	Viscosity        float64 // μ
	Dt               float64
	HalfWidth        float64
	HalfHeight       float64
	Damping          float64 // velocity scale after a wall reflection
	NeighborCapacity int     // K, accuracy/performance knob
	Reflection       ReflectionPolicy
	WallInset        float64 // distance inside the wall a clamped particle is placed
}

func DefaultParams() Params {
	return Params{
		SmoothingRadius:  0.05,
		Stiffness:        0.01,
		Gravity:          2.0,
		Viscosity:        5.0,
		Dt:               0.01,
		HalfWidth:        0.5,
		HalfHeight:       0.8,
		Damping:          0.9,
		NeighborCapacity: 40,
		Reflection:       ReflectIndependent,
	}
}

func (p Params) Validate() error {
	check := func(ok bool, name string, v float64) error {
		if ok && isFinite(v) {
			return nil
		}
		return fmt.Errorf("%w: %s = %g", ErrInvalidParams, name, v)
	}
	if err := check(p.SmoothingRadius > 0, "smoothing_radius", p.SmoothingRadius); err != nil {
		return err
	}
	if err := check(p.Stiffness >= 0, "stiffness", p.Stiffness); err != nil {
		return err
	}
	if err := check(true, "gravity", p.Gravity); err != nil {
		return err
	}
	if err := check(p.Viscosity >= 0, "viscosity", p.Viscosity); err != nil {
		return err
	}
	if err := check(p.Dt > 0, "dt", p.Dt); err != nil {
		return err
	}
	if err := check(p.HalfWidth > 0, "half_width", p.HalfWidth); err != nil {
		return err
	}
	if err := check(p.HalfHeight > 0, "half_height", p.HalfHeight); err != nil {
		return err
	}
	if err := check(p.Damping > 0 && p.Damping <= 1, "damping", p.Damping); err != nil {
		return err
	}
	if err := check(p.WallInset >= 0 && p.WallInset < math.Min(p.HalfWidth, p.HalfHeight), "wall_inset", p.WallInset); err != nil {
		return err
	}
	if p.NeighborCapacity <= 0 {
		return fmt.Errorf("%w: neighbor_capacity = %d", ErrInvalidParams, p.NeighborCapacity)
	}
	if p.Reflection != ReflectIndependent && p.Reflection != ReflectFirstMatch {
		return fmt.Errorf("%w: reflection = %v", ErrInvalidParams, p.Reflection)
	}
	return nil
}

// Fields exposes the tunable scalars by name, for hosts that edit parameters
// at runtime.
func (p Params) Fields() map[string]float64 {
	return map[string]float64{
		"h":           p.SmoothingRadius,
		"stiffness":   p.Stiffness,
		"gravity":     p.Gravity,
		"viscosity":   p.Viscosity,
		"dt":          p.Dt,
		"half_width":  p.HalfWidth,
		"half_height": p.HalfHeight,
		"damping":     p.Damping,
		"capacity":    float64(p.NeighborCapacity),
		"wall_inset":  p.WallInset,
	}
}

// FieldNames returns the keys of Fields in sorted order.
func (p Params) FieldNames() []string {
	f := p.Fields()
	names := make([]string, 0, len(f))
	for k := range f {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// SetField returns a copy of p with the named field replaced. The result is
// validated.
func (p Params) SetField(name string, v float64) (Params, error) {
	switch name {
	case "h":
		p.SmoothingRadius = v
	case "stiffness":
		p.Stiffness = v
	case "gravity":
		p.Gravity = v
	case "viscosity":
		p.Viscosity = v
	case "dt":
		p.Dt = v
	case "half_width":
		p.HalfWidth = v
	case "half_height":
		p.HalfHeight = v
	case "damping":
		p.Damping = v
	case "capacity":
		p.NeighborCapacity = int(v)
	case "wall_inset":
		p.WallInset = v
	default:
		return p, fmt.Errorf("%w: unknown parameter %q", ErrInvalidParams, name)
	}
	return p, p.Validate()
}
