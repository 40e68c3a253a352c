package sph

// wall is one side of the domain box. normal points into the domain.
type wall struct {
	normal   Vec2
	violated func(pos Vec2, w, h float64) bool
	clamp    func(pos *Vec2, w, h float64)
}

// walls are listed in the priority used by ReflectFirstMatch.
var walls = [4]wall{
	{ // top
		normal:   Vec2{0, -1},
		violated: func(p Vec2, _, h float64) bool { return p.Y > h },
		clamp:    func(p *Vec2, _, h float64) { p.Y = h },
	},
	{ // bottom
		normal:   Vec2{0, 1},
		violated: func(p Vec2, _, h float64) bool { return p.Y < -h },
		clamp:    func(p *Vec2, _, h float64) { p.Y = -h },
	},
	{ // right
		normal:   Vec2{-1, 0},
		violated: func(p Vec2, w, _ float64) bool { return p.X > w },
		clamp:    func(p *Vec2, w, _ float64) { p.X = w },
	},
	{ // left
		normal:   Vec2{1, 0},
		violated: func(p Vec2, w, _ float64) bool { return p.X < -w },
		clamp:    func(p *Vec2, w, _ float64) { p.X = -w },
	},
}

// reflect keeps particle i inside [-W, W]×[-H, H]. For a violated wall the
// velocity is mirrored about the wall normal and scaled by the damping
// coefficient, and the position is clamped WallInset inside the wall.
func (s *Solver) reflect(ps Particles, i int) {
	p := &ps[i]
	w := s.params.HalfWidth - s.params.WallInset
	h := s.params.HalfHeight - s.params.WallInset
	hw, hh := s.params.HalfWidth, s.params.HalfHeight

	for _, wl := range walls {
		if !wl.violated(p.Position, hw, hh) {
			continue
		}
		p.Velocity = p.Velocity.Reflect(wl.normal).Scale(s.params.Damping)
		wl.clamp(&p.Position, w, h)
		if s.params.Reflection == ReflectFirstMatch {
			return
		}
	}
}
