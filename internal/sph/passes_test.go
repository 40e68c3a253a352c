package sph_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sphsim/internal/compute"
	"github.com/san-kum/sphsim/internal/sph"
)

var _ = Describe("Passes", func() {
	var params sph.Params

	BeforeEach(func() {
		params = sph.DefaultParams()
	})

	Describe("density and pressure", func() {
		It("gives an isolated particle zero density and pressure", func() {
			ps := sph.Particles{
				{Position: sph.Vec2{X: -0.3}, Mass: 1, Density: 7, Pressure: 7},
				{Position: sph.Vec2{X: 0.3}, Mass: 1},
			}
			s := newSolver(params, len(ps), compute.NewSerialBackend())
			for _, pass := range []sph.Pass{sph.PassClear, sph.PassBuild, sph.PassDensity} {
				dispatch(s, pass, ps)
			}
			Expect(ps[0].Density).To(BeZero())
			Expect(ps[0].Pressure).To(BeZero())
		})

		It("sums kernel-weighted neighbor mass and applies the equation of state", func() {
			ps := sph.Particles{
				{Position: sph.Vec2{X: 0}, Mass: 1},
				{Position: sph.Vec2{X: 0.02}, Mass: 2},
				{Position: sph.Vec2{Y: 0.03}, Mass: 3},
			}
			s := newSolver(params, len(ps), compute.NewSerialBackend())
			for _, pass := range []sph.Pass{sph.PassClear, sph.PassBuild, sph.PassDensity} {
				dispatch(s, pass, ps)
			}
			k := sph.NewKernels(params.SmoothingRadius)
			want := 2*k.Poly6(0.02) + 3*k.Poly6(0.03)
			Expect(ps[0].Density).To(BeNumerically("~", want, want*1e-12))
			Expect(ps[0].Pressure).To(BeNumerically("~", params.Stiffness*want, want*1e-12))
		})
	})

	Describe("forces", func() {
		It("applies equal and opposite pressure forces to a symmetric pair", func() {
			params.Gravity = 0
			ps := sph.Particles{
				{Position: sph.Vec2{X: -0.013, Y: 0.004}, Mass: 1},
				{Position: sph.Vec2{X: 0.011, Y: -0.002}, Mass: 1},
			}
			s := newSolver(params, len(ps), compute.NewSerialBackend())
			for _, pass := range []sph.Pass{sph.PassClear, sph.PassBuild, sph.PassDensity, sph.PassForces} {
				dispatch(s, pass, ps)
			}
			a, b := ps[0].ForcePressure, ps[1].ForcePressure
			Expect(a.Len()).To(BeNumerically(">", 0))
			Expect(a.X).To(BeNumerically("~", -b.X, 1e-9*a.Len()))
			Expect(a.Y).To(BeNumerically("~", -b.Y, 1e-9*a.Len()))
		})

		It("scales gravity with the particle's own density", func() {
			params.Gravity = 3
			ps := sph.Particles{
				{Position: sph.Vec2{}, Mass: 1},
				{Position: sph.Vec2{X: 0.01}, Mass: 1},
			}
			s := newSolver(params, len(ps), compute.NewSerialBackend())
			for _, pass := range []sph.Pass{sph.PassClear, sph.PassBuild, sph.PassDensity, sph.PassForces} {
				dispatch(s, pass, ps)
			}
			Expect(ps[0].ForceGravity.X).To(BeZero())
			Expect(ps[0].ForceGravity.Y).To(BeNumerically("~", -3*ps[0].Density, 1e-9*ps[0].Density))
		})

		It("combines the components with the viscosity coefficient", func() {
			ps := sph.Particles{
				{Position: sph.Vec2{}, Velocity: sph.Vec2{X: 1}, Mass: 1},
				{Position: sph.Vec2{X: 0.02}, Velocity: sph.Vec2{Y: -1}, Mass: 1},
			}
			s := newSolver(params, len(ps), compute.NewSerialBackend())
			for _, pass := range []sph.Pass{sph.PassClear, sph.PassBuild, sph.PassDensity, sph.PassForces} {
				dispatch(s, pass, ps)
			}
			p := ps[0]
			Expect(p.ForceViscosity.Len()).To(BeNumerically(">", 0))
			want := p.ForcePressure.Add(p.ForceGravity).Add(p.ForceViscosity.Scale(params.Viscosity))
			Expect(p.ForceTotal.X).To(BeNumerically("~", want.X, 1e-9*want.Len()))
			Expect(p.ForceTotal.Y).To(BeNumerically("~", want.Y, 1e-9*want.Len()))
		})

		It("skips neighbors whose density is zero instead of dividing by it", func() {
			ps := sph.Particles{
				{Position: sph.Vec2{}, Mass: 1},
				{Position: sph.Vec2{X: 0.01}, Mass: 1},
			}
			s := newSolver(params, len(ps), compute.NewSerialBackend())
			// density pass deliberately not run: every density is still zero
			for _, pass := range []sph.Pass{sph.PassClear, sph.PassBuild, sph.PassForces} {
				dispatch(s, pass, ps)
			}
			for _, p := range ps {
				Expect(p.ForceTotal.IsFinite()).To(BeTrue())
				Expect(p.ForcePressure).To(Equal(sph.Vec2{}))
			}
		})

		It("keeps coincident particles finite", func() {
			ps := sph.Particles{
				{Position: sph.Vec2{X: 0.1}, Mass: 1},
				{Position: sph.Vec2{X: 0.1}, Mass: 1},
			}
			s := newSolver(params, len(ps), compute.NewSerialBackend())
			stats, err := s.Step(ps)
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.DegenerateContacts).To(BeEquivalentTo(2))
			for _, p := range ps {
				Expect(p.ForcePressure).To(Equal(sph.Vec2{}))
				Expect(p.Position.IsFinite()).To(BeTrue())
				Expect(p.Velocity.IsFinite()).To(BeTrue())
			}
		})
	})

	Describe("integrator", func() {
		It("moves a force-free particle at constant velocity", func() {
			params.Gravity = 0
			params.HalfWidth, params.HalfHeight = 100, 100
			p0, v0 := sph.Vec2{X: 0.1, Y: -0.2}, sph.Vec2{X: 0.7, Y: 0.3}
			ps := sph.Particles{{Position: p0, Velocity: v0, Mass: 2}}
			s := newSolver(params, len(ps), compute.NewSerialBackend())

			const steps = 250
			for i := 0; i < steps; i++ {
				_, err := s.Step(ps)
				Expect(err).NotTo(HaveOccurred())
			}
			want := p0.Add(v0.Scale(params.Dt * steps))
			Expect(ps[0].Position.X).To(BeNumerically("~", want.X, 1e-9))
			Expect(ps[0].Position.Y).To(BeNumerically("~", want.Y, 1e-9))
			Expect(ps[0].Velocity).To(Equal(v0))
		})

		It("uses the previous force for the first half kick and stores the new one", func() {
			ps := sph.Particles{{
				Position:       sph.Vec2{},
				Mass:           2,
				PrevForceTotal: sph.Vec2{X: 4},
				ForceTotal:     sph.Vec2{Y: 8},
			}}
			s := newSolver(params, len(ps), compute.NewSerialBackend())
			dispatch(s, sph.PassIntegrate, ps)

			dt := params.Dt
			vHalf := 0.5 * dt * 4 / 2
			Expect(ps[0].Position.X).To(BeNumerically("~", vHalf*dt, 1e-15))
			Expect(ps[0].Velocity.X).To(BeNumerically("~", vHalf, 1e-15))
			Expect(ps[0].Velocity.Y).To(BeNumerically("~", 0.5*dt*8/2, 1e-15))
			Expect(ps[0].PrevForceTotal).To(Equal(sph.Vec2{Y: 8}))
		})

		It("is exact for a constant force", func() {
			ps := sph.Particles{{Mass: 1, ForceTotal: sph.Vec2{Y: -1}, PrevForceTotal: sph.Vec2{Y: -1}}}
			s := newSolver(params, len(ps), compute.NewSerialBackend())
			for i := 0; i < 10; i++ {
				dispatch(s, sph.PassIntegrate, ps)
			}
			t := 10 * params.Dt
			Expect(ps[0].Position.Y).To(BeNumerically("~", -0.5*t*t, 1e-12))
			Expect(ps[0].Velocity.Y).To(BeNumerically("~", -t, 1e-12))
		})
	})

	Describe("boundary reflector", func() {
		It("flips and damps the velocity of a particle past the top wall", func() {
			const eps, v = 1e-3, 2.0
			ps := sph.Particles{{Position: sph.Vec2{Y: params.HalfHeight + eps}, Velocity: sph.Vec2{Y: v}, Mass: 1}}
			s := newSolver(params, len(ps), compute.NewSerialBackend())
			dispatch(s, sph.PassReflect, ps)

			Expect(ps[0].Position.Y).To(BeNumerically("<=", params.HalfHeight))
			Expect(ps[0].Velocity.Y).To(BeNumerically("~", -params.Damping*v, 1e-12))
			Expect(ps[0].Velocity.X).To(BeZero())
		})

		It("leaves particles inside the box alone", func() {
			p := sph.Particle{Position: sph.Vec2{X: 0.1, Y: 0.2}, Velocity: sph.Vec2{X: 1, Y: -1}, Mass: 1}
			ps := sph.Particles{p}
			s := newSolver(params, len(ps), compute.NewSerialBackend())
			dispatch(s, sph.PassReflect, ps)
			Expect(ps[0]).To(Equal(p))
		})

		It("places clamped particles WallInset inside the wall", func() {
			params.WallInset = 0.01
			ps := sph.Particles{{Position: sph.Vec2{X: -params.HalfWidth - 0.2}, Velocity: sph.Vec2{X: -1}, Mass: 1}}
			s := newSolver(params, len(ps), compute.NewSerialBackend())
			dispatch(s, sph.PassReflect, ps)
			Expect(ps[0].Position.X).To(BeNumerically("~", -params.HalfWidth+0.01, 1e-12))
			Expect(ps[0].Velocity.X).To(BeNumerically("~", params.Damping, 1e-12))
		})

		DescribeTable("corner particles",
			func(policy sph.ReflectionPolicy, wantX, wantVX float64) {
				params.Reflection = policy
				ps := sph.Particles{{
					Position: sph.Vec2{X: params.HalfWidth + 0.1, Y: -params.HalfHeight - 0.1},
					Velocity: sph.Vec2{X: 1, Y: -1},
					Mass:     1,
				}}
				s := newSolver(params, len(ps), compute.NewSerialBackend())
				dispatch(s, sph.PassReflect, ps)

				// bottom is tested before right under both policies
				Expect(ps[0].Position.Y).To(Equal(-params.HalfHeight))
				Expect(ps[0].Position.X).To(BeNumerically("~", wantX, 1e-12))
				Expect(ps[0].Velocity.X).To(BeNumerically("~", wantVX, 1e-12))
			},
			Entry("independent corrects both axes", sph.ReflectIndependent, 0.5, -0.81),
			Entry("first match corrects only the bottom wall", sph.ReflectFirstMatch, 0.6, 0.9),
		)
	})

	Describe("dispatch contract", func() {
		It("rejects a build dispatched as a 1D grid", func() {
			ps := randomParticles(3, 10, 0.4, 0.4)
			s := newSolver(params, len(ps), compute.NewSerialBackend())
			Expect(s.Dispatch(sph.PassBuild, ps, len(ps), 1)).To(MatchError(sph.ErrDispatchShape))
			Expect(s.Dispatch(sph.PassDensity, ps, len(ps), len(ps))).To(MatchError(sph.ErrDispatchShape))
		})

		It("rejects a store that does not match the index buffer", func() {
			s := newSolver(params, 4, compute.NewSerialBackend())
			ps := randomParticles(4, 5, 0.4, 0.4)
			Expect(s.Dispatch(sph.PassClear, ps, 5, 1)).To(MatchError(sph.ErrBufferMismatch))
			_, err := s.Step(ps)
			Expect(err).To(MatchError(sph.ErrBufferMismatch))
		})
	})

	It("keeps a gently pressurised block finite and inside the box", func() {
		params.Gravity = 0
		params.Viscosity = 0
		params.Stiffness = 1e-6
		ps := sph.Particles{}
		for x := 0; x < 10; x++ {
			for y := 0; y < 10; y++ {
				ps = append(ps, sph.Particle{Position: sph.Vec2{X: float64(x) * 0.02, Y: float64(y) * 0.02}, Mass: 1})
			}
		}
		s := newSolver(params, len(ps), compute.NewCPUBackend(4))
		for i := 0; i < 50; i++ {
			_, err := s.Step(ps)
			Expect(err).NotTo(HaveOccurred())
		}
		Expect(math.IsNaN(ps.KineticEnergy())).To(BeFalse())
		for _, p := range ps {
			Expect(math.Abs(p.Position.X)).To(BeNumerically("<=", params.HalfWidth))
			Expect(math.Abs(p.Position.Y)).To(BeNumerically("<=", params.HalfHeight))
		}
	})
})
