package sph_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sphsim/internal/compute"
	"github.com/san-kum/sphsim/internal/sph"
)

var _ = Describe("Solver", func() {
	var params sph.Params

	BeforeEach(func() {
		params = sph.DefaultParams()
	})

	It("pushes a close pair apart along x in one step", func() {
		params.SmoothingRadius = 0.05
		params.Gravity = 0
		ps := sph.Particles{
			{Position: sph.Vec2{X: -0.01}, Mass: 1},
			{Position: sph.Vec2{X: 0.01}, Mass: 1},
		}
		stats, err := sph.Step(ps, params)
		Expect(err).NotTo(HaveOccurred())
		Expect(stats.Overflows).To(BeZero())
		Expect(stats.MaxNeighbors).To(Equal(1))

		left, right := ps[0], ps[1]
		Expect(left.Density).To(BeNumerically(">", 0))
		Expect(right.Density).To(BeNumerically(">", 0))
		Expect(left.ForcePressure.X).To(BeNumerically("<", 0))
		Expect(right.ForcePressure.X).To(BeNumerically(">", 0))
		Expect(left.ForcePressure.Y).To(BeZero())
		Expect(left.Velocity.X).To(BeNumerically("<", 0))
		Expect(right.Velocity.X).To(BeNumerically(">", 0))
		Expect(left.PrevForceTotal).To(Equal(left.ForceTotal))
	})

	It("refuses to step a store with a non-positive mass and leaves it untouched", func() {
		ps := randomParticles(5, 20, 0.4, 0.4)
		ps[7].Mass = 0
		before := ps.Clone()

		s := newSolver(params, len(ps), compute.NewSerialBackend())
		_, err := s.Step(ps)
		Expect(err).To(MatchError(sph.ErrNonPositiveMass))

		var pe *sph.ParticleError
		Expect(errors.As(err, &pe)).To(BeTrue())
		Expect(pe.Index).To(Equal(7))
		Expect(ps).To(Equal(before))
	})

	It("refuses NaN positions", func() {
		ps := randomParticles(6, 3, 0.4, 0.4)
		ps[2].Position.X = nan()
		_, err := sph.Step(ps, params)
		Expect(err).To(MatchError(sph.ErrInvalidState))
	})

	It("validates parameters on construction", func() {
		params.Damping = 0
		_, err := sph.NewSolver(params, sph.NewNeighborIndex(1, params.NeighborCapacity))
		Expect(err).To(MatchError(sph.ErrInvalidParams))
	})

	It("requires the index capacity to match the parameters", func() {
		_, err := sph.NewSolver(params, sph.NewNeighborIndex(4, params.NeighborCapacity+1))
		Expect(err).To(MatchError(sph.ErrBufferMismatch))
	})

	It("adopts a host buffer without resizing it", func() {
		const n = 12
		buf := make([]uint32, n*params.NeighborCapacity)
		ix, err := sph.WrapNeighborIndex(buf, params.NeighborCapacity)
		Expect(err).NotTo(HaveOccurred())
		s, err := sph.NewSolver(params, ix, sph.WithBackend(compute.NewCPUBackend(3)))
		Expect(err).NotTo(HaveOccurred())

		ps := randomParticles(7, n, 0.05, 0.05)
		_, err = s.Step(ps)
		Expect(err).NotTo(HaveOccurred())
		Expect(buf).To(HaveLen(n * params.NeighborCapacity))
		Expect(buf[params.NeighborCapacity-1]).To(Equal(sph.Empty))
	})

	It("matches a serial run when stepped in parallel", func() {
		a := randomParticles(8, 250, 0.3, 0.3)
		b := a.Clone()
		serial := newSolver(params, len(a), compute.NewSerialBackend())
		parallel := newSolver(params, len(b), compute.NewCPUBackend(8))

		_, err := serial.Step(a)
		Expect(err).NotTo(HaveOccurred())
		_, err = parallel.Step(b)
		Expect(err).NotTo(HaveOccurred())

		for i := range a {
			// neighbor order differs, so sums may differ in the last bits
			Expect(b[i].Density).To(BeNumerically("~", a[i].Density, 1e-9*(1+a[i].Density)))
			Expect(b[i].Position.X).To(BeNumerically("~", a[i].Position.X, 1e-9))
			Expect(b[i].Position.Y).To(BeNumerically("~", a[i].Position.Y, 1e-9))
		}
	})

	It("updates kernels when parameters change between steps", func() {
		s := newSolver(params, 2, compute.NewSerialBackend())
		next := params
		next.SmoothingRadius = 0.1
		Expect(s.SetParams(next)).To(Succeed())
		Expect(s.Params().SmoothingRadius).To(Equal(0.1))

		next.NeighborCapacity = 3
		Expect(s.SetParams(next)).To(MatchError(sph.ErrBufferMismatch))
	})

	Describe("Params", func() {
		DescribeTable("rejects out-of-range values",
			func(name string, v float64) {
				_, err := params.SetField(name, v)
				Expect(err).To(MatchError(sph.ErrInvalidParams))
			},
			Entry("zero h", "h", 0.0),
			Entry("negative dt", "dt", -0.1),
			Entry("damping above one", "damping", 1.5),
			Entry("zero capacity", "capacity", 0.0),
			Entry("negative viscosity", "viscosity", -1.0),
			Entry("unknown name", "color", 1.0),
		)

		It("round-trips every named field", func() {
			for _, name := range params.FieldNames() {
				v := params.Fields()[name]
				next, err := params.SetField(name, v)
				Expect(err).NotTo(HaveOccurred(), name)
				Expect(next).To(Equal(params), name)
			}
		})

		It("parses reflection policies", func() {
			p, err := sph.ParseReflectionPolicy("first-match")
			Expect(err).NotTo(HaveOccurred())
			Expect(p).To(Equal(sph.ReflectFirstMatch))
			Expect(p.String()).To(Equal("first-match"))
			_, err = sph.ParseReflectionPolicy("bounce")
			Expect(err).To(MatchError(sph.ErrInvalidParams))
		})
	})
})
