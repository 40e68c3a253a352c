package sph_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sphsim/internal/sph"
)

var _ = Describe("Kernels", func() {
	const h = 0.05
	k := sph.NewKernels(h)

	Describe("Poly6", func() {
		It("is exactly zero at and beyond the cutoff", func() {
			Expect(k.Poly6(h)).To(BeZero())
			Expect(k.Poly6(2 * h)).To(BeZero())
		})

		It("approaches zero continuously from below", func() {
			prev := k.Poly6(0)
			for _, f := range []float64{0.5, 0.9, 0.99, 0.999, 0.999999} {
				v := k.Poly6(h * f)
				Expect(v).To(BeNumerically(">", 0))
				Expect(v).To(BeNumerically("<", prev))
				prev = v
			}
			Expect(prev).To(BeNumerically("<", 1e-9))
		})

		It("matches the closed form", func() {
			r := 0.02
			want := 315 / (64 * math.Pi * math.Pow(h, 9)) * math.Pow(h*h-r*r, 3)
			Expect(k.Poly6(r)).To(BeNumerically("~", want, want*1e-12))
		})
	})

	Describe("SpikyGrad", func() {
		It("returns the zero vector for coincident points", func() {
			Expect(k.SpikyGrad(sph.Vec2{})).To(Equal(sph.Vec2{}))
		})

		It("returns the zero vector at and beyond the cutoff", func() {
			Expect(k.SpikyGrad(sph.Vec2{X: h})).To(Equal(sph.Vec2{}))
			Expect(k.SpikyGrad(sph.Vec2{X: 0, Y: -2 * h})).To(Equal(sph.Vec2{}))
		})

		It("points against the separation with the spiky magnitude", func() {
			r := 0.02
			g := k.SpikyGrad(sph.Vec2{X: r})
			want := -45 / (math.Pi * math.Pow(h, 6)) * (h - r) * (h - r)
			Expect(g.X).To(BeNumerically("~", want, math.Abs(want)*1e-12))
			Expect(g.Y).To(BeZero())
		})

		It("is odd in the separation", func() {
			rv := sph.Vec2{X: 0.01, Y: -0.02}
			a, b := k.SpikyGrad(rv), k.SpikyGrad(rv.Neg())
			Expect(a.X).To(BeNumerically("~", -b.X, 1e-9))
			Expect(a.Y).To(BeNumerically("~", -b.Y, 1e-9))
		})
	})

	Describe("ViscLaplacian", func() {
		It("is linear inside the cutoff and zero outside", func() {
			c := 45 / (math.Pi * math.Pow(h, 6))
			Expect(k.ViscLaplacian(0)).To(BeNumerically("~", c*h, c*h*1e-12))
			Expect(k.ViscLaplacian(h)).To(BeZero())
			Expect(k.ViscLaplacian(h + 1)).To(BeZero())
		})
	})
})

var _ = Describe("Vec2", func() {
	It("normalizes the zero vector to zero", func() {
		Expect(sph.Vec2{}.Normalize()).To(Equal(sph.Vec2{}))
	})

	It("reflects about a wall normal", func() {
		v := sph.Vec2{X: 1, Y: 2}.Reflect(sph.Vec2{X: 0, Y: -1})
		Expect(v).To(Equal(sph.Vec2{X: 1, Y: -2}))
	})
})
