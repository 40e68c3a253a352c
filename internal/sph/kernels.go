package sph

import "math"

// Kernels holds the smoothing kernels for one smoothing radius h with their
// normalisation constants precomputed.
type Kernels struct {
	h, h2      float64
	poly6Coeff float64
	spikyCoeff float64
	viscCoeff  float64
}

func NewKernels(h float64) Kernels {
	h6 := math.Pow(h, 6)
	return Kernels{
		h:          h,
		h2:         h * h,
		poly6Coeff: 315.0 / (64.0 * math.Pi * math.Pow(h, 9)),
		spikyCoeff: -45.0 / (math.Pi * h6),
		viscCoeff:  45.0 / (math.Pi * h6),
	}
}

func (k Kernels) H() float64 { return k.h }

// Poly6 is the density kernel. It is exactly zero at r == h and beyond.
func (k Kernels) Poly6(r float64) float64 {
	if r >= k.h {
		return 0
	}
	d := k.h2 - r*r
	return k.poly6Coeff * d * d * d
}

// SpikyGrad is the gradient of the spiky kernel for the separation rv.
// Coincident points have no direction and yield the zero vector.
func (k Kernels) SpikyGrad(rv Vec2) Vec2 {
	r := rv.Len()
	if r >= k.h || r == 0 {
		return Vec2{}
	}
	d := k.h - r
	return rv.Scale(k.spikyCoeff * d * d / r)
}

// ViscLaplacian is the Laplacian of the viscosity kernel.
func (k Kernels) ViscLaplacian(r float64) float64 {
	if r >= k.h {
		return 0
	}
	return k.viscCoeff * (k.h - r)
}
