package sph

import (
	"errors"
	"fmt"
)

// Structural errors. They are reported before any pass of a step runs;
// per-particle numerical edge cases are never surfaced as errors.
var (
	// ErrNonPositiveMass indicates a particle with mass <= 0.
	ErrNonPositiveMass = errors.New("sph: particle mass must be positive")

	// ErrInvalidState indicates a NaN or Inf position or velocity.
	ErrInvalidState = errors.New("sph: invalid particle state (NaN or Inf detected)")

	// ErrBufferMismatch indicates a neighbor buffer not sized N*K for the store.
	ErrBufferMismatch = errors.New("sph: neighbor buffer size does not match particle count")

	// ErrDispatchShape indicates a pass invoked with the wrong grid shape.
	ErrDispatchShape = errors.New("sph: dispatch shape does not match pass")

	// ErrInvalidParams indicates a parameter outside its valid range.
	ErrInvalidParams = errors.New("sph: parameter out of valid bounds")

	// ErrTooManyParticles indicates a particle count that collides with the sentinel.
	ErrTooManyParticles = errors.New("sph: particle count exceeds index range")
)

// ParticleError ties a validation failure to the offending particle.
type ParticleError struct {
	Index   int
	Wrapped error
}

func (e *ParticleError) Error() string {
	return fmt.Sprintf("particle %d: %v", e.Index, e.Wrapped)
}

func (e *ParticleError) Unwrap() error {
	return e.Wrapped
}
