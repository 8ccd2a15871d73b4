// Package sim implements the particle simulation: deterministic seeding,
// per-frame integration through the vector field, batched parallel
// scheduling, and the lifecycle of the particle population.
package sim

import (
	"math"
	"math/cmplx"

	"github.com/adri326/vector-fields/field"
)

// Color is an RGB triple with channels in [0, 1]. Assigned at birth,
// immutable afterwards.
type Color struct {
	R, G, B float32
}

// Particle is the mutable state of one advected point.
type Particle struct {
	Color Color

	// Position is the current location in the complex plane. OldPosition is
	// the location at the previous render sample; together they form one
	// trail segment. The integrator never touches OldPosition - it is rolled
	// forward by System.Segments after each draw.
	Position    complex128
	OldPosition complex128

	// Lifetime is the allowed age in frames, fixed at birth. Age advances by
	// 1 per simulation step.
	Lifetime float32
	Age      float32

	// Updated distinguishes integrated particles from freshly constructed
	// placeholders; only updated particles are drawn.
	Updated bool
}

// StepParams are the immutable integration parameters shared by all workers.
type StepParams struct {
	Terms           int     // Series terms of the field function
	Substeps        int     // Sub-steps per frame
	SubstepAdvance  float64 // Distance advanced per sub-step (epsilon / substeps)
	DivergenceLimit float64 // Squared-magnitude bound; 4 * scale^2
}

// advance integrates the particle by one frame and reports whether it
// survives. The field's magnitude is discarded: each sub-step moves a fixed
// distance along the field's direction, so trail speed depends only on
// epsilon and the substep count, never on the local field strength.
func (p *Particle) advance(t int, sp StepParams) bool {
	p.Updated = true
	p.Age += 1.0

	for i := 0; i < sp.Substeps; i++ {
		z := field.Eval(t, p.Position, sp.Terms)
		m := cmplx.Abs(z)
		if m == 0 {
			// Zero of the field: direction is undefined, hold position.
			continue
		}
		p.Position += z * complex(sp.SubstepAdvance/m, 0)
	}

	d := field.SqMag(field.Eval(t, p.Position, sp.Terms))

	// Retire on expiry, divergence past the domain, or numerical blow-up
	// near a singularity. NaN fails both comparisons, so test it explicitly;
	// +Inf is caught by the divergence bound.
	if p.Age >= p.Lifetime || math.IsNaN(d) || d >= sp.DivergenceLimit {
		return false
	}
	return true
}

// Alpha returns the draw opacity: a sigmoid ramp in over fadeIn frames and
// out over the last fadeOut frames of the particle's life.
func (p *Particle) Alpha(fadeIn, fadeOut float64) float32 {
	return float32(field.Sigmoid(float64(p.Age)/fadeIn) *
		field.Sigmoid(float64(p.Lifetime-p.Age)/fadeOut))
}
