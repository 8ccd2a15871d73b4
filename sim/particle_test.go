package sim

import (
	"math"
	"testing"

	"github.com/adri326/vector-fields/field"
)

func testStepParams() StepParams {
	return StepParams{
		Terms:           field.DefaultTerms,
		Substeps:        6,
		SubstepAdvance:  0.01 / 6,
		DivergenceLimit: 4 * 5.0 * 5.0,
	}
}

func TestAdvanceMarksUpdatedAndAges(t *testing.T) {
	p := Particle{Position: complex(0.1, 0.1), Lifetime: 100}

	if !p.advance(0, testStepParams()) {
		t.Fatal("young particle near the origin should survive")
	}
	if !p.Updated {
		t.Error("advance must set Updated")
	}
	if p.Age != 1.0 {
		t.Errorf("age = %v, want 1.0", p.Age)
	}
}

func TestAdvanceMovesConstantDistance(t *testing.T) {
	// Direction-only advection: the per-substep displacement has fixed
	// length wherever the field is nonzero.
	sp := testStepParams()
	sp.Substeps = 1
	sp.SubstepAdvance = 0.01

	p := Particle{Position: complex(0.5, 0.2), Lifetime: 100}
	before := p.Position
	p.advance(0, sp)

	moved := field.SqMag(p.Position - before)
	want := sp.SubstepAdvance * sp.SubstepAdvance
	if math.Abs(moved-want) > 1e-12 {
		t.Errorf("squared displacement = %v, want %v", moved, want)
	}
}

func TestRetireAtLifetime(t *testing.T) {
	// The origin is a zero of the field: the particle holds position with
	// d = 0, so only age can retire it. Lifetime 3 means it survives steps
	// taking it to ages 1 and 2 and retires on the step reaching age 3.
	p := Particle{Position: complex(0, 0), Lifetime: 3}
	sp := testStepParams()

	steps := 0
	for p.advance(steps, sp) {
		steps++
		if steps > 10 {
			t.Fatal("particle never retired")
		}
	}
	if steps != 2 {
		t.Errorf("survived %d steps before retiring, want 2", steps)
	}
	if p.Position != 0 {
		t.Errorf("particle at the field's zero moved to %v", p.Position)
	}
}

func TestRetireOnDivergence(t *testing.T) {
	p := Particle{Position: complex(100, 0), Lifetime: 1000}
	if p.advance(0, testStepParams()) {
		t.Error("particle far outside the domain should retire")
	}
}

func TestRetireOnNonFinite(t *testing.T) {
	// Large positions overflow the high series powers to Inf/NaN; the guard
	// must retire the particle rather than let NaN reach the next frame.
	tests := []struct {
		name string
		pos  complex128
	}{
		{"overflowing position", complex(1e30, 0)},
		{"NaN position", complex(math.NaN(), math.NaN())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Particle{Position: tt.pos, Lifetime: 1000}
			if p.advance(0, testStepParams()) {
				t.Error("non-finite trajectory should retire")
			}
		})
	}
}

func TestRetireOnZeroDivergenceLimit(t *testing.T) {
	sp := testStepParams()
	sp.DivergenceLimit = 0
	p := Particle{Position: complex(0.1, 0.1), Lifetime: 1000}
	if p.advance(0, sp) {
		t.Error("zero divergence limit should retire every particle")
	}
}

func TestAlpha(t *testing.T) {
	p := Particle{Age: 80, Lifetime: 160}
	a := p.Alpha(6, 6)
	if a <= 0 || a >= 1 {
		t.Errorf("mid-life alpha = %v, want within (0, 1)", a)
	}

	// Newborn fades in from zero
	newborn := Particle{Age: 0, Lifetime: 160}
	if got := newborn.Alpha(6, 6); got != 0 {
		t.Errorf("newborn alpha = %v, want 0", got)
	}

	// Near death the fade-out term dominates
	dying := Particle{Age: 159.9, Lifetime: 160}
	if a1, a2 := dying.Alpha(6, 6), p.Alpha(6, 6); a1 >= a2 {
		t.Errorf("dying alpha %v should be below mid-life alpha %v", a1, a2)
	}
}
