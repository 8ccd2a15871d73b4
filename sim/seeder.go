package sim

import (
	"math/cmplx"
	"math/rand"

	"github.com/adri326/vector-fields/field"
)

// seedSalt is a fixed nothing-up-my-sleeve constant XORed into every seed
// key so that nearby (frame, slot) pairs do not produce correlated streams.
const seedSalt uint64 = 0xCBF52D44320FD62A

// backgroundChance is the probability that a newborn particle is forced to
// the background color instead of its field-derived color.
const backgroundChance = 0.3

// SeedKey packs a frame index and a particle slot index into a 64-bit PRNG
// seed. Identical inputs always produce the identical key.
func SeedKey(frame, slot uint32) uint64 {
	return (uint64(frame)<<32 | uint64(slot)) ^ seedSalt
}

// SeederParams configure particle birth. Immutable after construction.
type SeederParams struct {
	Scale            float64 // Field units between the two nearest window edges
	CenterX, CenterY float64 // Complex-plane point at the window center
	Width, Height    int     // Output resolution, for aspect correction
	MaxLifetime      float64 // Exclusive upper bound on lifetime, in frames
	Terms            int     // Series terms of the field function
	LoopFrames       int     // >1 enables periodic seed reuse for looping output
	Background       Color   // Color substituted with probability backgroundChance
}

// Seeder derives fully deterministic particles from (frame, slot) pairs.
// Two calls with the same pair yield bit-identical particles regardless of
// goroutine or call order.
type Seeder struct {
	p                SeederParams
	aspectX, aspectY float64
}

// NewSeeder creates a seeder. The spawn rectangle is aspect-corrected with
// max(W,H)/W and max(W,H)/H so the field is sampled isotropically whatever
// the output aspect ratio.
func NewSeeder(p SeederParams) *Seeder {
	longest := float64(p.Width)
	if p.Height > p.Width {
		longest = float64(p.Height)
	}
	return &Seeder{
		p:       p,
		aspectX: longest / float64(p.Width),
		aspectY: longest / float64(p.Height),
	}
}

// fold maps the true frame index onto the loop period, so that the seed
// sequence - and therefore the full visual sequence - repeats exactly.
func (s *Seeder) fold(frame uint32) uint32 {
	if s.p.LoopFrames > 1 {
		frame %= uint32(s.p.LoopFrames)
	}
	return frame
}

// Key returns the seed key for a (frame, slot) pair, loop folding applied.
func (s *Seeder) Key(frame, slot uint32) uint64 {
	return SeedKey(s.fold(frame), slot)
}

// Spawn creates the particle for the given frame and slot. The draw order
// from the seeded stream is fixed; changing it changes every artwork.
func (s *Seeder) Spawn(frame, slot uint32) Particle {
	frame = s.fold(frame)
	r := rand.New(rand.NewSource(int64(SeedKey(frame, slot))))

	pos := complex(
		(r.Float64()*3.0-1.5)*s.p.Scale*s.aspectX+s.p.CenterX,
		(r.Float64()*3.0-1.5)*s.p.Scale*s.aspectY+s.p.CenterY,
	)

	fz := field.Eval(int(frame), pos, s.p.Terms)
	color := Color{
		R: float32(0.8 + 0.2*r.Float64()*field.Sigmoid(cmplx.Abs(fz))),
		G: float32(0.45 + 0.2*r.Float64()*field.Sigmoid(-imag(fz))),
		B: 0.23,
	}
	if r.Float64() < backgroundChance {
		color = s.p.Background
	}

	lifetime := float32(r.Float64() * s.p.MaxLifetime)

	return Particle{
		Color:       color,
		Position:    pos,
		OldPosition: pos,
		Lifetime:    lifetime,
		// Desynchronize the initial population so whole cohorts don't expire
		// on the same frame.
		Age:     float32(r.Float64()) * lifetime,
		Updated: false,
	}
}
