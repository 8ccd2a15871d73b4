package sim

import (
	"math"
	"testing"
)

func testSystemParams() Params {
	seeder := testSeederParams()
	seeder.MaxLifetime = 1e9 // effectively immortal for short test runs

	step := testStepParams()
	step.DivergenceLimit = math.Inf(1)

	return Params{
		Seeder:   seeder,
		Step:     step,
		Initial:  50,
		PerFrame: 7,
		Workers:  4,
		Batch:    16,
	}
}

func TestSystemInitialPopulation(t *testing.T) {
	s := NewSystem(testSystemParams())
	defer s.Unload()

	if s.Count() != 50 {
		t.Errorf("initial population = %d, want 50", s.Count())
	}
	if s.Frame() != 0 {
		t.Errorf("initial frame = %d, want 0", s.Frame())
	}
}

func TestSystemStepInjectsQuota(t *testing.T) {
	s := NewSystem(testSystemParams())
	defer s.Unload()

	for i := 0; i < 3; i++ {
		stats := s.Step()

		if stats.Frame != i {
			t.Errorf("step %d: stats frame = %d", i, stats.Frame)
		}
		if stats.Spawned != 7 {
			t.Errorf("step %d: spawned = %d, want 7", i, stats.Spawned)
		}
		if stats.Retired != 0 {
			t.Errorf("step %d: retired = %d, want 0 with immortal particles", i, stats.Retired)
		}
		if stats.After != stats.Before-stats.Retired+stats.Spawned {
			t.Errorf("step %d: inconsistent stats %+v", i, stats)
		}
	}

	// Zero retirements: population grows by exactly the injection quota
	if s.Count() != 50+3*7 {
		t.Errorf("population after 3 steps = %d, want %d", s.Count(), 50+3*7)
	}
	if s.Frame() != 3 {
		t.Errorf("frame counter = %d, want 3", s.Frame())
	}
}

func TestSystemReproducible(t *testing.T) {
	a := NewSystem(testSystemParams())
	defer a.Unload()
	b := NewSystem(testSystemParams())
	defer b.Unload()

	for i := 0; i < 3; i++ {
		a.Step()
		b.Step()
	}

	if a.Count() != b.Count() {
		t.Fatalf("populations diverged: %d vs %d", a.Count(), b.Count())
	}
	for i := range a.particles {
		if a.particles[i] != b.particles[i] {
			t.Fatalf("particle %d diverged between identical runs", i)
		}
	}
}

func TestSystemSegments(t *testing.T) {
	params := testSystemParams()
	s := NewSystem(params)
	defer s.Unload()

	// Before any step, nothing is drawable
	if segs := s.Segments(nil, 6, 6); len(segs) != 0 {
		t.Errorf("segments before first step = %d, want 0", len(segs))
	}

	stats := s.Step()
	segs := s.Segments(nil, 6, 6)

	// Newcomers of this frame are not yet integrated and must be skipped
	want := stats.After - stats.Spawned
	if len(segs) != want {
		t.Errorf("segments = %d, want %d", len(segs), want)
	}
	for _, seg := range segs {
		if seg.Alpha <= 0 || seg.Alpha > 1 {
			t.Errorf("segment alpha = %v, want within (0, 1]", seg.Alpha)
		}
	}

	// Emission rolls OldPosition forward: a second emission without a step
	// yields only degenerate segments.
	for _, seg := range s.Segments(nil, 6, 6) {
		if seg.From != seg.To {
			t.Error("OldPosition was not rolled forward after emission")
		}
	}
}

func TestSystemLoopWindow(t *testing.T) {
	params := testSystemParams()
	params.Seeder.LoopFrames = 5
	params.Initial = 10
	params.PerFrame = 2
	s := NewSystem(params)
	defer s.Unload()

	var saved []int
	for !s.Done() {
		stats := s.Step()
		if s.SaveFrame() {
			saved = append(saved, stats.Frame)
		}
		if stats.Frame > 100 {
			t.Fatal("loop mode never terminated")
		}
	}

	// Exactly one full loop past warm-up: frames [L, 2L)
	if len(saved) != 5 {
		t.Fatalf("saved frames %v, want the 5 frames of [5, 10)", saved)
	}
	for i, f := range saved {
		if f != 5+i {
			t.Fatalf("saved frames %v, want [5..9]", saved)
		}
	}
}

func TestSystemNoLoopSavesEveryFrame(t *testing.T) {
	params := testSystemParams()
	params.Initial = 5
	params.PerFrame = 1
	s := NewSystem(params)
	defer s.Unload()

	for i := 0; i < 3; i++ {
		s.Step()
		if !s.SaveFrame() {
			t.Errorf("frame %d should be saved when looping is disabled", i)
		}
		if s.Done() {
			t.Error("non-looping run should never report Done")
		}
	}
}
