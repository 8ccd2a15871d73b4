package sim

// Params configure a System. Built once from the loaded config; immutable
// afterwards.
type Params struct {
	Seeder   SeederParams
	Step     StepParams
	Initial  int // Population at frame zero
	PerFrame int // Newcomers injected each frame
	Workers  int
	Batch    int
}

// StepStats summarize one simulation step for telemetry.
type StepStats struct {
	Frame   int
	Before  int
	Retired int
	Spawned int
	After   int
}

// Segment is one drawable trail piece handed to the renderer: the particle's
// position at the previous render sample, its current position, and its draw
// color and opacity.
type Segment struct {
	From, To complex128
	Color    Color
	Alpha    float32
}

// System owns the particle population and runs the per-frame lifecycle:
// integrate, cull, inject newcomers.
type System struct {
	params    Params
	seeder    *Seeder
	scheduler *Scheduler

	particles []Particle
	scratch   []Particle // survivor buffer reused across frames
	frame     int
}

// NewSystem creates a system with its initial population, all seeded from
// frame zero.
func NewSystem(params Params) *System {
	s := &System{
		params:    params,
		seeder:    NewSeeder(params.Seeder),
		scheduler: NewScheduler(params.Workers, params.Batch, params.Step),
	}

	s.particles = make([]Particle, 0, params.Initial+params.PerFrame)
	for n := 0; n < params.Initial; n++ {
		s.particles = append(s.particles, s.seeder.Spawn(0, uint32(n)))
	}
	return s
}

// Step advances the simulation by one frame: all current particles are
// integrated in parallel, retirees are dropped, and exactly PerFrame
// newcomers are appended. The population is intentionally uncapped; it
// settles near the balance point between injection and attrition.
func (s *System) Step() StepStats {
	before := len(s.particles)

	s.scratch = s.scheduler.Integrate(s.frame, s.particles, s.scratch[:0])
	s.particles, s.scratch = s.scratch, s.particles

	survived := len(s.particles)
	for n := 0; n < s.params.PerFrame; n++ {
		s.particles = append(s.particles, s.seeder.Spawn(uint32(s.frame), uint32(n)))
	}

	stats := StepStats{
		Frame:   s.frame,
		Before:  before,
		Retired: before - survived,
		Spawned: s.params.PerFrame,
		After:   len(s.particles),
	}
	s.frame++
	return stats
}

// Segments appends one drawable segment per integrated particle to dst and
// returns it. Freshly seeded particles that have not been integrated yet are
// skipped. After emission each particle's OldPosition is rolled forward, so
// the next call yields the segment traced since this one; the renderer never
// mutates simulation state.
func (s *System) Segments(dst []Segment, fadeIn, fadeOut float64) []Segment {
	for i := range s.particles {
		p := &s.particles[i]
		if !p.Updated {
			continue
		}
		dst = append(dst, Segment{
			From:  p.OldPosition,
			To:    p.Position,
			Color: p.Color,
			Alpha: p.Alpha(fadeIn, fadeOut),
		})
		p.OldPosition = p.Position
	}
	return dst
}

// Frame returns the index of the next frame to be simulated.
func (s *System) Frame() int {
	return s.frame
}

// Count returns the current population size.
func (s *System) Count() int {
	return len(s.particles)
}

// Done reports whether a looping animation has rendered its full save window
// (one warm-up loop plus one recorded loop).
func (s *System) Done() bool {
	l := s.params.Seeder.LoopFrames
	return l > 1 && s.frame > 2*l
}

// SaveFrame reports whether the frame just produced falls inside the loop
// recording window [L, 2L). With looping disabled every frame is saved.
func (s *System) SaveFrame() bool {
	l := s.params.Seeder.LoopFrames
	if l <= 1 {
		return true
	}
	t := s.frame - 1 // index of the frame most recently stepped
	return t >= l && t < 2*l
}

// Unload stops the scheduler's worker pool.
func (s *System) Unload() {
	s.scheduler.Stop()
}
