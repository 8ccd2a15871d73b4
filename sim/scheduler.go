package sim

import "sync"

// batch is a contiguous index range of the source slice for one worker to
// integrate.
type batch struct {
	index      int // slot in the per-batch output buffers
	start, end int
	t          int
	done       *sync.WaitGroup // frame barrier
}

// Scheduler spreads particle integration across a bounded pool of persistent
// worker goroutines. Work is partitioned into contiguous fixed-size batches;
// each batch writes survivors into its own output buffer and the buffers are
// concatenated after the barrier, so workers never contend on shared state.
type Scheduler struct {
	workers   int
	batchSize int
	params    StepParams

	workChan chan batch     // sends work to workers
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks live workers
	running  bool

	src []Particle   // read-only during a frame
	out [][]Particle // per-batch survivor buffers
}

// NewScheduler creates a scheduler with the given worker count and batch
// size. Workers are started lazily on the first Integrate call.
func NewScheduler(workers, batchSize int, params StepParams) *Scheduler {
	if workers < 1 {
		workers = 1
	}
	if batchSize < 1 {
		batchSize = 1
	}
	return &Scheduler{
		workers:   workers,
		batchSize: batchSize,
		params:    params,
	}
}

// start launches the persistent worker goroutines.
func (s *Scheduler) start() {
	if s.running {
		return
	}

	s.workChan = make(chan batch, s.workers)
	s.stopChan = make(chan struct{})
	s.running = true

	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker()
	}
}

// Stop signals all workers to exit and waits for them.
func (s *Scheduler) Stop() {
	if !s.running {
		return
	}

	close(s.stopChan)
	s.wg.Wait()
	close(s.workChan)
	s.running = false
}

// worker processes batches until stopped. A panic here is deliberately not
// recovered: a half-integrated frame has no well-defined recovery, so the
// process aborts.
func (s *Scheduler) worker() {
	defer s.wg.Done()

	for {
		select {
		case <-s.stopChan:
			return
		case b, ok := <-s.workChan:
			if !ok {
				return
			}
			s.runBatch(b)
			b.done.Done()
		}
	}
}

// runBatch integrates one index range, collecting survivors into the batch's
// own buffer.
func (s *Scheduler) runBatch(b batch) {
	buf := s.out[b.index][:0]
	for i := b.start; i < b.end; i++ {
		p := s.src[i]
		if p.advance(b.t, s.params) {
			buf = append(buf, p)
		}
	}
	s.out[b.index] = buf
}

// Integrate advances every particle in src by one frame at time index t and
// appends the survivors to dst. It blocks until all batches have completed;
// no partial results are ever visible. Survivor order follows batch order,
// but callers must not rely on positional identity across frames.
func (s *Scheduler) Integrate(t int, src, dst []Particle) []Particle {
	n := len(src)
	if n == 0 {
		return dst
	}
	if !s.running {
		s.start()
	}

	numBatches := (n + s.batchSize - 1) / s.batchSize
	for len(s.out) < numBatches {
		s.out = append(s.out, make([]Particle, 0, s.batchSize))
	}
	s.src = src

	var barrier sync.WaitGroup
	barrier.Add(numBatches)
	for i := 0; i < numBatches; i++ {
		start := i * s.batchSize
		end := start + s.batchSize
		if end > n {
			// The final batch is truncated at the slice bound, never wrapped.
			end = n
		}
		s.workChan <- batch{index: i, start: start, end: end, t: t, done: &barrier}
	}
	barrier.Wait()
	s.src = nil

	for i := 0; i < numBatches; i++ {
		dst = append(dst, s.out[i]...)
	}
	return dst
}
