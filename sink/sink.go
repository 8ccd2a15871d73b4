// Package sink persists rendered frames to disk without stalling the
// simulation. Frames are handed over on a FIFO channel and drained by a
// single background goroutine, so slow disk writes only ever delay other
// writes, never the render loop.
package sink

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Frame is one completed pixel buffer: RGBA bytes in top-down row order.
type Frame struct {
	Width  int
	Height int
	Pixels []byte
}

// Sink writes frames as sequentially numbered PNG files. Numbering follows
// send order, starting at 1.
type Sink struct {
	dir    string
	frames chan Frame
	done   chan struct{}

	mu  sync.Mutex
	err error // first encode/write failure; fatal to the drain goroutine
}

// New creates a sink writing into dir and starts its drain goroutine.
// queue bounds how many frames may be in flight before Submit blocks.
func New(dir string, queue int) (*Sink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	if queue < 1 {
		queue = 1
	}

	s := &Sink{
		dir:    dir,
		frames: make(chan Frame, queue),
		done:   make(chan struct{}),
	}
	go s.drain()
	return s, nil
}

// Submit hands a frame to the sink. The sink owns the pixel slice from this
// point on; the caller must not reuse it. Blocks only when the queue is full.
func (s *Sink) Submit(f Frame) {
	s.frames <- f
}

// drain consumes frames strictly in send order. An encode or write failure
// stops the sink: a frame sequence with holes is worthless for assembling an
// animation, so later frames are discarded rather than written.
func (s *Sink) drain() {
	defer close(s.done)

	n := 0
	for f := range s.frames {
		n++
		if s.failed() {
			continue // keep the channel drained so the producer never stalls
		}
		if err := s.write(n, f); err != nil {
			slog.Error("frame sink failed", "frame", n, "error", err)
			s.setErr(err)
		}
	}
}

// write encodes one frame and writes it to <dir>/<n>.png.
func (s *Sink) write(n int, f Frame) error {
	img := &image.RGBA{
		Pix:    f.Pixels,
		Stride: 4 * f.Width,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}

	path := filepath.Join(s.dir, fmt.Sprintf("%d.png", n))
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := png.Encode(out, img); err != nil {
		out.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

func (s *Sink) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

func (s *Sink) failed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err != nil
}

// Close stops intake, waits for all queued frames to be written, and returns
// the first write error if any occurred.
func (s *Sink) Close() error {
	close(s.frames)
	<-s.done

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
