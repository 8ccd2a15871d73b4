package sink

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// solidFrame builds a w x h frame filled with one RGBA value.
func solidFrame(w, h int, r, g, b byte) Frame {
	pix := make([]byte, 4*w*h)
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = r, g, b, 255
	}
	return Frame{Width: w, Height: h, Pixels: pix}
}

func TestSinkWritesNumberedFrames(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, 8)
	if err != nil {
		t.Fatal(err)
	}

	s.Submit(solidFrame(4, 3, 255, 0, 0))
	s.Submit(solidFrame(4, 3, 0, 255, 0))
	s.Submit(solidFrame(4, 3, 0, 0, 255))

	if err := s.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	for n := 1; n <= 3; n++ {
		path := filepath.Join(dir, fmt.Sprintf("%d.png", n))
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing frame file %s: %v", path, err)
		}
	}
}

func TestSinkPreservesSendOrder(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, 2)
	if err != nil {
		t.Fatal(err)
	}

	// Distinct red values identify each frame
	for i := 0; i < 5; i++ {
		s.Submit(solidFrame(2, 2, byte(10*i), 0, 0))
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 5; i++ {
		f, err := os.Open(filepath.Join(dir, fmt.Sprintf("%d.png", i+1)))
		if err != nil {
			t.Fatalf("frame %d: %v", i+1, err)
		}
		img, err := png.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("decoding frame %d: %v", i+1, err)
		}
		r, _, _, _ := img.At(0, 0).RGBA()
		if byte(r>>8) != byte(10*i) {
			t.Errorf("frame %d has red %d, want %d", i+1, r>>8, 10*i)
		}
	}
}

func TestSinkCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "output")
	s, err := New(dir, 1)
	if err != nil {
		t.Fatalf("New should create missing directories: %v", err)
	}
	s.Submit(solidFrame(1, 1, 1, 2, 3))
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "1.png")); err != nil {
		t.Errorf("frame not written into created directory: %v", err)
	}
}

func TestSinkReportsWriteFailure(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, 4)
	if err != nil {
		t.Fatal(err)
	}

	// Occupy the first frame's path with a directory so os.Create fails
	// (robust even when tests run as root, unlike permission tricks)
	if err := os.Mkdir(filepath.Join(dir, "1.png"), 0755); err != nil {
		t.Fatal(err)
	}

	s.Submit(solidFrame(2, 2, 1, 1, 1))
	s.Submit(solidFrame(2, 2, 2, 2, 2))

	if err := s.Close(); err == nil {
		t.Error("Close should surface the write failure")
	}
}
