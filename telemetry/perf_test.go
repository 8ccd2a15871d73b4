package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollectorEmpty(t *testing.T) {
	p := NewPerfCollector(10)
	stats := p.Stats()

	if stats.AvgFrameDuration != 0 {
		t.Errorf("empty collector avg = %v, want 0", stats.AvgFrameDuration)
	}
	if len(stats.PhaseAvg) != 0 {
		t.Errorf("empty collector has phase averages: %v", stats.PhaseAvg)
	}
}

func TestPerfCollectorRecordsPhases(t *testing.T) {
	p := NewPerfCollector(10)

	p.StartFrame()
	p.StartPhase(PhaseIntegrate)
	time.Sleep(2 * time.Millisecond)
	p.StartPhase(PhaseBloom)
	time.Sleep(time.Millisecond)
	p.EndFrame()

	stats := p.Stats()

	if stats.AvgFrameDuration < 3*time.Millisecond {
		t.Errorf("frame duration %v, want at least 3ms", stats.AvgFrameDuration)
	}
	if stats.PhaseAvg[PhaseIntegrate] < 2*time.Millisecond {
		t.Errorf("integrate phase %v, want at least 2ms", stats.PhaseAvg[PhaseIntegrate])
	}
	if stats.PhaseAvg[PhaseBloom] < time.Millisecond {
		t.Errorf("bloom phase %v, want at least 1ms", stats.PhaseAvg[PhaseBloom])
	}
	if stats.FramesPerSecond <= 0 {
		t.Error("throughput should be positive")
	}
}

func TestPerfCollectorRollingWindow(t *testing.T) {
	p := NewPerfCollector(2)

	for i := 0; i < 5; i++ {
		p.StartFrame()
		p.StartPhase(PhaseIntegrate)
		p.EndFrame()
	}

	// Window holds at most 2 samples regardless of how many were recorded
	if p.sampleCount != 2 {
		t.Errorf("sample count = %d, want window size 2", p.sampleCount)
	}
}
