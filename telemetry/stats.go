package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// WindowStats aggregates simulation activity over a window of frames.
type WindowStats struct {
	WindowStart int `csv:"-"`
	WindowEnd   int `csv:"window_end"`

	// Population at window end
	Population int `csv:"population"`

	// Lifecycle totals during the window
	Spawned int `csv:"spawned"`
	Retired int `csv:"retired"`

	// Step duration distribution over the window, milliseconds
	StepMean float64 `csv:"step_ms_mean"`
	StepP10  float64 `csv:"step_ms_p10"`
	StepP50  float64 `csv:"step_ms_p50"`
	StepP90  float64 `csv:"step_ms_p90"`

	// Population distribution over the window
	PopMean float64 `csv:"pop_mean"`
	PopMin  int     `csv:"pop_min"`
	PopMax  int     `csv:"pop_max"`
}

// Collector accumulates per-frame samples and periodically flushes
// aggregated windows.
type Collector struct {
	windowSize int

	windowStart int
	spawned     int
	retired     int
	stepMs      []float64
	populations []float64
}

// NewCollector creates a collector flushing every windowSize frames.
func NewCollector(windowSize int) *Collector {
	if windowSize < 1 {
		windowSize = 120
	}
	return &Collector{
		windowSize:  windowSize,
		stepMs:      make([]float64, 0, windowSize),
		populations: make([]float64, 0, windowSize),
	}
}

// Record adds one frame's numbers. It returns aggregated stats and true when
// the sample closes a window.
func (c *Collector) Record(frame, population, spawned, retired int, stepDuration time.Duration) (WindowStats, bool) {
	c.spawned += spawned
	c.retired += retired
	c.stepMs = append(c.stepMs, float64(stepDuration.Microseconds())/1000.0)
	c.populations = append(c.populations, float64(population))

	if len(c.stepMs) < c.windowSize {
		return WindowStats{}, false
	}

	stats := c.flush(frame, population)
	return stats, true
}

// flush aggregates the finished window and resets the accumulators.
func (c *Collector) flush(frame, population int) WindowStats {
	stepMean, stepP10, stepP50, stepP90 := Distribution(c.stepMs)
	popMean, _, _, _ := Distribution(c.populations)

	popMin, popMax := int(c.populations[0]), int(c.populations[0])
	for _, p := range c.populations {
		if int(p) < popMin {
			popMin = int(p)
		}
		if int(p) > popMax {
			popMax = int(p)
		}
	}

	stats := WindowStats{
		WindowStart: c.windowStart,
		WindowEnd:   frame,
		Population:  population,
		Spawned:     c.spawned,
		Retired:     c.retired,
		StepMean:    stepMean,
		StepP10:     stepP10,
		StepP50:     stepP50,
		StepP90:     stepP90,
		PopMean:     popMean,
		PopMin:      popMin,
		PopMax:      popMax,
	}

	c.windowStart = frame + 1
	c.spawned = 0
	c.retired = 0
	c.stepMs = c.stepMs[:0]
	c.populations = c.populations[:0]

	return stats
}

// Distribution returns the mean and the 10th/50th/90th quantiles of values.
// Returns all zeros for an empty slice.
func Distribution(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return mean, p10, p50, p90
}

// LogStats emits the window via slog.
func (s WindowStats) LogStats() {
	slog.Info("window",
		"window_end", s.WindowEnd,
		"population", s.Population,
		"spawned", s.Spawned,
		"retired", s.Retired,
		"step_ms_mean", s.StepMean,
		"step_ms_p90", s.StepP90,
		"pop_mean", s.PopMean,
	)
}
