package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/adri326/vector-fields/config"
	"github.com/adri326/vector-fields/renderer"
	"github.com/adri326/vector-fields/sim"
	"github.com/adri326/vector-fields/sink"
	"github.com/adri326/vector-fields/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run the simulation without graphics")
	save := flag.Bool("save", false, "Stream frames to disk as numbered PNGs")
	outputDir := flag.String("output-dir", "", "Directory for telemetry CSV and config snapshot")
	loop := flag.Int("loop", 0, "Loop length in frames (overrides config; 1 = infinite)")
	maxFrames := flag.Int("max-frames", 0, "Stop after N frames (0 = unlimited)")
	logStats := flag.Bool("log-stats", false, "Output window and perf stats via slog")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// CLI overrides
	if *save {
		cfg.Output.Save = true
	}
	if *loop > 0 {
		cfg.Output.LoopFrames = *loop
	}

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	om, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
		os.Exit(1)
	}
	defer om.Close()
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to snapshot config", "error", err)
		os.Exit(1)
	}

	opts := runOptions{
		cfg:       cfg,
		om:        om,
		logStats:  *logStats,
		maxFrames: *maxFrames,
	}

	if *headless {
		slog.Info("starting headless simulation",
			"initial", cfg.Particles.Initial,
			"per_frame", cfg.Particles.PerFrame,
			"workers", cfg.Derived.Workers,
			"max_frames", *maxFrames,
		)
		runHeadless(opts)
	} else {
		runGraphical(opts)
	}
}

type runOptions struct {
	cfg       *config.Config
	om        *telemetry.OutputManager
	logStats  bool
	maxFrames int
}

// buildParams assembles the immutable simulation parameters from the loaded
// configuration.
func buildParams(cfg *config.Config) sim.Params {
	return sim.Params{
		Seeder: sim.SeederParams{
			Scale:       cfg.Field.Scale,
			CenterX:     cfg.Field.CenterX,
			CenterY:     cfg.Field.CenterY,
			Width:       cfg.Screen.Width,
			Height:      cfg.Screen.Height,
			MaxLifetime: cfg.Particles.MaxLifetime,
			Terms:       cfg.Field.Terms,
			LoopFrames:  cfg.Output.LoopFrames,
			Background: sim.Color{
				R: float32(cfg.Render.BackgroundR),
				G: float32(cfg.Render.BackgroundG),
				B: float32(cfg.Render.BackgroundB),
			},
		},
		Step: sim.StepParams{
			Terms:           cfg.Field.Terms,
			Substeps:        cfg.Integration.Substeps,
			SubstepAdvance:  cfg.Derived.SubstepAdvance,
			DivergenceLimit: cfg.Derived.DivergenceLimit,
		},
		Initial:  cfg.Particles.Initial,
		PerFrame: cfg.Particles.PerFrame,
		Workers:  cfg.Derived.Workers,
		Batch:    cfg.Sim.BatchSize,
	}
}

// runGraphical drives the windowed render loop.
func runGraphical(opts runOptions) {
	cfg := opts.cfg

	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Vector Fields")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	sys := sim.NewSystem(buildParams(cfg))
	defer sys.Unload()

	rend := renderer.New(cfg)
	defer rend.Unload()

	var frames *sink.Sink
	if cfg.Output.Save {
		var err error
		frames, err = sink.New(cfg.Output.Dir, 64)
		if err != nil {
			slog.Error("failed to create frame sink", "error", err)
			os.Exit(1)
		}
	}

	collector := telemetry.NewCollector(cfg.Telemetry.StatsWindow)
	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	segs := make([]sim.Segment, 0, cfg.Particles.Initial)

	for !rl.WindowShouldClose() {
		if sys.Done() {
			slog.Info("loop rendered", "frames", sys.Frame())
			break
		}

		perf.StartFrame()
		perf.StartPhase(telemetry.PhaseIntegrate)
		stepStart := time.Now()
		stats := sys.Step()
		stepDur := time.Since(stepStart)

		perf.StartPhase(telemetry.PhaseGeometry)
		segs = sys.Segments(segs[:0], cfg.Particles.FadeIn, cfg.Particles.FadeOut)

		rl.BeginDrawing()
		rend.DrawSegments(segs)

		perf.StartPhase(telemetry.PhaseBloom)
		rend.Composite()
		rl.EndDrawing()

		perf.StartPhase(telemetry.PhaseCapture)
		if frames != nil && sys.SaveFrame() {
			frames.Submit(rend.Capture())
		}
		perf.EndFrame()

		recordWindow(opts, collector, perf, stats, stepDur)

		if opts.maxFrames > 0 && sys.Frame() >= opts.maxFrames {
			slog.Info("max frames reached", "frame", sys.Frame())
			break
		}
	}

	if frames != nil {
		if err := frames.Close(); err != nil {
			slog.Error("frame sink finished with error", "error", err)
			os.Exit(1)
		}
	}
}

// runHeadless steps the simulation without graphics, for soak runs and
// profiling of the integration core.
func runHeadless(opts runOptions) {
	cfg := opts.cfg

	sys := sim.NewSystem(buildParams(cfg))
	defer sys.Unload()

	collector := telemetry.NewCollector(cfg.Telemetry.StatsWindow)
	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)

	for {
		if sys.Done() {
			slog.Info("loop simulated", "frames", sys.Frame())
			return
		}

		perf.StartFrame()
		perf.StartPhase(telemetry.PhaseIntegrate)
		stepStart := time.Now()
		stats := sys.Step()
		stepDur := time.Since(stepStart)
		perf.EndFrame()

		recordWindow(opts, collector, perf, stats, stepDur)

		if opts.maxFrames > 0 && sys.Frame() >= opts.maxFrames {
			slog.Info("max frames reached", "frame", sys.Frame())
			return
		}
	}
}

// recordWindow feeds one frame into the stats collector and handles window
// flushes: CSV output and optional slog reporting.
func recordWindow(opts runOptions, collector *telemetry.Collector, perf *telemetry.PerfCollector, stats sim.StepStats, stepDur time.Duration) {
	window, done := collector.Record(stats.Frame, stats.After, stats.Spawned, stats.Retired, stepDur)
	if !done {
		return
	}

	if err := opts.om.WriteWindow(window); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if opts.logStats {
		window.LogStats()
		perf.Stats().LogStats()
	}
}
