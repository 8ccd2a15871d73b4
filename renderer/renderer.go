// Package renderer draws particle trails into a persistent canvas and
// applies the bloom post-process. It owns all GPU resources; the simulation
// only hands it segments and receives pixel buffers back.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/adri326/vector-fields/config"
	"github.com/adri326/vector-fields/sim"
	"github.com/adri326/vector-fields/sink"
	"github.com/adri326/vector-fields/viewport"
)

// Renderer accumulates trails in a persistent scene canvas and composites
// the bloomed result each frame.
type Renderer struct {
	width, height int32
	view          *viewport.Viewport

	canvas rl.RenderTexture2D // persistent trail scene
	bloomA rl.RenderTexture2D // threshold extract, later the final composite
	bloomB rl.RenderTexture2D // horizontal blur intermediate

	bloom *BloomShaders

	background rl.Color
	trailFade  float32
	lineWidth  float32

	firstFrame bool
}

// New creates a renderer for the configured resolution. Must be called after
// the raylib window is initialized.
func New(cfg *config.Config) *Renderer {
	w := int32(cfg.Screen.Width)
	h := int32(cfg.Screen.Height)

	r := &Renderer{
		width:  w,
		height: h,
		view: viewport.New(cfg.Screen.Width, cfg.Screen.Height,
			cfg.Field.Scale, cfg.Field.CenterX, cfg.Field.CenterY),
		canvas:     rl.LoadRenderTexture(w, h),
		bloomA:     rl.LoadRenderTexture(w, h),
		bloomB:     rl.LoadRenderTexture(w, h),
		bloom:      LoadBloomShaders(cfg),
		background: toColor(sim.Color{R: float32(cfg.Render.BackgroundR), G: float32(cfg.Render.BackgroundG), B: float32(cfg.Render.BackgroundB)}, 1),
		trailFade:  float32(cfg.Render.TrailFade),
		lineWidth:  float32(cfg.Particles.Size),
		firstFrame: true,
	}
	return r
}

// DrawSegments renders one frame's trail segments into the scene canvas.
// Previous frames persist, dimmed by a translucent background wash, which is
// what produces the extended trails.
func (r *Renderer) DrawSegments(segs []sim.Segment) {
	rl.BeginTextureMode(r.canvas)
	if r.firstFrame {
		rl.ClearBackground(r.background)
		r.firstFrame = false
	}
	rl.DrawRectangle(0, 0, r.width, r.height, rl.Fade(r.background, r.trailFade))

	for _, s := range segs {
		x1, y1 := r.view.Project(s.From)
		x2, y2 := r.view.Project(s.To)
		rl.DrawLineEx(
			rl.Vector2{X: x1, Y: y1},
			rl.Vector2{X: x2, Y: y2},
			r.lineWidth,
			toColor(s.Color, s.Alpha),
		)
	}
	rl.EndTextureMode()
}

// Composite runs the bloom passes and draws the final image to the screen.
// Pipeline: threshold extract -> horizontal blur -> vertical blur ->
// additive recomposite with the scene canvas.
func (r *Renderer) Composite() {
	// Bright-pass extract into bloomA
	rl.BeginTextureMode(r.bloomA)
	rl.ClearBackground(rl.Black)
	r.bloom.BeginThreshold()
	r.drawTarget(r.canvas)
	rl.EndShaderMode()
	rl.EndTextureMode()

	// Separable blur: horizontal into bloomB, vertical back into bloomA
	rl.BeginTextureMode(r.bloomB)
	rl.ClearBackground(rl.Black)
	r.bloom.BeginBlur(true)
	r.drawTarget(r.bloomA)
	rl.EndShaderMode()
	rl.EndTextureMode()

	rl.BeginTextureMode(r.bloomA)
	rl.ClearBackground(rl.Black)
	r.bloom.BeginBlur(false)
	r.drawTarget(r.bloomB)
	rl.EndShaderMode()

	// Add the scene on top of its own glow; bloomA now holds the frame
	rl.BeginBlendMode(rl.BlendAdditive)
	r.drawTarget(r.canvas)
	rl.EndBlendMode()
	rl.EndTextureMode()

	r.drawTarget(r.bloomA)
}

// drawTarget draws a render texture 1:1. The source height is negated
// because render textures are stored bottom-up.
func (r *Renderer) drawTarget(t rl.RenderTexture2D) {
	rl.DrawTextureRec(
		t.Texture,
		rl.Rectangle{X: 0, Y: 0, Width: float32(r.width), Height: -float32(r.height)},
		rl.Vector2{X: 0, Y: 0},
		rl.White,
	)
}

// Capture reads the current composite back from the GPU as an RGBA frame in
// top-down row order, ready for the sink.
func (r *Renderer) Capture() sink.Frame {
	img := rl.LoadImageFromTexture(r.bloomA.Texture)
	defer rl.UnloadImage(img)
	rl.ImageFlipVertical(img)

	colors := rl.LoadImageColors(img)
	defer rl.UnloadImageColors(colors)

	pixels := make([]byte, 4*len(colors))
	for i, c := range colors {
		pixels[4*i] = c.R
		pixels[4*i+1] = c.G
		pixels[4*i+2] = c.B
		pixels[4*i+3] = c.A
	}

	return sink.Frame{
		Width:  int(r.width),
		Height: int(r.height),
		Pixels: pixels,
	}
}

// Unload releases all GPU resources.
func (r *Renderer) Unload() {
	rl.UnloadRenderTexture(r.canvas)
	rl.UnloadRenderTexture(r.bloomA)
	rl.UnloadRenderTexture(r.bloomB)
	r.bloom.Unload()
}

// toColor converts a simulation color and alpha to a raylib color.
func toColor(c sim.Color, alpha float32) rl.Color {
	return rl.Color{
		R: channel(c.R),
		G: channel(c.G),
		B: channel(c.B),
		A: channel(alpha),
	}
}

func channel(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v * 255)
}
