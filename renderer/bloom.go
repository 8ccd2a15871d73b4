package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/adri326/vector-fields/config"
)

// BloomShaders wraps the two fragment shaders of the bloom pipeline and
// their uniform locations.
type BloomShaders struct {
	threshold    rl.Shader
	blur         rl.Shader
	thresholdLoc int32
	stepLoc      int32
	horizLoc     int32

	cutoff []float32
	step   []float32
}

// LoadBloomShaders loads the bloom shaders from the shaders directory.
func LoadBloomShaders(cfg *config.Config) *BloomShaders {
	b := &BloomShaders{
		threshold: rl.LoadShader("", "shaders/threshold.fs"),
		blur:      rl.LoadShader("", "shaders/blur.fs"),
		cutoff:    []float32{float32(cfg.Render.BloomThreshold)},
		step: []float32{
			1.0 / float32(cfg.Screen.Width),
			1.0 / float32(cfg.Screen.Height),
		},
	}
	b.thresholdLoc = rl.GetShaderLocation(b.threshold, "threshold")
	b.stepLoc = rl.GetShaderLocation(b.blur, "stepSize")
	b.horizLoc = rl.GetShaderLocation(b.blur, "horizontal")
	return b
}

// BeginThreshold activates the bright-pass shader. Pair with EndShaderMode.
func (b *BloomShaders) BeginThreshold() {
	rl.SetShaderValue(b.threshold, b.thresholdLoc, b.cutoff, rl.ShaderUniformFloat)
	rl.BeginShaderMode(b.threshold)
}

// BeginBlur activates one direction of the separable blur. Pair with
// EndShaderMode.
func (b *BloomShaders) BeginBlur(horizontal bool) {
	dir := []float32{0}
	if horizontal {
		dir[0] = 1
	}
	rl.SetShaderValue(b.blur, b.stepLoc, b.step, rl.ShaderUniformVec2)
	rl.SetShaderValue(b.blur, b.horizLoc, dir, rl.ShaderUniformFloat)
	rl.BeginShaderMode(b.blur)
}

// Unload releases the shaders.
func (b *BloomShaders) Unload() {
	rl.UnloadShader(b.threshold)
	rl.UnloadShader(b.blur)
}
