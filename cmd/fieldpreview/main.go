// Field preview tool - interactive framing of the vector field with sliders.
//
// Usage: go run ./cmd/fieldpreview
package main

import (
	"fmt"
	"image/color"
	"math"
	"math/cmplx"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/adri326/vector-fields/field"
	"github.com/adri326/vector-fields/viewport"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
)

// FramingParams holds the field framing being explored.
type FramingParams struct {
	Scale   float32
	CenterX float32
	CenterY float32
	Terms   int
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	// Defaults match config/defaults.yaml
	params := FramingParams{
		Scale:   5.0,
		CenterX: -3.75,
		CenterY: 0.0,
		Terms:   12,
	}

	gridSize := 256
	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	pixels := make([]color.RGBA, gridSize*gridSize)

	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			renderField(pixels, gridSize, params)
			rl.UpdateTexture(texture, pixels)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Draw preview
		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: float32(gridSize), Height: float32(gridSize)},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		statsY := int32(previewSize + 25)
		rl.DrawText("hue = flow direction, brightness = field magnitude", 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("view: %.2f x %.2f units", 2*params.Scale, 2*params.Scale), 15, statsY+20, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Field Framing", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		// Scale slider
		rl.DrawText("Scale (units across the view)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newScale := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0.5", "20.0",
			params.Scale, 0.5, 20.0,
		)
		rl.DrawText(fmt.Sprintf("%.2f", params.Scale), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newScale != params.Scale {
			params.Scale = newScale
			needsRegen = true
		}
		panelY += 35

		// Center X slider
		rl.DrawText("Center X", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newCenterX := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"-10", "10",
			params.CenterX, -10, 10,
		)
		rl.DrawText(fmt.Sprintf("%.2f", params.CenterX), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newCenterX != params.CenterX {
			params.CenterX = newCenterX
			needsRegen = true
		}
		panelY += 35

		// Center Y slider
		rl.DrawText("Center Y", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newCenterY := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"-10", "10",
			params.CenterY, -10, 10,
		)
		rl.DrawText(fmt.Sprintf("%.2f", params.CenterY), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newCenterY != params.CenterY {
			params.CenterY = newCenterY
			needsRegen = true
		}
		panelY += 35

		// Terms slider
		rl.DrawText("Series terms", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newTerms := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"3", "16",
			float32(params.Terms), 3, 16,
		)
		rl.DrawText(fmt.Sprintf("%d", params.Terms), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int(newTerms) != params.Terms {
			params.Terms = int(newTerms)
			needsRegen = true
		}
		panelY += 35

		rl.DrawText("Copy these values into config.yaml", int32(panelX), int32(panelY+10), 14, rl.Gray)

		rl.EndDrawing()
	}
}

// renderField rasterizes the field over the framed region: hue encodes flow
// direction, brightness encodes magnitude through a bounded sigmoid.
func renderField(pixels []color.RGBA, size int, params FramingParams) {
	view := viewport.New(size, size, float64(params.Scale), float64(params.CenterX), float64(params.CenterY))

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			z := view.Unproject(float32(x)+0.5, float32(y)+0.5)
			fz := field.Eval(0, z, params.Terms)

			mag := cmplx.Abs(fz)
			if math.IsNaN(mag) || math.IsInf(mag, 0) {
				pixels[y*size+x] = color.RGBA{R: 255, G: 255, B: 255, A: 255}
				continue
			}

			hue := (cmplx.Phase(fz) + math.Pi) / (2 * math.Pi) * 360
			brightness := 0.15 + 0.85*field.Sigmoid(mag)
			pixels[y*size+x] = hsvToRGBA(hue, 0.8, brightness)
		}
	}
}

// hsvToRGBA converts HSV (h in degrees, s and v in [0,1]) to an RGBA pixel.
func hsvToRGBA(h, s, v float64) color.RGBA {
	c := v * s
	hp := h / 60
	xv := c * (1 - math.Abs(math.Mod(hp, 2)-1))

	var r, g, b float64
	switch {
	case hp < 1:
		r, g, b = c, xv, 0
	case hp < 2:
		r, g, b = xv, c, 0
	case hp < 3:
		r, g, b = 0, c, xv
	case hp < 4:
		r, g, b = 0, xv, c
	case hp < 5:
		r, g, b = xv, 0, c
	default:
		r, g, b = c, 0, xv
	}
	m := v - c

	return color.RGBA{
		R: uint8((r + m) * 255),
		G: uint8((g + m) * 255),
		B: uint8((b + m) * 255),
		A: 255,
	}
}
