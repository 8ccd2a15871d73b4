// Package viewport maps complex-plane coordinates to screen pixels.
package viewport

// Viewport projects the simulation's square working region onto the window.
// The region spans 2*scale units across the shorter window edge; the longer
// edge is letterboxed so the field is never stretched.
type Viewport struct {
	// Center of the view in complex-plane coordinates
	CenterX, CenterY float64

	// Units between the two nearest window edges, divided by two
	Scale float64

	// Window dimensions in pixels
	Width, Height float64

	// Side of the centered square drawing area (min of width/height)
	side float64
	// Letterbox offsets
	offX, offY float64
}

// New creates a viewport for the given window size and field framing.
func New(width, height int, scale, centerX, centerY float64) *Viewport {
	w, h := float64(width), float64(height)
	side := w
	if h < side {
		side = h
	}
	return &Viewport{
		CenterX: centerX,
		CenterY: centerY,
		Scale:   scale,
		Width:   w,
		Height:  h,
		side:    side,
		offX:    (w - side) / 2,
		offY:    (h - side) / 2,
	}
}

// Project converts a complex-plane position to screen coordinates. The
// point (CenterX, CenterY) maps to the window center; (CenterX ± Scale)
// maps to the edges of the centered square.
func (v *Viewport) Project(z complex128) (x, y float32) {
	sx := ((real(z)-v.CenterX)/v.Scale/2.0+0.5)*v.side + v.offX
	sy := ((imag(z)-v.CenterY)/v.Scale/2.0+0.5)*v.side + v.offY
	return float32(sx), float32(sy)
}

// Unproject converts screen coordinates back to a complex-plane position.
func (v *Viewport) Unproject(x, y float32) complex128 {
	re := ((float64(x)-v.offX)/v.side-0.5)*2.0*v.Scale + v.CenterX
	im := ((float64(y)-v.offY)/v.side-0.5)*2.0*v.Scale + v.CenterY
	return complex(re, im)
}
