package canvas

import "github.com/ha1tch/erd-toolkit/pkg/geom"

// Zoom limits and the per-notch wheel factor.
const (
	MinZoom   = 0.3
	MaxZoom   = 6.5
	WheelZoom = 1.1
)

// Viewport is the screen transform: screen = world*Zoom + Pan.
type Viewport struct {
	PanX, PanY float64
	Zoom       float64
}

// NewViewport returns an unpanned viewport at zoom 1.
func NewViewport() *Viewport {
	return &Viewport{Zoom: 1}
}

// ScreenToWorld converts a screen point to world space.
func (v *Viewport) ScreenToWorld(p geom.Point) geom.Point {
	return screenToWorld(p, v.PanX, v.PanY, v.Zoom)
}

// WorldToScreen converts a world point to screen space.
func (v *Viewport) WorldToScreen(p geom.Point) geom.Point {
	return geom.Point{X: p.X*v.Zoom + v.PanX, Y: p.Y*v.Zoom + v.PanY}
}

// PanBy moves the view by a screen-space delta.
func (v *Viewport) PanBy(dx, dy float64) {
	v.PanX += dx
	v.PanY += dy
}

// ScreenDelta converts a screen-space drag delta to world units.
func (v *Viewport) ScreenDelta(dx, dy float64) (float64, float64) {
	return dx / v.Zoom, dy / v.Zoom
}

// ZoomAt multiplies the zoom by factor, clamped to [MinZoom, MaxZoom],
// keeping the world point under the screen point p fixed.
func (v *Viewport) ZoomAt(p geom.Point, factor float64) {
	old := v.Zoom
	v.Zoom = geom.Clamp(v.Zoom*factor, MinZoom, MaxZoom)

	before := screenToWorld(p, v.PanX, v.PanY, old)
	after := screenToWorld(p, v.PanX, v.PanY, v.Zoom)

	v.PanX += (after.X - before.X) * v.Zoom
	v.PanY += (after.Y - before.Y) * v.Zoom
}

// Wheel zooms in for negative rotation and out for positive rotation,
// as mouse wheels report them.
func (v *Viewport) Wheel(p geom.Point, rotation float64) {
	if rotation < 0 {
		v.ZoomAt(p, WheelZoom)
	} else if rotation > 0 {
		v.ZoomAt(p, 1/WheelZoom)
	}
}

// Fit sets pan and zoom so the world rectangle r fills a w×h screen.
func (v *Viewport) Fit(r geom.Rect, w, h float64) {
	if r.Empty() || w <= 0 || h <= 0 {
		return
	}
	zx := w / r.W
	zy := h / r.H
	z := zx
	if zy < z {
		z = zy
	}
	v.Zoom = geom.Clamp(z, MinZoom, MaxZoom)
	v.PanX = -r.X * v.Zoom
	v.PanY = -r.Y * v.Zoom
}

func screenToWorld(p geom.Point, panX, panY, zoom float64) geom.Point {
	return geom.Point{X: (p.X - panX) / zoom, Y: (p.Y - panY) / zoom}
}
