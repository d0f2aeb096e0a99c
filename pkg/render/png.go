// Native PNG rendering for ERD diagrams.
// Mirrors the SVG renderer output using gg on a supersampled canvas.

package render

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ha1tch/erd-toolkit/pkg/erd"
	"github.com/ha1tch/erd-toolkit/pkg/geom"
	"github.com/ha1tch/erd-toolkit/pkg/route"
)

// ErrEmptyGraph is returned when exporting a graph with no nodes.
var ErrEmptyGraph = errors.New("graph has no nodes")

// ErrImageTooLarge is returned when the graph bounds at the requested
// scale need more pixels than MaxCanvasPixels.
var ErrImageTooLarge = errors.New("image too large")

// MaxCanvasPixels caps the drawing canvas, supersampling included.
// 64M pixels is 256 MB of RGBA.
const MaxCanvasPixels = 64 << 20

// PNGOptions configures PNG rendering.
type PNGOptions struct {
	Scale       float64 // output pixels per world unit
	FontSize    float64
	Background  string // hex colour, or "transparent"
	Supersample int
	State       State
}

// DefaultPNGOptions returns sensible defaults for PNG rendering.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{
		Scale:       2,
		FontSize:    DefaultFontSize,
		Background:  "#ffffff",
		Supersample: 4,
	}
}

// pngContext maps world coordinates onto the supersampled canvas.
type pngContext struct {
	dc     *gg.Context
	origin geom.Point
	k      float64
}

func (c *pngContext) pt(p geom.Point) (float64, float64) {
	return (p.X - c.origin.X) * c.k, (p.Y - c.origin.Y) * c.k
}

func (c *pngContext) line(a, b geom.Point) {
	x1, y1 := c.pt(a)
	x2, y2 := c.pt(b)
	c.dc.DrawLine(x1, y1, x2, y2)
	c.dc.Stroke()
}

func (c *pngContext) rect(r geom.Rect) (x, y, w, h float64) {
	x, y = c.pt(geom.Pt(r.X, r.Y))
	return x, y, r.W * c.k, r.H * c.k
}

func (c *pngContext) text(t Text) {
	if t.S == "" {
		return
	}
	x, y := c.pt(t.At)
	c.dc.DrawString(t.S, x, y)
}

// RenderPNG measures and draws g to w as PNG. The image covers the graph
// bounds. Uses supersampling for smoother output.
func RenderPNG(w io.Writer, g *erd.Graph, opts PNGOptions) error {
	img, err := RenderImage(g, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// RenderImage draws g into an image at opts.Scale.
func RenderImage(g *erd.Graph, opts PNGOptions) (image.Image, error) {
	if g.Len() == 0 {
		return nil, ErrEmptyGraph
	}
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if opts.FontSize <= 0 {
		opts.FontSize = DefaultFontSize
	}
	if opts.Supersample <= 0 {
		opts.Supersample = 1
	}

	m, err := NewMetrics(opts.FontSize)
	if err != nil {
		return nil, err
	}
	scene := BuildScene(g, m, opts.State)

	ttf, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}

	ss, bw, bh, err := canvasSize(scene.Bounds, opts.Scale, opts.Supersample)
	if err != nil {
		return nil, err
	}
	k := opts.Scale * float64(ss)

	dc := gg.NewContext(bw, bh)
	if opts.Background != "" && opts.Background != "transparent" {
		dc.SetHexColor(opts.Background)
		dc.Clear()
	}
	dc.SetFontFace(truetype.NewFace(ttf, &truetype.Options{Size: opts.FontSize * k}))

	ctx := &pngContext{dc: dc, origin: geom.Pt(scene.Bounds.X, scene.Bounds.Y), k: k}
	for _, wire := range scene.Wires {
		ctx.drawWire(wire)
	}
	for _, box := range scene.Boxes {
		ctx.drawBox(box)
	}

	large := dc.Image()
	fw := int(math.Ceil(scene.Bounds.W * opts.Scale))
	fh := int(math.Ceil(scene.Bounds.H * opts.Scale))
	final := image.NewRGBA(image.Rect(0, 0, fw, fh))
	draw.CatmullRom.Scale(final, final.Bounds(), large, large.Bounds(), draw.Over, nil)
	return final, nil
}

// canvasSize picks the largest supersample factor, at most ss, whose
// canvas fits MaxCanvasPixels.
func canvasSize(bounds geom.Rect, scale float64, ss int) (int, int, int, error) {
	for ; ss >= 1; ss-- {
		k := scale * float64(ss)
		bw := math.Ceil(bounds.W * k)
		bh := math.Ceil(bounds.H * k)
		if bw*bh <= MaxCanvasPixels {
			return ss, int(bw), int(bh), nil
		}
	}
	return 0, 0, 0, fmt.Errorf("%w: %.0fx%.0f at scale %g exceeds %d pixels",
		ErrImageTooLarge, bounds.W, bounds.H, scale, MaxCanvasPixels)
}

func (c *pngContext) drawWire(w Wire) {
	c.dc.SetColor(toneColor(w.Tone))
	c.dc.SetLineWidth(1.5 * c.k)
	for i := 0; i < len(w.Points)-1; i++ {
		c.line(w.Points[i], w.Points[i+1])
	}
	for _, gl := range []route.Glyph{w.Start, w.End} {
		for _, s := range gl.Lines {
			c.line(s.A, s.B)
		}
		if gl.Circle {
			x, y := c.pt(gl.Center)
			c.dc.DrawCircle(x, y, gl.Radius*c.k)
			c.dc.Stroke()
		}
	}
}

func (c *pngContext) drawBox(b Box) {
	x, y, w, h := c.rect(b.Rect)
	radius := 5 * c.k

	c.dc.SetColor(colorNodeFill)
	c.dc.DrawRoundedRectangle(x, y, w, h, radius)
	c.dc.Fill()

	c.dc.SetLineWidth(c.k)
	c.dc.SetColor(colorNodeBorder)
	c.line(geom.Pt(b.Rect.X, b.HeaderY), geom.Pt(b.Rect.MaxX(), b.HeaderY))

	if b.Selected {
		c.dc.SetColor(colorNodeSelect)
	}
	c.dc.DrawRoundedRectangle(x, y, w, h, radius)
	c.dc.Stroke()

	c.dc.SetColor(colorText)
	c.text(b.Title)

	for _, r := range b.Rows {
		if r.Tone != ToneNormal {
			c.dc.SetColor(toneColor(r.Tone))
			c.dc.DrawRectangle(c.rect(r.Band))
			c.dc.Fill()
		}
		c.drawKey(r)
		c.dc.SetColor(colorText)
		c.text(r.Name)
		c.text(r.Type)
	}
}

// drawKey draws the attribute marker: a filled dot for key columns, a
// hollow one for plain columns.
func (c *pngContext) drawKey(r Row) {
	cx, cy := c.pt(r.Icon.Add(geom.Pt(IconSize/2, IconSize/2)))
	rad := 4 * c.k
	c.dc.SetColor(keyColor(r.Key))
	c.dc.DrawCircle(cx, cy, rad)
	if r.Key == KeyNone {
		c.dc.SetLineWidth(c.k)
		c.dc.Stroke()
		return
	}
	c.dc.Fill()
	if r.Key == KeyPrimaryForeign {
		c.dc.SetColor(colorForeign)
		c.dc.SetLineWidth(1.5 * c.k)
		c.dc.DrawCircle(cx, cy, rad)
		c.dc.Stroke()
	}
}
