package render

import (
	"fmt"
	"html"
	"image/color"
	"io"
	"strings"

	"github.com/ha1tch/erd-toolkit/pkg/erd"
	"github.com/ha1tch/erd-toolkit/pkg/geom"
	"github.com/ha1tch/erd-toolkit/pkg/route"
)

// SVGOptions controls SVG rendering.
type SVGOptions struct {
	Scale      float64 // output units per world unit
	FontSize   float64
	Background string // colour, or "transparent"
	State      State
}

// DefaultSVGOptions returns sensible defaults.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Scale:      1,
		FontSize:   DefaultFontSize,
		Background: "transparent",
	}
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// RenderSVG measures g and returns it as an SVG document covering the
// graph bounds.
func RenderSVG(g *erd.Graph, opts SVGOptions) (string, error) {
	if g.Len() == 0 {
		return "", ErrEmptyGraph
	}
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if opts.FontSize <= 0 {
		opts.FontSize = DefaultFontSize
	}

	m, err := NewMetrics(opts.FontSize)
	if err != nil {
		return "", err
	}
	scene := BuildScene(g, m, opts.State)
	b := scene.Bounds

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="%.2f %.2f %.2f %.2f">`+"\n",
		b.W*opts.Scale, b.H*opts.Scale, b.X, b.Y, b.W, b.H)
	fmt.Fprintf(&sb, `<style>text{font-family:"Go",sans-serif;font-size:%.0fpx;fill:%s}</style>`+"\n",
		opts.FontSize, hex(colorText))

	if opts.Background != "" && opts.Background != "transparent" {
		fmt.Fprintf(&sb, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`+"\n",
			b.X, b.Y, b.W, b.H, html.EscapeString(opts.Background))
	}

	sb.WriteString(`<g id="connections" fill="none">` + "\n")
	for _, w := range scene.Wires {
		writeWire(&sb, w)
	}
	sb.WriteString("</g>\n")

	sb.WriteString(`<g id="tables">` + "\n")
	for _, box := range scene.Boxes {
		writeBox(&sb, box)
	}
	sb.WriteString("</g>\n")

	sb.WriteString("</svg>\n")
	return sb.String(), nil
}

// WriteSVG renders g as SVG to w.
func WriteSVG(w io.Writer, g *erd.Graph, opts SVGOptions) error {
	s, err := RenderSVG(g, opts)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, s)
	return err
}

func writeWire(sb *strings.Builder, w Wire) {
	stroke := hex(toneColor(w.Tone))
	fmt.Fprintf(sb, `<g stroke="%s" stroke-width="1.5">`, stroke)

	sb.WriteString(`<polyline points="`)
	for i, p := range w.Points {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(sb, "%.2f,%.2f", p.X, p.Y)
	}
	sb.WriteString(`"/>`)

	for _, gl := range []route.Glyph{w.Start, w.End} {
		for _, s := range gl.Lines {
			fmt.Fprintf(sb, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`, s.A.X, s.A.Y, s.B.X, s.B.Y)
		}
		if gl.Circle {
			fmt.Fprintf(sb, `<circle cx="%.2f" cy="%.2f" r="%.2f"/>`, gl.Center.X, gl.Center.Y, gl.Radius)
		}
	}
	sb.WriteString("</g>\n")
}

func writeBox(sb *strings.Builder, b Box) {
	r := b.Rect
	border := colorNodeBorder
	if b.Selected {
		border = colorNodeSelect
	}

	fmt.Fprintf(sb, `<g class="table" data-name="%s">`+"\n", html.EscapeString(b.Node.Name))
	fmt.Fprintf(sb, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="5" ry="5" fill="%s"/>`+"\n",
		r.X, r.Y, r.W, r.H, hex(colorNodeFill))
	fmt.Fprintf(sb, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s"/>`+"\n",
		r.X, b.HeaderY, r.MaxX(), b.HeaderY, hex(colorNodeBorder))
	fmt.Fprintf(sb, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="5" ry="5" fill="none" stroke="%s"/>`+"\n",
		r.X, r.Y, r.W, r.H, hex(border))
	writeText(sb, b.Title, "font-weight:bold")

	for _, row := range b.Rows {
		if row.Tone != ToneNormal {
			fmt.Fprintf(sb, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`+"\n",
				row.Band.X, row.Band.Y, row.Band.W, row.Band.H, hex(toneColor(row.Tone)))
		}
		writeKey(sb, row)
		writeText(sb, row.Name, "")
		writeText(sb, row.Type, "fill:#666666")
	}
	sb.WriteString("</g>\n")
}

func writeKey(sb *strings.Builder, r Row) {
	c := r.Icon.Add(geom.Pt(IconSize/2, IconSize/2))
	kc := hex(keyColor(r.Key))
	switch r.Key {
	case KeyNone:
		fmt.Fprintf(sb, `<circle cx="%.2f" cy="%.2f" r="4" fill="none" stroke="%s"/>`+"\n", c.X, c.Y, kc)
	case KeyPrimaryForeign:
		fmt.Fprintf(sb, `<circle cx="%.2f" cy="%.2f" r="4" fill="%s" stroke="%s" stroke-width="1.5"/>`+"\n",
			c.X, c.Y, kc, hex(colorForeign))
	default:
		fmt.Fprintf(sb, `<circle cx="%.2f" cy="%.2f" r="4" fill="%s"/>`+"\n", c.X, c.Y, kc)
	}
}

func writeText(sb *strings.Builder, t Text, style string) {
	if t.S == "" {
		return
	}
	if style != "" {
		fmt.Fprintf(sb, `<text x="%.2f" y="%.2f" style="%s">%s</text>`+"\n", t.At.X, t.At.Y, style, html.EscapeString(t.S))
		return
	}
	fmt.Fprintf(sb, `<text x="%.2f" y="%.2f">%s</text>`+"\n", t.At.X, t.At.Y, html.EscapeString(t.S))
}
