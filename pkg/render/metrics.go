// Package render measures ERD nodes and draws graphs to PNG and SVG.
package render

import (
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/ha1tch/erd-toolkit/pkg/erd"
	"github.com/ha1tch/erd-toolkit/pkg/geom"
)

// DefaultFontSize is the point size used for measuring and drawing text.
const DefaultFontSize = 12

// Metrics supplies the text measurements node sizing depends on.
type Metrics interface {
	// RowHeight is the text line height. Routing and hit-testing must
	// use the same value.
	RowHeight() int
	// Advance is the horizontal advance of s.
	Advance(s string) float64
}

// FaceMetrics measures text with a font face.
type FaceMetrics struct {
	face      font.Face
	rowHeight int
}

// NewFaceMetrics wraps a font face. The row height is measured once.
func NewFaceMetrics(face font.Face) *FaceMetrics {
	return &FaceMetrics{face: face, rowHeight: face.Metrics().Height.Ceil()}
}

// NewMetrics returns metrics for Go Regular at the given point size.
func NewMetrics(size float64) (*FaceMetrics, error) {
	face, err := goRegularFace(size)
	if err != nil {
		return nil, err
	}
	return NewFaceMetrics(face), nil
}

func (m *FaceMetrics) RowHeight() int { return m.rowHeight }

func (m *FaceMetrics) Advance(s string) float64 {
	return float64(font.MeasureString(m.face, s)) / 64
}

var (
	defaultMetricsOnce sync.Once
	defaultMetrics     *FaceMetrics
)

// DefaultMetrics returns the cached metrics for Go Regular at
// DefaultFontSize.
func DefaultMetrics() *FaceMetrics {
	defaultMetricsOnce.Do(func() {
		m, err := NewMetrics(DefaultFontSize)
		if err != nil {
			panic(err) // embedded font
		}
		defaultMetrics = m
	})
	return defaultMetrics
}

// MonoMetrics measures text on a fixed character grid, as a terminal does.
type MonoMetrics struct {
	Char float64
	Row  int
}

func (m MonoMetrics) RowHeight() int { return m.Row }

func (m MonoMetrics) Advance(s string) float64 {
	return float64(utf8.RuneCountInString(s)) * m.Char
}

func goRegularFace(size float64) (font.Face, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

// Node box padding.
const (
	titleInset  = 4
	labelInset  = 12
	minTitleW   = 10
	boxPadding  = 20
	blankLabelW = 4
)

// MeasureNode recomputes n.Size from its text. The width fits the name
// and every non-blank "name type" label; the height fits a header row
// plus one row per attribute.
func MeasureNode(n *erd.Node, m Metrics) {
	width := int(m.Advance(n.Name)) + titleInset
	if width < minTitleW {
		width = minTitleW
	}
	attrs := n.Attributes()
	for _, a := range attrs {
		label := a.Label()
		if strings.TrimSpace(label) == "" {
			continue
		}
		if w := m.Advance(label) + labelInset; w > float64(width) {
			width = int(w)
		}
	}
	h := m.RowHeight()*(len(attrs)+1) + boxPadding
	n.Size = geom.Pt(float64(width+boxPadding), float64(h))
}

// Measure sizes every node of g.
func Measure(g *erd.Graph, m Metrics) {
	for _, n := range g.Nodes() {
		MeasureNode(n, m)
	}
}
