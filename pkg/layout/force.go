// Package layout positions ERD nodes with a force-directed simulation:
// pairwise repulsion, spring attraction along connections, damped and
// cooled integration, and rectangle collision resolution.
package layout

import (
	"context"
	"math"

	"github.com/ha1tch/erd-toolkit/pkg/erd"
	"github.com/ha1tch/erd-toolkit/pkg/geom"
)

// Params holds the simulation constants.
type Params struct {
	Iterations      int
	Padding         float64 // Minimum gap between node rectangles
	IdealEdgeLength float64
	Repulsion       float64
	Attraction      float64
	Damping         float64
	MaxStep         float64 // Maximum movement per iteration
	Cooling         float64 // Temperature multiplier per iteration
	CollisionPasses int
	GridGutter      float64 // Spacing for the degenerate-start grid
	FallbackW       float64 // Size assumed for unmeasured nodes
	FallbackH       float64
}

// DefaultParams returns the standard simulation constants.
func DefaultParams() Params {
	return Params{
		Iterations:      220,
		Padding:         24,
		IdealEdgeLength: 260,
		Repulsion:       85000,
		Attraction:      0.012,
		Damping:         0.85,
		MaxStep:         45,
		Cooling:         0.985,
		CollisionPasses: 2,
		GridGutter:      120,
		FallbackW:       220,
		FallbackH:       140,
	}
}

const jitter = 0.001

// ForceDirected repositions every node in g with the default parameters
// and notifies graph observers once.
func ForceDirected(g *erd.Graph) {
	_ = ForceDirectedContext(context.Background(), g, DefaultParams())
}

// ForceDirectedContext runs the simulation, checking ctx between
// iterations. On cancellation the positions reached so far are kept,
// normalised and reported, and ctx.Err() is returned.
func ForceDirectedContext(ctx context.Context, g *erd.Graph, p Params) error {
	nodes := g.Nodes()
	n := len(nodes)
	if n == 0 {
		return nil
	}

	size := func(i int) (float64, float64) {
		s := nodes[i].Size
		w, h := s.X, s.Y
		if w <= 0 {
			w = p.FallbackW
		}
		if h <= 0 {
			h = p.FallbackH
		}
		return w, h
	}
	rectOf := func(i int) geom.Rect {
		w, h := size(i)
		return geom.Rect{X: nodes[i].Position.X, Y: nodes[i].Position.Y, W: w, H: h}
	}
	center := func(i int) (float64, float64) {
		w, h := size(i)
		return nodes[i].Position.X + w/2, nodes[i].Position.Y + h/2
	}

	if allSamePosition(nodes) {
		seedGrid(nodes, size, p.GridGutter)
	}

	index := make(map[erd.NodeID]int, n)
	for i, node := range nodes {
		index[node.ID] = i
	}

	vx := make([]float64, n)
	vy := make([]float64, n)
	fx := make([]float64, n)
	fy := make([]float64, n)
	temperature := 1.0

	var err error
	for it := 0; it < p.Iterations; it++ {
		if err = ctx.Err(); err != nil {
			break
		}

		for i := range fx {
			fx[i], fy[i] = 0, 0
		}

		// Repulsion between every pair
		for i := 0; i < n; i++ {
			cix, ciy := center(i)
			for j := i + 1; j < n; j++ {
				cjx, cjy := center(j)

				dx := cix - cjx
				dy := ciy - cjy
				if dx == 0 && dy == 0 {
					dx, dy = jitter, jitter
				}

				dist2 := dx*dx + dy*dy
				dist := math.Sqrt(dist2)
				f := p.Repulsion / (dist2 + 1)

				ux := dx / dist
				uy := dy / dist
				fx[i] += ux * f
				fy[i] += uy * f
				fx[j] -= ux * f
				fy[j] -= uy * f
			}
		}

		// Springs along connections
		for _, c := range g.Connections() {
			a, okA := index[c.From]
			b, okB := index[c.To]
			if !okA || !okB {
				continue
			}
			ax, ay := center(a)
			bx, by := center(b)

			dx := bx - ax
			dy := by - ay
			dist := math.Sqrt(dx*dx + dy*dy)
			if dist < jitter {
				dist = jitter
			}

			ux := dx / dist
			uy := dy / dist
			f := p.Attraction * (dist - p.IdealEdgeLength)

			fx[a] += ux * f
			fy[a] += uy * f
			fx[b] -= ux * f
			fy[b] -= uy * f
		}

		// Integrate
		for i := 0; i < n; i++ {
			vx[i] = (vx[i] + fx[i]) * p.Damping
			vy[i] = (vy[i] + fy[i]) * p.Damping

			vx[i] *= temperature
			vy[i] *= temperature

			step := math.Sqrt(vx[i]*vx[i] + vy[i]*vy[i])
			if step > p.MaxStep {
				s := p.MaxStep / step
				vx[i] *= s
				vy[i] *= s
			}

			nodes[i].Position.X += vx[i]
			nodes[i].Position.Y += vy[i]
		}

		resolveCollisions(nodes, rectOf, p)

		temperature *= p.Cooling
	}

	normalize(nodes, rectOf, p.Padding)
	g.Changed()
	return err
}

func allSamePosition(nodes []*erd.Node) bool {
	first := nodes[0].Position
	for _, n := range nodes[1:] {
		if n.Position != first {
			return false
		}
	}
	return true
}

// seedGrid spreads stacked nodes over ceil(sqrt(n)) columns, each cell
// sized from its own node plus the gutter.
func seedGrid(nodes []*erd.Node, size func(int) (float64, float64), gutter float64) {
	cols := int(math.Ceil(math.Sqrt(float64(len(nodes)))))
	for i, n := range nodes {
		c := i % cols
		r := i / cols
		w, h := size(i)
		n.Position = geom.Point{
			X: float64(c) * (w + gutter),
			Y: float64(r) * (h + gutter),
		}
	}
}

// resolveCollisions pushes apart pairs whose padded rectangles intersect,
// along the axis of smaller overlap.
func resolveCollisions(nodes []*erd.Node, rectOf func(int) geom.Rect, p Params) {
	for pass := 0; pass < p.CollisionPasses; pass++ {
		overlapped := false

		for i := 0; i < len(nodes); i++ {
			for j := i + 1; j < len(nodes); j++ {
				ri := rectOf(i)
				rj := rectOf(j)
				if !ri.Expand(p.Padding).Intersects(rj.Expand(p.Padding)) {
					continue
				}
				overlapped = true

				ci := ri.Center()
				cj := rj.Center()
				dx := ci.X - cj.X
				dy := ci.Y - cj.Y
				if dx == 0 && dy == 0 {
					dx, dy = jitter, jitter
				}

				overlapX := (ri.W/2 + rj.W/2 + p.Padding) - math.Abs(dx)
				overlapY := (ri.H/2 + rj.H/2 + p.Padding) - math.Abs(dy)

				if overlapX < overlapY {
					sx := geom.Signum(dx) * (overlapX/2 + 0.5)
					nodes[i].Position.X += sx
					nodes[j].Position.X -= sx
				} else {
					sy := geom.Signum(dy) * (overlapY/2 + 0.5)
					nodes[i].Position.Y += sy
					nodes[j].Position.Y -= sy
				}
			}
		}

		if !overlapped {
			return
		}
	}
}

// normalize shifts the layout so no rectangle starts at a negative
// coordinate, leaving padding on each shifted axis.
func normalize(nodes []*erd.Node, rectOf func(int) geom.Rect, padding float64) {
	minX := math.Inf(1)
	minY := math.Inf(1)
	for i := range nodes {
		r := rectOf(i)
		minX = math.Min(minX, r.MinX())
		minY = math.Min(minY, r.MinY())
	}

	var shiftX, shiftY float64
	if minX < 0 {
		shiftX = -minX + padding
	}
	if minY < 0 {
		shiftY = -minY + padding
	}
	if shiftX == 0 && shiftY == 0 {
		return
	}
	for _, n := range nodes {
		n.Position.X += shiftX
		n.Position.Y += shiftY
	}
}
