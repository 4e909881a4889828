package term

import (
	"math"
	"strings"

	"github.com/edgeloom/edgeloom/pkg/geo"
	"github.com/edgeloom/edgeloom/pkg/graph"
	"github.com/edgeloom/edgeloom/pkg/layout"
	"github.com/edgeloom/edgeloom/pkg/route"
	"github.com/edgeloom/edgeloom/pkg/surface"
)

// Render draws a routed snapshot as plain terminal text: cluster frames
// first, then edge paths, then node boxes over them, then arrowheads and
// labels. Node boxes clear their interior, so edges never bleed through a
// box they pass under.
func Render(g *graph.Graph, snap *layout.Snapshot, frames []surface.Frame, width, height int) string {
	c := NewCanvas(width, height)

	for _, f := range frames {
		drawFrame(c, f)
	}
	for _, e := range snap.Edges {
		drawPath(c, e.Path)
	}
	for _, n := range g.Nodes() {
		if r, ok := snap.Rects[n.ID]; ok {
			drawBox(c, r, n.DisplayLabel())
		}
	}
	for _, e := range snap.Edges {
		drawArrow(c, e)
	}
	for _, e := range snap.Edges {
		if e.Label != "" {
			drawEdgeLabel(c, e)
		}
	}
	return c.String()
}

// cell truncates a surface coordinate to its grid cell. Surfaces produce
// non-negative geometry, so truncation is a floor.
func cell(v float64) int { return int(v) }

func drawBox(c *Canvas, r geo.Rect, label string) {
	x0, y0 := cell(r.X), cell(r.Y)
	x1, y1 := cell(r.X+r.W)-1, cell(r.Y+r.H)-1
	if x1 <= x0 || y1 <= y0 {
		return
	}

	for x := x0 + 1; x < x1; x++ {
		c.Set(x, y0, '─')
		c.Set(x, y1, '─')
	}
	for y := y0 + 1; y < y1; y++ {
		c.Set(x0, y, '│')
		c.Set(x1, y, '│')
		for x := x0 + 1; x < x1; x++ {
			c.Set(x, y, ' ')
		}
	}
	c.Set(x0, y0, '╭')
	c.Set(x1, y0, '╮')
	c.Set(x0, y1, '╰')
	c.Set(x1, y1, '╯')

	lines := strings.Split(label, "\n")
	innerW, innerH := x1-x0-1, y1-y0-1
	top := y0 + 1 + (innerH-len(lines))/2
	for i, line := range lines {
		runes := []rune(line)
		if len(runes) > innerW {
			runes = runes[:innerW]
		}
		x := x0 + 1 + (innerW-len(runes))/2
		c.Text(x, top+i, string(runes))
	}
}

// drawFrame draws a cluster outline with square corners, the label sitting
// in the top border.
func drawFrame(c *Canvas, f surface.Frame) {
	r := f.Rect
	x0, y0 := cell(r.X), cell(r.Y)
	x1, y1 := cell(r.X+r.W)-1, cell(r.Y+r.H)-1
	if x1 <= x0 || y1 <= y0 {
		return
	}

	for x := x0 + 1; x < x1; x++ {
		c.Set(x, y0, '─')
		c.Set(x, y1, '─')
	}
	for y := y0 + 1; y < y1; y++ {
		c.Set(x0, y, '│')
		c.Set(x1, y, '│')
	}
	c.Set(x0, y0, '┌')
	c.Set(x1, y0, '┐')
	c.Set(x0, y1, '└')
	c.Set(x1, y1, '┘')

	if f.Label != "" {
		c.Text(x0+2, y0, " "+f.Label+" ")
	}
}

// drawPath samples the curve and writes a direction glyph whenever the
// sample crosses into a new cell.
func drawPath(c *Canvas, p geo.Path) {
	if len(p) < 2 {
		return
	}
	steps := int(polylineLen(p) * 2)
	if steps < 8 {
		steps = 8
	}
	if steps > 1024 {
		steps = 1024
	}

	prev := p.Eval(0)
	c.Set(cell(prev.X), cell(prev.Y), lineGlyph(p.Tangent(0)))
	for i := 1; i <= steps; i++ {
		pt := p.Eval(float64(i) / float64(steps))
		if x, y := cell(pt.X), cell(pt.Y); x != cell(prev.X) || y != cell(prev.Y) {
			c.Set(x, y, lineGlyph(pt.Sub(prev)))
		}
		prev = pt
	}
}

func drawArrow(c *Canvas, e route.Edge) {
	rad := e.ArrowAngle * math.Pi / 180
	// One cell back from the endpoint, so the head sits beside the box
	// border instead of on it.
	pos := e.Path.End().Sub(geo.Pt(math.Cos(rad), math.Sin(rad)))
	c.Set(cell(pos.X), cell(pos.Y), arrowGlyph(e.ArrowAngle))
}

func drawEdgeLabel(c *Canvas, e route.Edge) {
	runes := []rune(e.Label)
	x := cell(e.LabelAnchor.X) - len(runes)/2
	c.Text(x, cell(e.LabelAnchor.Y), e.Label)
}

// lineGlyph picks the stroke for a travel direction: within about 26 degrees
// of an axis the straight glyphs win, anything steeper is a diagonal.
func lineGlyph(d geo.Point) rune {
	adx, ady := math.Abs(d.X), math.Abs(d.Y)
	switch {
	case ady <= adx*0.5:
		return '─'
	case adx <= ady*0.5:
		return '│'
	case (d.X > 0) == (d.Y > 0):
		return '╲'
	default:
		return '╱'
	}
}

func arrowGlyph(deg float64) rune {
	switch {
	case deg >= -45 && deg < 45:
		return '▶'
	case deg >= 45 && deg < 135:
		return '▼'
	case deg >= -135 && deg < -45:
		return '▲'
	default:
		return '◀'
	}
}

func polylineLen(p geo.Path) float64 {
	total := 0.0
	for i := 1; i < len(p); i++ {
		total += p[i].Distance(p[i-1])
	}
	return total
}
