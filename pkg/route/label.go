package route

import (
	"math"

	"github.com/edgeloom/edgeloom/pkg/geo"
)

// labelAnchor places a label beside the curve midpoint, pushed outward along
// the normal. Outward means the side the curve bows toward; a straight
// connector has no bow, and the tie breaks to the positive perpendicular
// (below a left-to-right edge in screen coordinates).
func labelAnchor(p geo.Path, offset float64) geo.Point {
	apex := p.Eval(0.5)
	n := p.Tangent(0.5).Perp().Normalize()
	if n.IsZero() {
		return apex
	}
	side := apex.Sub(p.Start().Lerp(p.End(), 0.5))
	if n.Dot(side) < 0 {
		n = n.Mul(-1)
	}
	return apex.Add(n.Mul(offset))
}

// arrowAngle is the direction of travel at the target endpoint, in degrees
// of screen coordinates.
func arrowAngle(p geo.Path) float64 {
	return p.Tangent(1).Angle() * 180 / math.Pi
}
