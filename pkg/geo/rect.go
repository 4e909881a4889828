package geo

// boundaryEps absorbs floating-point noise when deciding whether a point
// sits on a rectangle edge or a ray parameter is still inside a segment.
const boundaryEps = 1e-9

// Rect is an axis-aligned rectangle given by its top-left origin and size.
type Rect struct {
	X, Y, W, H float64
}

// RectAt is a convenience constructor for a Rect.
func RectAt(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Empty reports whether the rectangle has no usable area. A node whose
// surface handle reports an empty rectangle is treated as not yet laid out.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains reports whether the point lies inside the rectangle or on its
// boundary.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// OnBoundary reports whether the point lies on the rectangle's boundary,
// within a small tolerance.
func (r Rect) OnBoundary(p Point) bool {
	onX := (near(p.X, r.X) || near(p.X, r.X+r.W)) && p.Y >= r.Y-boundaryEps && p.Y <= r.Y+r.H+boundaryEps
	onY := (near(p.Y, r.Y) || near(p.Y, r.Y+r.H)) && p.X >= r.X-boundaryEps && p.X <= r.X+r.W+boundaryEps
	return onX || onY
}

// ClipRay returns the point where the segment from the rectangle's center to
// the target crosses the rectangle boundary. It reports false when the
// segment never leaves the rectangle (target inside or equal to the center),
// which callers treat as unroutable geometry.
func (r Rect) ClipRay(target Point) (Point, bool) {
	c := r.Center()
	d := target.Sub(c)
	if d.IsZero() || r.Empty() {
		return Point{}, false
	}

	// Walk the four sides and keep the nearest forward crossing.
	tMin := -1.0
	if d.X != 0 {
		for _, x := range [2]float64{r.X, r.X + r.W} {
			t := (x - c.X) / d.X
			if t <= 0 {
				continue
			}
			y := c.Y + t*d.Y
			if y < r.Y-boundaryEps || y > r.Y+r.H+boundaryEps {
				continue
			}
			if tMin < 0 || t < tMin {
				tMin = t
			}
		}
	}
	if d.Y != 0 {
		for _, y := range [2]float64{r.Y, r.Y + r.H} {
			t := (y - c.Y) / d.Y
			if t <= 0 {
				continue
			}
			x := c.X + t*d.X
			if x < r.X-boundaryEps || x > r.X+r.W+boundaryEps {
				continue
			}
			if tMin < 0 || t < tMin {
				tMin = t
			}
		}
	}
	if tMin < 0 || tMin > 1+boundaryEps {
		return Point{}, false
	}
	return c.Add(d.Mul(tMin)), true
}

func near(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff <= boundaryEps
}
