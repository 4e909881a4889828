package geo

// QuadBez represents a quadratic Bezier curve.
// P0 is the start point, P1 the control point, P2 the end point.
type QuadBez struct {
	P0, P1, P2 Point
}

// Eval evaluates the curve at parameter t in [0, 1].
func (q QuadBez) Eval(t float64) Point {
	mt := 1 - t
	// (1-t)^2 * P0 + 2(1-t)t * P1 + t^2 * P2
	return Point{
		X: mt*mt*q.P0.X + 2*mt*t*q.P1.X + t*t*q.P2.X,
		Y: mt*mt*q.P0.Y + 2*mt*t*q.P1.Y + t*t*q.P2.Y,
	}
}

// Tangent returns the derivative of the curve at parameter t. The result is
// not normalized; a zero vector means the curve is degenerate at t.
func (q QuadBez) Tangent(t float64) Point {
	mt := 1 - t
	// 2(1-t)(P1-P0) + 2t(P2-P1)
	return q.P1.Sub(q.P0).Mul(2 * mt).Add(q.P2.Sub(q.P1).Mul(2 * t))
}

// CubicBez represents a cubic Bezier curve.
// P0 is the start point, P1 and P2 the control points, P3 the end point.
type CubicBez struct {
	P0, P1, P2, P3 Point
}

// Eval evaluates the curve at parameter t in [0, 1].
func (c CubicBez) Eval(t float64) Point {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	d := 3 * mt * t * t
	e := t * t * t
	return Point{
		X: a*c.P0.X + b*c.P1.X + d*c.P2.X + e*c.P3.X,
		Y: a*c.P0.Y + b*c.P1.Y + d*c.P2.Y + e*c.P3.Y,
	}
}

// Tangent returns the derivative of the curve at parameter t.
func (c CubicBez) Tangent(t float64) Point {
	mt := 1 - t
	return c.P1.Sub(c.P0).Mul(3 * mt * mt).
		Add(c.P2.Sub(c.P1).Mul(6 * mt * t)).
		Add(c.P3.Sub(c.P2).Mul(3 * t * t))
}

// Path is a routed edge expressed as an ordered control-point sequence:
// two points form a line segment, three a quadratic Bezier, four a cubic
// Bezier. Other lengths are not valid paths.
type Path []Point

// Valid reports whether the path has a drawable control-point count.
func (p Path) Valid() bool {
	return len(p) >= 2 && len(p) <= 4
}

// Start returns the first control point.
func (p Path) Start() Point {
	if len(p) == 0 {
		return Point{}
	}
	return p[0]
}

// End returns the last control point.
func (p Path) End() Point {
	if len(p) == 0 {
		return Point{}
	}
	return p[len(p)-1]
}

// Eval evaluates the path at parameter t in [0, 1] according to its degree.
func (p Path) Eval(t float64) Point {
	switch len(p) {
	case 2:
		return p[0].Lerp(p[1], t)
	case 3:
		return QuadBez{p[0], p[1], p[2]}.Eval(t)
	case 4:
		return CubicBez{p[0], p[1], p[2], p[3]}.Eval(t)
	default:
		return Point{}
	}
}

// Tangent returns the path's direction of travel at parameter t. When the
// curve derivative degenerates to zero the chord direction is used instead,
// so callers only see a zero tangent for a fully degenerate path.
func (p Path) Tangent(t float64) Point {
	var d Point
	switch len(p) {
	case 2:
		d = p[1].Sub(p[0])
	case 3:
		d = QuadBez{p[0], p[1], p[2]}.Tangent(t)
	case 4:
		d = CubicBez{p[0], p[1], p[2], p[3]}.Tangent(t)
	default:
		return Point{}
	}
	if d.IsZero() {
		d = p.End().Sub(p.Start())
	}
	return d
}
