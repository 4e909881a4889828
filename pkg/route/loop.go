package route

import "github.com/edgeloom/edgeloom/pkg/geo"

// loopPath routes a self-edge as a cubic hanging off the node's right side,
// entering at one third of the height and returning at two thirds. Each
// additional loop on the same node extends half an extent further out so
// stacked loops stay distinguishable.
func loopPath(r geo.Rect, seq int, o Options) geo.Path {
	x := r.X + r.W
	extent := o.LoopExtent * (1 + 0.5*float64(seq))
	top := geo.Pt(x, r.Y+r.H/3)
	bottom := geo.Pt(x, r.Y+2*r.H/3)
	return geo.Path{
		top,
		geo.Pt(x+extent, top.Y),
		geo.Pt(x+extent, bottom.Y),
		bottom,
	}
}
