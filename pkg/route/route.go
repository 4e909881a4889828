package route

import (
	"github.com/edgeloom/edgeloom/pkg/geo"
	"github.com/edgeloom/edgeloom/pkg/graph"
)

// Default routing geometry. Values are in surface units (pixels for the
// terminal surface's cell-derived coordinates).
const (
	// DefaultBowFactor is the bow height of a fanned curve as a fraction of
	// the chord length, per fan step.
	DefaultBowFactor = 0.15
	// DefaultLabelOffset is how far a label anchor sits from the curve
	// midpoint, along the outward normal.
	DefaultLabelOffset = 20.0
	// DefaultLoopExtent is how far a self-loop reaches beyond the node's
	// right side.
	DefaultLoopExtent = 40.0
)

// Options tunes the routing geometry. The zero value uses the defaults.
type Options struct {
	BowFactor   float64
	LabelOffset float64
	LoopExtent  float64
}

func (o Options) withDefaults() Options {
	if o.BowFactor == 0 {
		o.BowFactor = DefaultBowFactor
	}
	if o.LabelOffset == 0 {
		o.LabelOffset = DefaultLabelOffset
	}
	if o.LoopExtent == 0 {
		o.LoopExtent = DefaultLoopExtent
	}
	return o
}

// Edge is a routed edge ready for drawing.
type Edge struct {
	From  string
	To    string
	Label string

	// Path holds the control points: two for a straight connector, three
	// for a fanned quadratic, four for a self-loop cubic.
	Path geo.Path

	// LabelAnchor is where the label centers, offset from the curve
	// midpoint along the outward normal. Meaningful when Label is set but
	// always computed.
	LabelAnchor geo.Point

	// ArrowAngle is the direction of travel at the target end, in degrees
	// of screen coordinates: 0 points right, 90 points down.
	ArrowAngle float64
}

// Edges routes every edge of the graph against the measured rectangles.
// Edges with an unmeasured endpoint are skipped; a later pass re-routes them
// once measurements exist. The result order follows the graph's edge order,
// so output is deterministic for a given graph and rectangle set.
func Edges(g *graph.Graph, rects map[string]geo.Rect, opts Options) []Edge {
	o := opts.withDefaults()
	seq := map[pairKey]int{}
	out := make([]Edge, 0, g.EdgeCount())

	for _, e := range g.Edges() {
		a, okA := rects[e.From]
		b, okB := rects[e.To]
		if !okA || !okB {
			continue
		}

		key := canonicalPair(e.From, e.To)
		k := seq[key]
		seq[key]++

		var path geo.Path
		if e.From == e.To {
			path = loopPath(a, k, o)
		} else {
			fan := fanIndex(k)
			// Opposite-direction partners share the fan sequence; folding
			// the sign into the canonical orientation keeps them on
			// distinct sides.
			if e.From != key.lo {
				fan = -fan
			}
			var ok bool
			path, ok = connector(a, b, fan, o)
			if !ok {
				continue
			}
		}

		out = append(out, Edge{
			From:        e.From,
			To:          e.To,
			Label:       e.Label,
			Path:        path,
			LabelAnchor: labelAnchor(path, o.LabelOffset),
			ArrowAngle:  arrowAngle(path),
		})
	}
	return out
}

// connector routes a non-loop edge. Endpoints are the boundary crossings of
// the center-to-center segment; when a center sits inside the other node's
// rectangle the clip has nowhere to land and the raw center is used, so
// overlapping boxes still get a visible connector. Coincident centers are
// unroutable.
func connector(a, b geo.Rect, fan int, o Options) (geo.Path, bool) {
	ca, cb := a.Center(), b.Center()
	if ca == cb {
		return nil, false
	}
	start, ok := a.ClipRay(cb)
	if !ok {
		start = ca
	}
	end, ok := b.ClipRay(ca)
	if !ok {
		end = cb
	}

	chord := end.Sub(start)
	if fan == 0 || chord.IsZero() {
		return geo.Path{start, end}, true
	}
	bow := float64(fan) * o.BowFactor * chord.Length()
	ctrl := start.Lerp(end, 0.5).Add(chord.Perp().Normalize().Mul(bow))
	return geo.Path{start, ctrl, end}, true
}

// pairKey identifies an unordered node pair, so A->B and B->A share one fan
// sequence.
type pairKey struct{ lo, hi string }

func canonicalPair(a, b string) pairKey {
	if a <= b {
		return pairKey{a, b}
	}
	return pairKey{b, a}
}

// fanIndex maps an edge's sequence number within its pair group to a fan
// step: 0, +1, -1, +2, -2, ...
func fanIndex(seq int) int {
	if seq == 0 {
		return 0
	}
	half := (seq + 1) / 2
	if seq%2 == 1 {
		return half
	}
	return -half
}
