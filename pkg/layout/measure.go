package layout

import "github.com/edgeloom/edgeloom/pkg/geo"

// Handle reports the measured on-surface bounds of one node.
type Handle interface {
	// Bounds returns the node's rectangle in surface coordinates. ok is
	// false while the surface has not laid the node out yet.
	Bounds() (geo.Rect, bool)
}

// HandleFunc adapts a plain function to the Handle interface.
type HandleFunc func() (geo.Rect, bool)

// Bounds calls f.
func (f HandleFunc) Bounds() (geo.Rect, bool) { return f() }

// Measure queries every handle and collects the rectangles of nodes that are
// actually laid out. Handles that are nil, not ready, or report an empty
// rectangle are left out; the router skips edges touching them the same way.
func Measure(handles map[string]Handle) map[string]geo.Rect {
	rects := make(map[string]geo.Rect, len(handles))
	for id, h := range handles {
		if h == nil {
			continue
		}
		r, ok := h.Bounds()
		if !ok || r.Empty() {
			continue
		}
		rects[id] = r
	}
	return rects
}
