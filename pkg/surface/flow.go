package surface

import (
	"slices"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/edgeloom/edgeloom/pkg/geo"
	"github.com/edgeloom/edgeloom/pkg/graph"
	"github.com/edgeloom/edgeloom/pkg/layout"
)

// boxStyle is the node box chrome that gets measured: one border cell and
// one padding cell per side around the label.
var boxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	Padding(0, 1)

// Cluster frame chrome in cells. The extra top inset holds the cluster label
// row inside the frame border.
const (
	frameInsetX      = 3
	frameInsetTop    = 2
	frameInsetBottom = 1
)

// Options tunes the flow placement. The zero value uses the defaults.
type Options struct {
	// Width is the wrap width in cells for horizontal flows (default 80).
	Width int
	// GapX and GapY separate flow items (defaults 6 and 2), leaving room
	// for connectors between boxes.
	GapX int
	GapY int
	// Margin is the outer margin in cells (default 1).
	Margin int
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 80
	}
	if o.GapX <= 0 {
		o.GapX = 6
	}
	if o.GapY <= 0 {
		o.GapY = 2
	}
	if o.Margin <= 0 {
		o.Margin = 1
	}
	return o
}

// Frame is a placed cluster outline: the renderer draws its border and label
// around the member boxes.
type Frame struct {
	ID    string
	Label string
	Rect  geo.Rect
}

// Flow places node boxes in declaration order along the graph's direction.
// Horizontal flows wrap at the configured width; reversed directions flow
// the same geometry in reverse order. Cluster members travel together inside
// a frame.
//
// Flow implements the layout watcher's Surface. Placement is lazy: a resize
// or invalidation only marks the layout stale and emits a change event, and
// the next measurement recomputes it.
type Flow struct {
	mu      sync.Mutex
	g       *graph.Graph
	opts    Options
	rects   map[string]geo.Rect
	frames  []Frame
	width   int
	height  int
	laidOut bool
	events  chan struct{}
}

var _ layout.Surface = (*Flow)(nil)

// NewFlow creates a flow surface for the graph.
func NewFlow(g *graph.Graph, opts Options) *Flow {
	return &Flow{
		g:      g,
		opts:   opts.withDefaults(),
		rects:  map[string]geo.Rect{},
		events: make(chan struct{}, 8),
	}
}

// Resize sets the wrap width and invalidates the placement. Unchanged or
// non-positive widths are ignored.
func (f *Flow) Resize(width int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if width <= 0 || width == f.opts.Width {
		return
	}
	f.opts.Width = width
	f.laidOut = false
	f.notifyLocked()
}

// Invalidate marks the placement stale and emits a change event.
func (f *Flow) Invalidate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.laidOut = false
	f.notifyLocked()
}

// Sync recomputes the placement now if it is stale.
func (f *Flow) Sync() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ensureLocked()
}

// Size returns the total surface extent in cells, including margins.
func (f *Flow) Size() (width, height int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ensureLocked()
	return f.width, f.height
}

// Frames returns the placed cluster frames in declaration order.
func (f *Flow) Frames() []Frame {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ensureLocked()
	out := make([]Frame, len(f.frames))
	copy(out, f.frames)
	return out
}

// Events returns the change notification stream. Notifications are dropped
// rather than queued when nobody keeps up; the layout watcher coalesces
// them anyway.
func (f *Flow) Events() <-chan struct{} {
	return f.events
}

// Handles returns a measurement handle per node. Each handle reads the
// node's current rectangle, recomputing a stale placement on demand.
func (f *Flow) Handles() map[string]layout.Handle {
	handles := make(map[string]layout.Handle, f.g.NodeCount())
	for _, id := range f.g.NodeIDs() {
		handles[id] = layout.HandleFunc(func() (geo.Rect, bool) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.ensureLocked()
			r, ok := f.rects[id]
			return r, ok
		})
	}
	return handles
}

func (f *Flow) notifyLocked() {
	select {
	case f.events <- struct{}{}:
	default:
	}
}

func (f *Flow) ensureLocked() {
	if !f.laidOut {
		f.layoutLocked()
	}
}

// flowItem is one placement unit: a bare node or a whole cluster frame.
type flowItem struct {
	frame *graph.Cluster // nil for a bare node
	nodes []string
	w, h  int
}

func (f *Flow) layoutLocked() {
	sizes := make(map[string][2]int, f.g.NodeCount())
	for _, n := range f.g.Nodes() {
		w, h := boxSize(n.DisplayLabel())
		sizes[n.ID] = [2]int{w, h}
	}

	items := f.buildItems(sizes)
	if f.g.Direction().Reversed() {
		slices.Reverse(items)
		for _, it := range items {
			slices.Reverse(it.nodes)
		}
	}

	f.rects = make(map[string]geo.Rect, f.g.NodeCount())
	f.frames = f.frames[:0]

	o := f.opts
	horizontal := f.g.Direction().Horizontal()
	x, y := o.Margin, o.Margin
	maxX, maxY := 0, 0
	rowExtent := 0

	for _, it := range items {
		if horizontal {
			if x > o.Margin && x+it.w > o.Width {
				x = o.Margin
				y += rowExtent + o.GapY
				rowExtent = 0
			}
			f.placeItem(it, x, y, sizes)
			if right := x + it.w; right > maxX {
				maxX = right
			}
			if bottom := y + it.h; bottom > maxY {
				maxY = bottom
			}
			x += it.w + o.GapX
			if it.h > rowExtent {
				rowExtent = it.h
			}
		} else {
			f.placeItem(it, x, y, sizes)
			if right := x + it.w; right > maxX {
				maxX = right
			}
			maxY = y + it.h
			y += it.h + o.GapY
		}
	}

	f.width = maxX + o.Margin
	f.height = maxY + o.Margin
	f.laidOut = true
}

// buildItems walks nodes in declaration order; a cluster becomes one item at
// its first member's position, with the member extent flowed along the main
// axis.
func (f *Flow) buildItems(sizes map[string][2]int) []*flowItem {
	var items []*flowItem
	emitted := map[string]bool{}
	horizontal := f.g.Direction().Horizontal()

	for _, n := range f.g.Nodes() {
		c, ok := f.g.ClusterOf(n.ID)
		if !ok {
			s := sizes[n.ID]
			items = append(items, &flowItem{nodes: []string{n.ID}, w: s[0], h: s[1]})
			continue
		}
		if emitted[c.ID] {
			continue
		}
		emitted[c.ID] = true
		if len(c.Nodes) == 0 {
			continue
		}

		it := &flowItem{frame: c, nodes: slices.Clone(c.Nodes)}
		innerW, innerH := 0, 0
		for i, id := range it.nodes {
			s := sizes[id]
			if horizontal {
				if i > 0 {
					innerW += f.opts.GapX
				}
				innerW += s[0]
				innerH = max(innerH, s[1])
			} else {
				if i > 0 {
					innerH += f.opts.GapY
				}
				innerH += s[1]
				innerW = max(innerW, s[0])
			}
		}
		it.w = innerW + 2*frameInsetX
		it.h = innerH + frameInsetTop + frameInsetBottom
		items = append(items, it)
	}
	return items
}

func (f *Flow) placeItem(it *flowItem, x, y int, sizes map[string][2]int) {
	if it.frame == nil {
		id := it.nodes[0]
		s := sizes[id]
		f.rects[id] = geo.RectAt(float64(x), float64(y), float64(s[0]), float64(s[1]))
		return
	}

	f.frames = append(f.frames, Frame{
		ID:    it.frame.ID,
		Label: it.frame.DisplayLabel(),
		Rect:  geo.RectAt(float64(x), float64(y), float64(it.w), float64(it.h)),
	})
	cx, cy := x+frameInsetX, y+frameInsetTop
	horizontal := f.g.Direction().Horizontal()
	for _, id := range it.nodes {
		s := sizes[id]
		f.rects[id] = geo.RectAt(float64(cx), float64(cy), float64(s[0]), float64(s[1]))
		if horizontal {
			cx += s[0] + f.opts.GapX
		} else {
			cy += s[1] + f.opts.GapY
		}
	}
}

// boxSize measures the rendered box for a label, in cells.
func boxSize(label string) (int, int) {
	s := boxStyle.Render(label)
	return lipgloss.Width(s), lipgloss.Height(s)
}
