package layout

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/edgeloom/edgeloom/pkg/graph"
	"github.com/edgeloom/edgeloom/pkg/observability"
	"github.com/edgeloom/edgeloom/pkg/route"
)

// DefaultDebounce is the quiet window the watcher waits for after a change
// notification before recomputing.
const DefaultDebounce = 40 * time.Millisecond

// State is the watcher's position in its recompute cycle.
type State int32

const (
	// Idle means no change is outstanding.
	Idle State = iota
	// Pending means a change arrived and the debounce window is open.
	Pending
	// Recomputing means a layout pass is running.
	Recomputing
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Recomputing:
		return "recomputing"
	default:
		return "idle"
	}
}

// Surface is the watcher's view of a rendering surface: node handles to
// measure and a stream of change notifications. Notifications carry no
// payload; any change to the surface invalidates the whole layout.
type Surface interface {
	Handles() map[string]Handle
	Events() <-chan struct{}
}

// Config tunes a Watcher. The zero value uses the default debounce, default
// routing geometry, and a discarding logger.
type Config struct {
	Debounce time.Duration
	Route    route.Options
	Logger   *log.Logger
}

func (c Config) withDefaults() Config {
	if c.Debounce <= 0 {
		c.Debounce = DefaultDebounce
	}
	if c.Logger == nil {
		c.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return c
}

// Watcher keeps a routed snapshot of one graph on one surface up to date.
// Change notifications are debounced: a burst of events collapses into a
// single layout pass once the surface goes quiet for the configured window.
//
// Latest and State are safe to call from any goroutine at any time.
type Watcher struct {
	graph   *graph.Graph
	surface Surface
	cfg     Config

	mu      sync.Mutex // serializes recomputes
	seq     uint64
	latest  atomic.Pointer[Snapshot]
	state   atomic.Int32
	updates chan *Snapshot
}

// NewWatcher creates a watcher for the graph on the surface. Run starts the
// debounce loop; Recompute works without it.
func NewWatcher(g *graph.Graph, surface Surface, cfg Config) *Watcher {
	return &Watcher{
		graph:   g,
		surface: surface,
		cfg:     cfg.withDefaults(),
		updates: make(chan *Snapshot, 1),
	}
}

// Latest returns the most recently published snapshot, or nil before the
// first pass.
func (w *Watcher) Latest() *Snapshot {
	return w.latest.Load()
}

// State returns the watcher's current state.
func (w *Watcher) State() State {
	return State(w.state.Load())
}

// Updates returns a channel carrying published snapshots. The channel holds
// at most one pending snapshot: when a consumer lags, older snapshots are
// dropped so it always receives the newest one next.
func (w *Watcher) Updates() <-chan *Snapshot {
	return w.updates
}

// Run performs an initial layout pass and then services change notifications
// until the context is done. Each notification opens (or re-opens) the
// debounce window; the pass runs when the window closes quietly. Run returns
// the context's error.
func (w *Watcher) Run(ctx context.Context) error {
	w.Recompute()

	events := w.surface.Events()
	var timer *time.Timer
	var fire <-chan time.Time
	stopTimer := func() {
		if timer != nil {
			timer.Stop()
			timer, fire = nil, nil
		}
	}
	defer stopTimer()

	for {
		select {
		case <-ctx.Done():
			w.state.Store(int32(Idle))
			return ctx.Err()

		case _, ok := <-events:
			if !ok {
				// Surface torn down; nothing left to watch.
				events = nil
				continue
			}
			observability.Watch().OnChange()
			stopTimer()
			timer = time.NewTimer(w.cfg.Debounce)
			fire = timer.C
			w.state.Store(int32(Pending))

		case <-fire:
			timer, fire = nil, nil
			w.Recompute()
		}
	}
}

// Recompute runs one layout pass now: measure every handle, route every
// edge, publish the snapshot. It is safe to call concurrently with Run; a
// manual pass does not disarm an open debounce window, so an armed pass
// still runs afterwards.
func (w *Watcher) Recompute() *Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.seq++
	seq := w.seq
	w.state.Store(int32(Recomputing))
	observability.Watch().OnRecomputeStart(seq)

	start := time.Now()
	rects := Measure(w.surface.Handles())
	edges := route.Edges(w.graph, rects, w.cfg.Route)
	snap := &Snapshot{
		ID:    uuid.New(),
		Seq:   seq,
		Rects: rects,
		Edges: edges,
		Took:  time.Since(start),
	}

	w.latest.Store(snap)
	w.state.Store(int32(Idle))
	w.publish(snap)
	observability.Watch().OnRecomputeComplete(seq, len(rects), len(edges), snap.Took)
	if skipped := w.graph.EdgeCount() - len(edges); skipped > 0 {
		w.cfg.Logger.Debug("edges waiting on measurements", "seq", seq, "skipped", skipped)
	}
	w.cfg.Logger.Debug("layout recomputed",
		"seq", seq, "nodes", len(rects), "edges", len(edges), "took", snap.Took)
	return snap
}

// publish offers the snapshot on the updates channel, displacing a stale
// undelivered one rather than blocking.
func (w *Watcher) publish(s *Snapshot) {
	for {
		select {
		case w.updates <- s:
			return
		default:
		}
		select {
		case <-w.updates:
		default:
		}
	}
}
