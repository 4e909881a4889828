// Package pkg provides the core libraries for Edgeloom diagram layout.
//
// # Overview
//
// Edgeloom turns plain-text diagram descriptions into laid-out, routed
// diagrams. A description names nodes, directed edges, and clusters; the
// engine measures node boxes on a surface, routes curved edges between
// them, and keeps the result fresh as the description or the surface
// changes. The pkg directory is organized into four main areas:
//
//  1. Model ([graph], [dot]) - the diagram model and its text formats
//  2. Geometry ([geo], [surface], [layout], [route]) - placement, measurement, routing
//  3. Output ([render/term]) - rendering a routed snapshot
//  4. Infrastructure ([pipeline], [cache], [config], [observability]) - orchestration
//
// # Architecture
//
// The typical data flow through Edgeloom:
//
//	DOT text / graph JSON
//	         ↓
//	    [dot] / [graph] package (parse into the model)
//	         ↓
//	    [surface] package (flow placement, box measurement)
//	         ↓
//	    [layout] package (debounced watcher → immutable snapshots)
//	         ↓
//	    [route] package (curved edge paths, arrowheads, label anchors)
//	         ↓
//	    terminal text / snapshot JSON output
//
// # Quick Start
//
// Run the whole pipeline through a runner:
//
//	import (
//	    "context"
//	    "fmt"
//
//	    "github.com/edgeloom/edgeloom/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(nil, nil)
//	defer runner.Close()
//
//	res, err := runner.Execute(context.Background(), pipeline.Options{
//	    Source: `digraph { rankdir=LR; a -> b [label="ok"]; b -> c }`,
//	    Width:  80,
//	})
//	if err != nil {
//	    // handle
//	}
//	fmt.Print(string(res.Output))
//
// Or drive the stages directly when embedding:
//
//	g, _ := dot.ParseString(`digraph { a -> b }`)
//	surf := surface.NewFlow(g, surface.Options{Width: 60})
//	w := layout.NewWatcher(g, surf, layout.Config{})
//	snap := w.Recompute()
//	width, height := surf.Size()
//	fmt.Print(term.Render(g, snap, surf.Frames(), width, height))
//
// # Main Packages
//
// ## Model
//
// [graph] - The diagram model: nodes, directed edges, clusters, reading
// direction. Also the JSON graph document format (Marshal/Unmarshal) and
// canonical DOT serialization (ToDOT).
//
// [dot] - DOT description parsing on top of the graphviz bindings. Directed
// graphs only; cluster subgraphs map to model clusters; styling attributes
// are carried into the model.
//
// ## Geometry
//
// [geo] - Points, rectangles, and cubic Bezier curves. Border anchoring,
// curve sampling, and midpoint math used by the router.
//
// [surface] - The flow surface: wraps node boxes into rows at a wrap width,
// measures each box from its label, and reports cluster frames. Emits a
// change event when resized or invalidated.
//
// [layout] - The layout watcher: listens to a surface's change events,
// debounces bursts, and recomputes an immutable snapshot (node rectangles,
// routed edges, sequence number). Snapshots serialize to a stable JSON form.
//
// [route] - Edge routing over measured rectangles: border-anchored cubic
// curves with a perpendicular bow, self-loops, parallel-edge fanning,
// arrowhead orientation, and label anchor placement.
//
// ## Output
//
// [render/term] - Renders a routed snapshot to terminal text on a rune
// canvas: cluster frames, curve samples, node boxes, arrowheads, labels.
//
// ## Infrastructure
//
// [pipeline] - The parse → layout → render pipeline used by every command.
// Validates options, caches parse and layout results, and reports stage
// timings.
//
// [cache] - Content-addressed result caching with file and Redis backends,
// plus scoped and null wrappers.
//
// [config] - TOML configuration with XDG-style default locations.
//
// [observability] - Process-wide hook points for pipeline, watcher, and
// cache events.
//
// [buildinfo] - Version metadata injected at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/route/...      # Specific package
//	go test -run Example         # Examples only
//
// [graph]: https://pkg.go.dev/github.com/edgeloom/edgeloom/pkg/graph
// [dot]: https://pkg.go.dev/github.com/edgeloom/edgeloom/pkg/dot
// [geo]: https://pkg.go.dev/github.com/edgeloom/edgeloom/pkg/geo
// [surface]: https://pkg.go.dev/github.com/edgeloom/edgeloom/pkg/surface
// [layout]: https://pkg.go.dev/github.com/edgeloom/edgeloom/pkg/layout
// [route]: https://pkg.go.dev/github.com/edgeloom/edgeloom/pkg/route
// [render/term]: https://pkg.go.dev/github.com/edgeloom/edgeloom/pkg/render/term
// [pipeline]: https://pkg.go.dev/github.com/edgeloom/edgeloom/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/edgeloom/edgeloom/pkg/cache
// [config]: https://pkg.go.dev/github.com/edgeloom/edgeloom/pkg/config
// [observability]: https://pkg.go.dev/github.com/edgeloom/edgeloom/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/edgeloom/edgeloom/pkg/buildinfo
package pkg
