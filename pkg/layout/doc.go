// Package layout measures node rectangles off a surface and keeps a routed
// snapshot of the diagram up to date.
//
// The surface owns node placement; this package only observes it. Measure
// collects the rectangles a surface reports for its nodes, and the Watcher
// drives the recompute loop: surface change notifications arm a debounce
// window so bursts collapse into a single pass. Each pass measures the nodes
// and routes every edge, then publishes an immutable Snapshot. Consumers
// either poll Latest or receive coalesced snapshots from Updates.
//
// The watcher moves through three states: idle, pending while the debounce
// window is open, and recomputing during a pass. A pass never blocks
// notification intake for long; recomputing a diagram is cheap compared to
// the debounce window.
package layout
