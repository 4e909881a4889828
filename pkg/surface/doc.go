// Package surface places diagram nodes on a terminal grid.
//
// Flow is the built-in surface: boxes flow in declaration order along the
// graph's direction, left-to-right flows wrap at the configured width, and
// clusters render as framed groups that travel as one unit. Cell sizes come
// from lipgloss box metrics, so what gets measured is exactly what a
// terminal renderer draws.
//
// A Flow implements the watcher's Surface interface: it hands out measurement
// handles for every node and emits a change notification whenever a resize
// or invalidation makes the current placement stale. Placement is recomputed
// lazily on the next measurement.
package surface
