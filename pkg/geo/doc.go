// Package geo provides the small set of 2D primitives the routing engine
// works in: points, axis-aligned rectangles, and quadratic/cubic Bezier
// curves.
//
// All coordinates live in a single shared space with the origin at the top
// left and Y growing downward, matching the render surface. A routed edge is
// represented as a [Path], an ordered control-point sequence: two points form
// a line, three a quadratic curve, four a cubic curve.
package geo
