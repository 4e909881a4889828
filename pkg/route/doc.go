// Package route turns model edges plus measured node rectangles into
// drawable paths.
//
// Every edge is routed on the segment between its endpoint centers, clipped
// to the rectangle boundaries so paths start and end on box edges. Multiple
// edges between the same pair of nodes fan out as quadratic curves bowed to
// alternating sides, with the bow height proportional to the distance
// between the nodes. Self-edges become cubic loops hanging off the node's
// right side. Each routed edge also carries a label anchor offset from the
// curve midpoint along the outward normal, and the arrow direction at the
// target end.
//
// Routing is pure geometry: it never mutates the graph, and edges whose
// endpoints have not been measured yet are left out of the result.
package route
