// Package graph defines the diagram model: nodes, directed edges, clusters,
// and the two wire formats the rest of the system consumes.
//
// # Model
//
//   - [Node]: a labeled box, identified by a unique string ID
//   - [Edge]: a directed, optionally labeled connection between two node IDs
//   - [Cluster]: a named group of nodes rendered as a framed section
//   - [Graph]: nodes in declaration order, edges in insertion order
//
// A Graph is built once, whether by the DOT parser (pkg/dot), from a JSON
// document, or programmatically, and is read-only from then on. Editing a
// diagram means parsing a new Graph, never mutating a published one.
// Measured geometry never lives here; it belongs to layout snapshots.
//
// # Structural Validation
//
// Construction validates as it goes: [Graph.AddNode] rejects empty and
// duplicate IDs, [Graph.AddEdge] rejects endpoints that are not declared
// nodes, [Graph.AddCluster] rejects unknown members. The sentinel errors
// ([ErrDuplicateNodeID], [ErrUnknownTargetNode], ...) are wrapped together
// with the offending identifier, so callers can both match with errors.Is
// and report the exact name.
//
// # Wire Formats
//
// JSON ([Marshal], [Unmarshal], [ReadFile], [WriteFile]) is the structured
// format: declarations are explicit, and a decoded edge naming an undeclared
// node fails with the same structural errors as programmatic construction.
//
// DOT ([ToDOT]) serializes a Graph back to canonical description text. A
// graph parsed from DOT, serialized with ToDOT, and parsed again yields the
// same model (see pkg/dot for the parser and its implicit-node policy).
//
// # Concurrency
//
// Safe for concurrent reads after construction; not safe for concurrent
// mutation.
package graph
