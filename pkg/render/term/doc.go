// Package term renders routed snapshots as plain-text diagrams: box-drawing
// runes for nodes and cluster frames, sampled curve glyphs for edges, and
// triangle arrowheads pointing into the target box.
package term
