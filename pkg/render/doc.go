// Package render groups Edgeloom's output renderers.
//
// # Overview
//
// A renderer consumes a routed layout snapshot and produces a concrete
// artifact. There is currently one renderer:
//
//   - Terminal text (in [term] subpackage)
//
// The snapshot's JSON wire form is not a renderer; it lives with the
// snapshot itself in the layout package.
//
// # Terminal Rendering
//
// The [term] subpackage draws a snapshot onto a rune canvas sized to the
// surface: cluster frames first, then sampled edge curves, then node boxes
// over them, then arrowheads and labels.
//
//	width, height := surf.Size()
//	text := term.Render(g, snap, surf.Frames(), width, height)
//	fmt.Print(text)
//
// [term]: github.com/edgeloom/edgeloom/pkg/render/term
package render
