// Package dot parses DOT description text into the graph model.
//
// Parsing is delegated to the graphviz cgraph grammar, so quoted and HTML-like
// identifiers, comments, attribute defaults, and edge chains (a -> b -> c) all
// behave exactly as they do in graphviz. On top of the raw parse this package
// applies the model's conventions:
//
//   - Only directed graphs are accepted; `graph { ... }` input is rejected
//     with ErrUndirected.
//   - Nodes first seen inside an edge statement are materialized with default
//     attributes.
//   - Subgraphs named cluster* become model clusters. Nesting is flattened:
//     each node belongs to its innermost enclosing cluster.
//   - The parser keeps the label, the flow direction (rankdir), and a small
//     set of styling attributes; other attributes are dropped.
//
// Malformed text is reported as *ParseError with the line and offending token
// when the underlying diagnostic carries them.
package dot
