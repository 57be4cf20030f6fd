// Package export renders the visible part of a diagram to files.
//
// # Overview
//
// Only nodes and edges that are not hidden are exported, so a collapsed
// subtree disappears from the output the same way it does on screen. The
// flow direction of the snapshot becomes the Graphviz rankdir.
//
// # Usage
//
// Convert a snapshot to DOT, then render to SVG or PNG:
//
//	dot := export.ToDOT(snap, export.Options{Detailed: true})
//	svg, err := export.RenderSVG(ctx, dot)
//
// Or pick the output by name:
//
//	f, _ := export.ParseFormat("png")
//	err := export.Write(ctx, snap, f, export.Options{}, w)
//
// # Formats
//
//   - dot: Graphviz source
//   - svg: vector image with a normalized viewBox
//   - png: raster image
//   - json: the snapshot itself, including hidden nodes
//
// SVG and PNG rendering uses the WebAssembly build of Graphviz bundled by
// go-graphviz; no system Graphviz is needed.
package export
