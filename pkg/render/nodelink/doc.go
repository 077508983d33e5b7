// Package nodelink renders MNRL networks as node-link diagrams.
//
// # Usage
//
// Convert a network to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(net, nodelink.Options{Ports: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Direction: Graphviz rankdir, LR by default
//   - Ports: draw nodes as records with one field per port
//   - Detailed: include typed fields and attributes in labels
//
// Node shapes follow the variant: ellipses for states, a 3D box for
// counters, an inverted trapezium for boolean gates and a plain box for
// generic elements. Reporting nodes get a double outline.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz], which runs Graphviz
// in-process, so no external binary is needed for SVG or PNG output.
package nodelink
