// Package render draws transportation plans as Graphviz diagrams.
//
// # Overview
//
// The basis of a plan is a bipartite graph: one node per source, one per
// destination, and one edge per basic cell. A healthy basis is a spanning
// tree with n+m-1 edges. Drawing it makes two things easy to see:
//
//   - which cells carry flow and which are epsilon placeholders
//   - whether degeneracy repair produced a cycle or a disconnected basis,
//     which blocks the stepping-stone search for some cells
//
// # Usage
//
//	dot := render.ToDOT(plan.Allocation, render.Options{Costs: &p.Costs})
//	svg, err := render.RenderSVG(dot)
//
// To show a pivot, pass the entering cell and its loop:
//
//	dot := render.ToDOT(before, render.Options{Entering: &ev.Entering, Loop: ev.Path})
//
// # Styling
//
// Sources are drawn as boxes on the left, destinations as ellipses on the
// right. Edges are labeled with the shipped quantity (and the unit cost when
// Options.Costs is set). Epsilon edges are dashed and labeled "ε". Loop
// edges are red and the entering cell is a dotted blue edge.
package render
