// Package render draws allocations and header layouts as Graphviz diagrams.
//
// # Overview
//
// Two diagrams are produced as DOT source:
//
//   - [PositionsDOT]: one cluster per suite holding its candidate offsets.
//     Exclusive offsets are filled; dashed edges join candidates of
//     different suites whose cornerstones would overlap.
//   - [PlacementDOT]: a single record node listing the header from offset
//     zero, cornerstones and free gaps alike.
//
// The DOT text can be saved and processed with external Graphviz tools or
// rendered in-process with [Render]:
//
//	alloc := placement.Allocate(cat)
//	dot := render.PositionsDOT(cat, alloc)
//	svg, err := render.Render(ctx, dot, render.FormatSVG)
//
// # Dependencies
//
// In-process rendering uses [github.com/goccy/go-graphviz], which bundles
// Graphviz as WebAssembly; no system install is needed.
package render
