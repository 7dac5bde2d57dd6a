// Package layout maps cornerstone placements onto a header byte region.
//
// A [Layout] records labelled [start, end) reservations, keeps them sorted
// by start offset and maintains a coalesced view in which overlapping
// reservations are merged. It answers whether a range is free and can
// enumerate the free gaps below a limit.
//
// [FromPlacement] builds the header prefix for a concrete placement:
// every cornerstone is reserved exclusively, so a layout built from a
// valid placement doubles as a second check that no two cornerstones
// overlap.
package layout
