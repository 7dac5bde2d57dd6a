package placement

import (
	"slices"

	"github.com/matzehuels/cornerstone/pkg/suite"
)

// Allocation is the result of [Allocate].
type Allocation struct {
	// Positions holds every suite's allowed offsets, ascending.
	Positions Positions `json:"positions"`

	// Exclusive holds each suite's exclusive offset. Exclusive slots are
	// laid end to end in catalog order, so the intervals
	// [Exclusive[s], Exclusive[s]+len(s)) never overlap each other.
	Exclusive map[string]int `json:"exclusive"`

	// Order is the processing order, i.e. the catalog order.
	Order []string `json:"order"`
}

// ExclusiveInterval returns the exclusive slot of a suite.
func (a *Allocation) ExclusiveInterval(cat *suite.Catalog, name string) (Interval, bool) {
	off, ok := a.Exclusive[name]
	if !ok {
		return Interval{}, false
	}
	return Interval{Start: off, End: off + cat.CornerstoneLen(name)}, true
}

// ByOffset groups the allowed offsets by offset in catalog order.
func (a *Allocation) ByOffset() []OffsetGroup {
	return a.Positions.ByOffset(a.Order)
}

// Allocate computes the allowed offsets of every suite in the catalog.
//
// Suites are processed in catalog order with a growing budget. The i-th
// suite (zero-based) with cornerstone length L receives the grid
// 0, L, ..., (i-1)L followed by one exclusive offset, the sum of the
// cornerstone lengths of the suites before it. When the last grid offset
// would reach into the exclusive slot (gridLast+L >= exclusive) it is
// dropped. Earlier suites thus get short, dense grids and every suite keeps
// a slot of its own.
//
// The result is deterministic for a given catalog.
func Allocate(cat *suite.Catalog) *Allocation {
	a := &Allocation{
		Positions: make(Positions, cat.Len()),
		Exclusive: make(map[string]int, cat.Len()),
		Order:     cat.Names(),
	}

	limit := 1
	nextFree := 0
	for _, s := range cat.Suites() {
		size := s.CornerstoneLen

		offsets := make([]int, 0, limit)
		for next := 0; len(offsets) < limit-1; next += size {
			offsets = append(offsets, next)
		}

		offsets = append(offsets, nextFree)
		a.Exclusive[s.Name] = nextFree
		nextFree += size
		limit++

		if n := len(offsets); n >= 2 && offsets[n-2]+size >= offsets[n-1] {
			offsets = slices.Delete(offsets, n-2, n-1)
		}

		slices.Sort(offsets)
		a.Positions[s.Name] = slices.Compact(offsets)
	}

	return a
}
