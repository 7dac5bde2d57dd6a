package placement

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Interval is a half-open byte range [Start, End).
type Interval struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns End - Start.
func (iv Interval) Len() int { return iv.End - iv.Start }

// Overlaps reports whether two half-open intervals intersect.
func (iv Interval) Overlaps(o Interval) bool {
	return iv.Start < o.End && o.Start < iv.End
}

// String formats the interval as "[start,end)".
func (iv Interval) String() string {
	return fmt.Sprintf("[%d,%d)", iv.Start, iv.End)
}

// Positions maps a suite name to its ascending candidate start offsets.
type Positions map[string][]int

// Clone returns a deep copy.
func (p Positions) Clone() Positions {
	out := make(Positions, len(p))
	for name, offsets := range p {
		out[name] = slices.Clone(offsets)
	}
	return out
}

// Equal reports whether both maps hold the same offsets for the same suites.
func (p Positions) Equal(o Positions) bool {
	return maps.EqualFunc(p, o, slices.Equal[[]int])
}

// Contains reports whether offset is a candidate for suite.
func (p Positions) Contains(suite string, offset int) bool {
	_, found := slices.BinarySearch(p[suite], offset)
	return found
}

// Max returns the largest candidate offset over all suites, or -1 when
// there are none.
func (p Positions) Max() int {
	m := -1
	for _, offsets := range p {
		if n := len(offsets); n > 0 && offsets[n-1] > m {
			m = offsets[n-1]
		}
	}
	return m
}

// OffsetGroup lists the suites that may start at one offset.
type OffsetGroup struct {
	Offset int      `json:"offset"`
	Suites []string `json:"suites"`
}

// ByOffset regroups the candidates by offset, ascending. Suites within a
// group follow order, which is normally the catalog order; suites missing
// from order are appended by name.
func (p Positions) ByOffset(order []string) []OffsetGroup {
	names := orderedNames(p, order)
	groups := make(map[int][]string)
	for _, name := range names {
		for _, off := range p[name] {
			groups[off] = append(groups[off], name)
		}
	}

	offsets := slices.Sorted(maps.Keys(groups))
	out := make([]OffsetGroup, len(offsets))
	for i, off := range offsets {
		out[i] = OffsetGroup{Offset: off, Suites: groups[off]}
	}
	return out
}

func orderedNames(p Positions, order []string) []string {
	names := make([]string, 0, len(p))
	seen := make(map[string]bool, len(p))
	for _, name := range order {
		if _, ok := p[name]; ok && !seen[name] {
			names = append(names, name)
			seen[name] = true
		}
	}
	var rest []string
	for name := range p {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	slices.Sort(rest)
	return append(names, rest...)
}

// Placement assigns each placed suite its cornerstone interval.
type Placement map[string]Interval

// clone returns a copy with room for one more entry.
func (p Placement) clone() Placement {
	out := make(Placement, len(p)+1)
	maps.Copy(out, p)
	return out
}

// Slot is one placed suite, used for ordered iteration.
type Slot struct {
	Suite    string   `json:"suite"`
	Interval Interval `json:"interval"`
}

// Slots returns the placement ordered by start offset, ties by name.
func (p Placement) Slots() []Slot {
	out := make([]Slot, 0, len(p))
	for name, iv := range p {
		out = append(out, Slot{Suite: name, Interval: iv})
	}
	slices.SortFunc(out, func(a, b Slot) int {
		if a.Interval.Start != b.Interval.Start {
			return a.Interval.Start - b.Interval.Start
		}
		return strings.Compare(a.Suite, b.Suite)
	})
	return out
}

// End returns the largest interval end, which is the header prefix
// length the cornerstones occupy.
func (p Placement) End() int {
	end := 0
	for _, iv := range p {
		end = max(end, iv.End)
	}
	return end
}

// Overlap returns the first pair of suites whose intervals intersect, in
// start order. ok is false when all intervals are pairwise disjoint.
func (p Placement) Overlap() (a, b string, ok bool) {
	slots := p.Slots()
	for i := 1; i < len(slots); i++ {
		for j := 0; j < i; j++ {
			if slots[i].Interval.Overlaps(slots[j].Interval) {
				return slots[j].Suite, slots[i].Suite, true
			}
		}
	}
	return "", "", false
}

// String formats the placement as "a:[0,64) d:[64,96)" in start order.
func (p Placement) String() string {
	slots := p.Slots()
	parts := make([]string, len(slots))
	for i, s := range slots {
		parts[i] = s.Suite + ":" + s.Interval.String()
	}
	return strings.Join(parts, " ")
}
