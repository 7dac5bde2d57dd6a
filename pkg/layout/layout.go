package layout

import (
	"fmt"
	"slices"
	"strings"
)

// Region is a labelled half-open byte range [Start, End).
type Region struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Label string `json:"label,omitempty"`
}

// Len returns End - Start.
func (r Region) Len() int { return r.End - r.Start }

// Overlaps reports whether two regions intersect. Regions that merely
// touch do not overlap.
func (r Region) Overlaps(o Region) bool {
	return r.Start < o.End && o.Start < r.End
}

// String formats the region as `start:end "label"`.
func (r Region) String() string {
	return fmt.Sprintf("%d:%d %q", r.Start, r.End, r.Label)
}

// merge returns the smallest region covering both, with a combined label.
func (r Region) merge(o Region) Region {
	return Region{
		Start: min(r.Start, o.Start),
		End:   max(r.End, o.End),
		Label: "[" + r.Label + "||" + o.Label + "]",
	}
}

// Layout tracks reserved regions of a byte array. The zero value is not
// usable; call New.
type Layout struct {
	regions   []Region // sorted by Start
	coalesced []Region // regions with overlaps merged, sorted by Start
}

// New returns an empty layout.
func New() *Layout {
	l := &Layout{}
	l.Reset()
	return l
}

// Reset marks every byte free.
func (l *Layout) Reset() {
	l.regions = l.regions[:0]
	l.coalesced = l.coalesced[:0]
}

// Clone returns an independent copy.
func (l *Layout) Clone() *Layout {
	return &Layout{
		regions:   slices.Clone(l.regions),
		coalesced: slices.Clone(l.coalesced),
	}
}

// Regions returns the reservations sorted by start offset.
func (l *Layout) Regions() []Region { return slices.Clone(l.regions) }

// End returns the end of the last reserved byte, or 0 when empty.
func (l *Layout) End() int {
	end := 0
	for _, r := range l.coalesced {
		end = max(end, r.End)
	}
	return end
}

// IsFree reports whether no reservation intersects [start, end).
func (l *Layout) IsFree(start, end int) bool {
	probe := Region{Start: start, End: end}
	for _, r := range l.coalesced {
		if r.Overlaps(probe) {
			return false
		}
	}
	return true
}

// Reserve records [start, end) under label. With requireFree the call
// fails, returning false and reserving nothing, when the range intersects
// an existing reservation; without it the range is always recorded.
func (l *Layout) Reserve(start, end int, requireFree bool, label string) bool {
	if requireFree && !l.IsFree(start, end) {
		return false
	}

	r := Region{Start: start, End: end, Label: label}
	i, _ := slices.BinarySearchFunc(l.regions, r, func(a, b Region) int {
		if a.Start != b.Start {
			return a.Start - b.Start
		}
		return -1 // insert after equal starts
	})
	l.regions = slices.Insert(l.regions, i, r)
	l.coalesced = coalesce(l.regions)
	return true
}

// ScanFree calls fn for every free gap in [0, limit), in ascending order.
func (l *Layout) ScanFree(fn func(start, end int), limit int) {
	cur := 0
	for _, r := range l.coalesced {
		if cur >= limit {
			return
		}
		if r.Start > cur {
			fn(cur, min(r.Start, limit))
		}
		cur = max(cur, r.End)
	}
	if cur < limit {
		fn(cur, limit)
	}
}

// FreeRegions collects the gaps reported by ScanFree.
func (l *Layout) FreeRegions(limit int) []Region {
	var out []Region
	l.ScanFree(func(start, end int) {
		out = append(out, Region{Start: start, End: end, Label: "free"})
	}, limit)
	return out
}

// String lists one reservation per line.
func (l *Layout) String() string {
	var b strings.Builder
	for i, r := range l.regions {
		fmt.Fprintf(&b, "%d: %s\n", i, r)
	}
	return b.String()
}

// coalesce merges overlapping regions of a start-sorted slice.
func coalesce(sorted []Region) []Region {
	out := make([]Region, 0, len(sorted))
	for _, r := range sorted {
		if n := len(out); n > 0 && out[n-1].Overlaps(r) {
			out[n-1] = out[n-1].merge(r)
			continue
		}
		out = append(out, r)
	}
	return out
}
