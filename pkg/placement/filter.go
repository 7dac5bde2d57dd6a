package placement

import "github.com/matzehuels/cornerstone/pkg/suite"

// Exclude returns a copy of positions in which every suite other than
// owner loses the candidates whose cornerstone would intersect taken.
// The input is never modified. A suite may end up with no candidates;
// placing it then fails.
func Exclude(cat *suite.Catalog, positions Positions, owner string, taken Interval) Positions {
	return excludeAll(cat, positions, owner, []Interval{taken})
}

// excludeAll is Exclude for several intervals at once, copying only once.
func excludeAll(cat *suite.Catalog, positions Positions, owner string, taken []Interval) Positions {
	out := make(Positions, len(positions))
	for name, offsets := range positions {
		if name == owner {
			out[name] = append([]int(nil), offsets...)
			continue
		}
		size := cat.CornerstoneLen(name)
		kept := make([]int, 0, len(offsets))
		for _, off := range offsets {
			if !intersectsAny(Interval{Start: off, End: off + size}, taken) {
				kept = append(kept, off)
			}
		}
		out[name] = kept
	}
	return out
}

func intersectsAny(iv Interval, set []Interval) bool {
	for _, o := range set {
		if iv.Overlaps(o) {
			return true
		}
	}
	return false
}
