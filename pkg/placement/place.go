package placement

import (
	"slices"

	"github.com/matzehuels/cornerstone/pkg/errors"
	"github.com/matzehuels/cornerstone/pkg/suite"
)

// Place assigns one allowed offset to each named suite so that no two
// cornerstones overlap.
//
// Suites are placed in the order given. For the first suite each candidate
// is tried in ascending order; once it is placed, every candidate interval
// of that suite, not only the chosen one, is removed from the other
// suites' candidates before the remaining suites are searched. This
// mirrors the allocator's conservative reservation: any slot a suite could
// occupy is treated as consumed. The first complete assignment is
// returned.
//
// An unknown suite name yields an UNKNOWN_SUITE error. When no assignment
// exists the error is an [*UnsatisfiableError] naming the suites.
func Place(cat *suite.Catalog, positions Positions, suites []string) (Placement, error) {
	if _, err := cat.Subset(suites); err != nil {
		return nil, err
	}
	for _, name := range suites {
		if _, ok := positions[name]; !ok {
			return nil, errors.New(errors.ErrCodeUnknownSuite, "suite %q has no allowed positions", name)
		}
	}

	p, ok := place(cat, positions, suites, make(Placement, len(suites)))
	if !ok {
		return nil, &UnsatisfiableError{Suites: slices.Clone(suites)}
	}
	return p, nil
}

// place is the recursive search. Neither positions nor solution is
// modified; each branch works on its own copies.
func place(cat *suite.Catalog, positions Positions, todo []string, solution Placement) (Placement, bool) {
	if len(todo) == 0 {
		return solution, true
	}

	name, rest := todo[0], todo[1:]
	size := cat.CornerstoneLen(name)
	candidates := positions[name]

	reserved := make([]Interval, len(candidates))
	for i, off := range candidates {
		reserved[i] = Interval{Start: off, End: off + size}
	}

	// The exclusion does not depend on the chosen candidate.
	filtered := excludeAll(cat, positions, name, reserved)

	for _, iv := range reserved {
		branch := solution.clone()
		branch[name] = iv

		if res, ok := place(cat, filtered, rest, branch); ok {
			return res, true
		}
	}
	return nil, false
}
