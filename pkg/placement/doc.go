// Package placement assigns header offsets to suite cornerstones.
//
// A multi-recipient header carries one cornerstone per suite the sender
// targets, but the encoder does not know in advance which suites a message
// will combine. The package therefore works in two stages:
//
//  1. [Allocate] derives, once per catalog, an ordered set of allowed start
//     offsets for every suite. Each suite gets a grid of reusable offsets
//     plus one exclusive offset that no other suite's exclusive slot
//     overlaps.
//  2. [Place] picks one offset per suite for a concrete subset of suites by
//     depth-first search over the allowed offsets, pruning other suites'
//     candidates with [Exclude] as it goes. The first complete assignment
//     wins; the search proves existence, it does not minimize header size.
//
// [Verify] runs Place over every subset of two or more suites and reports
// the first subset that cannot be placed. It is the executable form of the
// scheme's guarantee and should be run for every new catalog, because the
// allocator's candidate pruning is a heuristic that is only validated
// empirically.
//
// All functions are pure. Search branches work on private copies of
// [Positions] and [Placement]; nothing is shared between branches.
//
// # Example
//
//	cat := suite.Default()
//	alloc := placement.Allocate(cat)
//	p, err := placement.Place(cat, alloc.Positions, []string{"a", "d"})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(p) // a:[0,64) d:[64,96)
package placement
