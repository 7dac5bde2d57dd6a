package placement

import (
	"fmt"

	"github.com/matzehuels/cornerstone/pkg/errors"
	"github.com/matzehuels/cornerstone/pkg/suite"
)

// VerifyOptions narrows the feasibility sweep.
type VerifyOptions struct {
	// MinSize is the smallest subset size checked. Values below 2 mean 2.
	MinSize int

	// MaxSize is the largest subset size checked. Values <= 0 or above the
	// catalog size mean the catalog size.
	MaxSize int

	// OnSubset, if set, is called after each successful placement.
	OnSubset func(SubsetResult)
}

// SubsetResult is one placed subset.
type SubsetResult struct {
	Suites    []string  `json:"suites"`
	Placement Placement `json:"placement"`
}

// Report summarizes a sweep.
type Report struct {
	MinSize int            `json:"min_size"`
	MaxSize int            `json:"max_size"`
	Checked int            `json:"checked"`
	Results []SubsetResult `json:"results"`

	// Failure names the first subset that could not be placed.
	Failure []string `json:"failure,omitempty"`
}

// OK reports whether every checked subset was placed.
func (r *Report) OK() bool { return r.Failure == nil }

// Bounds resolves the effective subset size range for a catalog of n
// suites. An explicit MinSize or MaxSize that leaves no size to check is
// an INVALID_INPUT error; a catalog with fewer than two suites and no
// explicit sizes yields an empty range.
func (o VerifyOptions) Bounds(n int) (lo, hi int, err error) {
	lo, hi = max(o.MinSize, 2), o.MaxSize
	if hi <= 0 || hi > n {
		hi = n
	}
	if lo > hi && (o.MinSize > 0 || o.MaxSize > 0) {
		return lo, hi, errors.New(errors.ErrCodeInvalidInput,
			"no subset sizes between %d and %d for a catalog of %d suites", lo, hi, n)
	}
	return lo, hi, nil
}

// Verify places every subset of the catalog whose size lies within the
// option bounds (by default every subset of two or more suites), using the
// catalog-wide allocation. Subsets are enumerated by size, then in
// lexicographic catalog order, and each subset is placed in catalog order.
//
// The sweep stops at the first unplaceable subset: the returned report has
// Failure set and the error is an [*UnsatisfiableError] for that subset.
// Verify never exits the process; callers decide what a failure means.
func Verify(cat *suite.Catalog, alloc *Allocation, opts VerifyOptions) (*Report, error) {
	lo, hi, err := opts.Bounds(cat.Len())
	if err != nil {
		return nil, err
	}
	r := &Report{MinSize: lo, MaxSize: hi}

	for size := lo; size <= hi; size++ {
		for _, idx := range Combinations(cat.Len(), size) {
			subset := make([]string, size)
			for i, j := range idx {
				subset[i] = cat.At(j).Name
			}

			p, err := Place(cat, alloc.Positions, subset)
			r.Checked++
			if err != nil {
				r.Failure = subset
				return r, fmt.Errorf("verify subset of %d: %w", size, err)
			}

			res := SubsetResult{Suites: subset, Placement: p}
			r.Results = append(r.Results, res)
			if opts.OnSubset != nil {
				opts.OnSubset(res)
			}
		}
	}
	return r, nil
}

// Combinations returns every k-element combination of 0..n-1 in
// lexicographic order. It returns nil when k is out of range.
func Combinations(n, k int) [][]int {
	if k <= 0 || k > n {
		return nil
	}

	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}

	var out [][]int
	for {
		out = append(out, append([]int(nil), idx...))

		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return out
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}
