package placement

import (
	stderrors "errors"
	"math/rand/v2"
	"slices"
	"strconv"
	"testing"

	"github.com/matzehuels/cornerstone/pkg/errors"
	"github.com/matzehuels/cornerstone/pkg/suite"
)

func TestCombinations(t *testing.T) {
	got := Combinations(4, 2)
	want := [][]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}
	if len(got) != len(want) {
		t.Fatalf("got %d combinations, want %d", len(got), len(want))
	}
	for i := range want {
		if !slices.Equal(got[i], want[i]) {
			t.Errorf("combination %d = %v, want %v", i, got[i], want[i])
		}
	}

	if n := len(Combinations(6, 3)); n != 20 {
		t.Errorf("C(6,3) = %d, want 20", n)
	}
	if n := len(Combinations(3, 3)); n != 1 {
		t.Errorf("C(3,3) = %d, want 1", n)
	}
	if Combinations(3, 4) != nil || Combinations(3, 0) != nil {
		t.Error("out of range k should return nil")
	}
}

// checkReport asserts that every placement in the report is disjoint and
// uses only allowed offsets.
func checkReport(t *testing.T, cat *suite.Catalog, alloc *Allocation, r *Report) {
	t.Helper()
	for _, res := range r.Results {
		if len(res.Placement) != len(res.Suites) {
			t.Errorf("%v: placement covers %d suites", res.Suites, len(res.Placement))
		}
		if a, b, overlap := res.Placement.Overlap(); overlap {
			t.Errorf("%v: %s and %s overlap in %s", res.Suites, a, b, res.Placement)
		}
		for name, iv := range res.Placement {
			if !alloc.Positions.Contains(name, iv.Start) {
				t.Errorf("%v: %s placed at %d, not an allowed offset", res.Suites, name, iv.Start)
			}
			if iv.Len() != cat.CornerstoneLen(name) {
				t.Errorf("%v: %s interval %v has wrong length", res.Suites, name, iv)
			}
		}
	}
}

func TestVerifyDefaultCatalog(t *testing.T) {
	cat := suite.Default()
	alloc := Allocate(cat)

	r, err := Verify(cat, alloc, VerifyOptions{})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !r.OK() {
		t.Fatalf("Verify failed on %v", r.Failure)
	}

	// 2^6 subsets minus the empty set and the 6 singletons.
	if r.Checked != 57 || len(r.Results) != 57 {
		t.Errorf("Checked = %d, Results = %d, want 57", r.Checked, len(r.Results))
	}
	if r.MinSize != 2 || r.MaxSize != 6 {
		t.Errorf("bounds = %d..%d, want 2..6", r.MinSize, r.MaxSize)
	}
	checkReport(t, cat, alloc, r)

	first := r.Results[0]
	if !slices.Equal(first.Suites, []string{"a", "b"}) {
		t.Errorf("first subset = %v, want [a b]", first.Suites)
	}
}

func TestVerifyToyCatalog(t *testing.T) {
	cat := suite.Toy()
	alloc := Allocate(cat)

	r, err := Verify(cat, alloc, VerifyOptions{})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	// 6 pairs, 4 triples, 1 full set
	if r.Checked != 11 {
		t.Errorf("Checked = %d, want 11", r.Checked)
	}
	checkReport(t, cat, alloc, r)
}

func TestVerifyBounds(t *testing.T) {
	cat := suite.Default()
	alloc := Allocate(cat)

	var seen int
	r, err := Verify(cat, alloc, VerifyOptions{MinSize: 3, MaxSize: 4, OnSubset: func(SubsetResult) { seen++ }})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	// C(6,3) + C(6,4)
	if r.Checked != 35 || seen != 35 {
		t.Errorf("Checked = %d, callbacks = %d, want 35", r.Checked, seen)
	}

	tests := []struct {
		opts   VerifyOptions
		lo, hi int
	}{
		{VerifyOptions{}, 2, 6},
		{VerifyOptions{MinSize: 1}, 2, 6},
		{VerifyOptions{MaxSize: 99}, 2, 6},
		{VerifyOptions{MinSize: 4, MaxSize: 5}, 4, 5},
	}
	for _, tt := range tests {
		lo, hi, err := tt.opts.Bounds(6)
		if err != nil || lo != tt.lo || hi != tt.hi {
			t.Errorf("Bounds(%+v) = %d..%d, %v, want %d..%d", tt.opts, lo, hi, err, tt.lo, tt.hi)
		}
	}
}

func TestVerifyEmptyBounds(t *testing.T) {
	cat := suite.Toy()
	alloc := Allocate(cat)

	for _, opts := range []VerifyOptions{
		{MinSize: 5},
		{MaxSize: 1},
		{MinSize: 4, MaxSize: 3},
	} {
		r, err := Verify(cat, alloc, opts)
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Verify(%+v) err = %v, want %s", opts, err, errors.ErrCodeInvalidInput)
		}
		if r != nil {
			t.Errorf("Verify(%+v) report = %+v, want nil", opts, r)
		}
	}

	single := suite.MustCatalog(suite.Suite{Name: "a", CornerstoneLen: 8})
	r, err := Verify(single, Allocate(single), VerifyOptions{})
	if err != nil || !r.OK() || r.Checked != 0 {
		t.Errorf("single-suite catalog: report %+v, err %v", r, err)
	}
}

func TestVerifySingleSuiteCatalog(t *testing.T) {
	cat := suite.MustCatalog(suite.Suite{Name: "only", CornerstoneLen: 32})
	r, err := Verify(cat, Allocate(cat), VerifyOptions{})
	if err != nil || !r.OK() || r.Checked != 0 {
		t.Errorf("Verify = %+v, %v; want empty success", r, err)
	}
}

func TestVerifyReportsFirstFailure(t *testing.T) {
	cat := suite.MustCatalog(
		suite.Suite{Name: "x", CornerstoneLen: 8},
		suite.Suite{Name: "y", CornerstoneLen: 8},
		suite.Suite{Name: "z", CornerstoneLen: 8},
	)
	// A hand-made allocation in which x and z can only share offset 0.
	alloc := &Allocation{
		Positions: Positions{"x": {0}, "y": {8}, "z": {0}},
		Exclusive: map[string]int{"x": 0, "y": 8, "z": 0},
		Order:     cat.Names(),
	}

	r, err := Verify(cat, alloc, VerifyOptions{})
	var unsat *UnsatisfiableError
	if !stderrors.As(err, &unsat) {
		t.Fatalf("Verify error = %v, want *UnsatisfiableError", err)
	}
	if r.OK() || !slices.Equal(r.Failure, []string{"x", "z"}) {
		t.Errorf("Failure = %v, want [x z]", r.Failure)
	}
	// {x,y} succeeded before {x,z} failed; the sweep stopped there.
	if r.Checked != 2 || len(r.Results) != 1 {
		t.Errorf("Checked = %d, Results = %d; want 2, 1", r.Checked, len(r.Results))
	}
}

func TestVerifyRandomCatalogs(t *testing.T) {
	// Whatever the outcome, successful placements must be disjoint and a
	// failure must be a typed unsatisfiable error.
	rng := rand.New(rand.NewPCG(3, 5))
	for round := 0; round < 30; round++ {
		n := 2 + rng.IntN(5)
		suites := make([]suite.Suite, n)
		for i := range suites {
			suites[i] = suite.Suite{Name: "s" + strconv.Itoa(i), CornerstoneLen: 1 + rng.IntN(64)}
		}
		cat := suite.MustCatalog(suites...)
		alloc := Allocate(cat)

		r, err := Verify(cat, alloc, VerifyOptions{})
		if err != nil {
			var unsat *UnsatisfiableError
			if !stderrors.As(err, &unsat) {
				t.Fatalf("%s: unexpected error %v", cat, err)
			}
			if r.OK() {
				t.Fatalf("%s: error without failure in report", cat)
			}
		}
		checkReport(t, cat, alloc, r)
	}
}
