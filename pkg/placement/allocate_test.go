package placement

import (
	"math/rand/v2"
	"slices"
	"strconv"
	"testing"

	"github.com/matzehuels/cornerstone/pkg/suite"
)

func TestAllocateDefaultCatalog(t *testing.T) {
	alloc := Allocate(suite.Default())

	want := Positions{
		"a": {0},
		"b": {0, 64},
		"c": {0, 96},
		"d": {0, 32, 64, 160},
		"e": {0, 64, 128, 192},
		"f": {0, 32, 64, 96, 128, 256},
	}
	if !alloc.Positions.Equal(want) {
		t.Errorf("Positions = %v, want %v", alloc.Positions, want)
	}

	wantExclusive := map[string]int{"a": 0, "b": 64, "c": 96, "d": 160, "e": 192, "f": 256}
	for name, off := range wantExclusive {
		if alloc.Exclusive[name] != off {
			t.Errorf("Exclusive[%s] = %d, want %d", name, alloc.Exclusive[name], off)
		}
	}

	if !slices.Equal(alloc.Order, []string{"a", "b", "c", "d", "e", "f"}) {
		t.Errorf("Order = %v", alloc.Order)
	}
}

func TestAllocateToyCatalogPrunesGrid(t *testing.T) {
	alloc := Allocate(suite.Toy())

	// b's grid offset 0 would run into its exclusive slot at 1 and is
	// dropped; c and d keep their full grids.
	want := Positions{
		"a": {0},
		"b": {1},
		"c": {0, 1, 3},
		"d": {0, 1, 2, 4},
	}
	if !alloc.Positions.Equal(want) {
		t.Errorf("Positions = %v, want %v", alloc.Positions, want)
	}
}

func TestAllocateTwoSuites(t *testing.T) {
	cat := suite.MustCatalog(
		suite.Suite{Name: "A", CornerstoneLen: 64},
		suite.Suite{Name: "B", CornerstoneLen: 32},
	)
	alloc := Allocate(cat)

	if !slices.Equal(alloc.Positions["A"], []int{0}) {
		t.Errorf("A = %v, want [0]", alloc.Positions["A"])
	}
	if !slices.Equal(alloc.Positions["B"], []int{0, 64}) {
		t.Errorf("B = %v, want [0 64]", alloc.Positions["B"])
	}
	if iv, _ := alloc.ExclusiveInterval(cat, "B"); iv != (Interval{64, 96}) {
		t.Errorf("B exclusive = %v, want [64,96)", iv)
	}
	if _, ok := alloc.ExclusiveInterval(cat, "Z"); ok {
		t.Error("unknown suite should have no exclusive interval")
	}
}

func TestAllocateGridOverlappingExclusive(t *testing.T) {
	// A large cornerstone after small ones: the grid step 100 lands past
	// the exclusive slot at 2 and is dropped.
	cat := suite.MustCatalog(
		suite.Suite{Name: "x", CornerstoneLen: 1},
		suite.Suite{Name: "y", CornerstoneLen: 1},
		suite.Suite{Name: "z", CornerstoneLen: 100},
	)
	alloc := Allocate(cat)
	if !slices.Equal(alloc.Positions["z"], []int{0, 2}) {
		t.Errorf("z = %v, want [0 2]", alloc.Positions["z"])
	}
}

func TestAllocateDeterministic(t *testing.T) {
	for _, cat := range []*suite.Catalog{suite.Default(), suite.Toy()} {
		a1, a2 := Allocate(cat), Allocate(cat)
		if !a1.Positions.Equal(a2.Positions) {
			t.Errorf("Allocate is not deterministic for %s", cat)
		}
	}
}

// checkAllocation asserts the structural invariants every allocation must
// satisfy: ascending unique non-negative offsets, and exclusive slots that
// tile [0, total) in catalog order without touching each other.
func checkAllocation(t *testing.T, cat *suite.Catalog, alloc *Allocation) {
	t.Helper()

	next := 0
	for _, s := range cat.Suites() {
		offsets := alloc.Positions[s.Name]
		if len(offsets) == 0 {
			t.Fatalf("%s: no allowed offsets", s.Name)
		}
		for i, off := range offsets {
			if off < 0 {
				t.Errorf("%s: negative offset %d", s.Name, off)
			}
			if i > 0 && offsets[i-1] >= off {
				t.Errorf("%s: offsets not strictly ascending: %v", s.Name, offsets)
			}
		}

		ex, ok := alloc.Exclusive[s.Name]
		if !ok {
			t.Fatalf("%s: no exclusive offset", s.Name)
		}
		if ex != next {
			t.Errorf("%s: exclusive offset %d, want %d", s.Name, ex, next)
		}
		if !alloc.Positions.Contains(s.Name, ex) {
			t.Errorf("%s: exclusive offset %d missing from %v", s.Name, ex, offsets)
		}
		next += s.CornerstoneLen
	}

	for i := 0; i < cat.Len(); i++ {
		for j := i + 1; j < cat.Len(); j++ {
			a, b := cat.At(i).Name, cat.At(j).Name
			ia, _ := alloc.ExclusiveInterval(cat, a)
			ib, _ := alloc.ExclusiveInterval(cat, b)
			if ia.Overlaps(ib) {
				t.Errorf("exclusive slots of %s %v and %s %v overlap", a, ia, b, ib)
			}
			if alloc.Exclusive[a] == alloc.Exclusive[b] {
				t.Errorf("%s and %s share exclusive offset", a, b)
			}
		}
	}
}

func TestAllocateInvariants(t *testing.T) {
	checkAllocation(t, suite.Default(), Allocate(suite.Default()))
	checkAllocation(t, suite.Toy(), Allocate(suite.Toy()))
}

func TestAllocateInvariantsRandomCatalogs(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for round := 0; round < 50; round++ {
		n := 1 + rng.IntN(8)
		suites := make([]suite.Suite, n)
		for i := range suites {
			suites[i] = suite.Suite{Name: "s" + strconv.Itoa(i), CornerstoneLen: 1 + rng.IntN(96)}
		}
		cat := suite.MustCatalog(suites...)
		checkAllocation(t, cat, Allocate(cat))
	}
}

func TestByOffset(t *testing.T) {
	groups := Allocate(suite.Toy()).ByOffset()

	want := []OffsetGroup{
		{0, []string{"a", "c", "d"}},
		{1, []string{"b", "c", "d"}},
		{2, []string{"d"}},
		{3, []string{"c"}},
		{4, []string{"d"}},
	}
	if len(groups) != len(want) {
		t.Fatalf("got %d groups, want %d: %v", len(groups), len(want), groups)
	}
	for i := range want {
		if groups[i].Offset != want[i].Offset || !slices.Equal(groups[i].Suites, want[i].Suites) {
			t.Errorf("group %d = %+v, want %+v", i, groups[i], want[i])
		}
	}
}

func TestByOffsetUnorderedNames(t *testing.T) {
	p := Positions{"y": {0}, "x": {0, 4}}
	groups := p.ByOffset(nil)
	if !slices.Equal(groups[0].Suites, []string{"x", "y"}) {
		t.Errorf("missing order should fall back to name order, got %v", groups[0].Suites)
	}
	if p.Max() != 4 {
		t.Errorf("Max() = %d, want 4", p.Max())
	}
	if (Positions{}).Max() != -1 {
		t.Error("empty Max() should be -1")
	}
}
